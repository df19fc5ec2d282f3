package builder

import (
	"github.com/gagliardetto/solana-go"
)

// TxInput is the network-derived input to an unsigned transfer: the
// finality checkpoint (recent blockhash) that time-bounds the
// transaction. Fetching it is the builder's only network round trip;
// everything after is deterministic.
type TxInput struct {
	RecentBlockHash solana.Hash `json:"recent_block_hash"`
	Timestamp       int64       `json:"timestamp,omitempty"`
}
