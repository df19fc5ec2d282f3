package bridge

import (
	"github.com/solstice-labs/bridge/errors"
)

// Token identifies a bridgeable asset. The active network profile maps
// each token to its source-ledger mint and destination-ledger contract.
type Token string

const (
	// The source ledger's native coin (SOL, 9 decimals).
	TokenNative Token = "NATIVE"
	// The supported stable token (6 decimals).
	TokenStable Token = "STABLE"
)

func (t Token) String() string {
	return string(t)
}

// ParseToken normalizes a user-supplied token name.
func ParseToken(raw string) (Token, error) {
	switch Token(raw) {
	case TokenNative, TokenStable:
		return Token(raw), nil
	}
	// accept common aliases from the UI layer
	switch raw {
	case "native", "sol", "SOL":
		return TokenNative, nil
	case "stable", "usdc", "USDC":
		return TokenStable, nil
	}
	return Token(""), errors.UnsupportedTokenf("unknown token: %q", raw)
}

// Address is an address on the source ledger (base58 public key).
type Address string

// ContractAddress is a token mint on the source ledger or a token
// contract on the destination ledger.
type ContractAddress string

// TxHash is a transaction hash or id. On the source ledger it is the
// base58 transaction signature.
type TxHash string
