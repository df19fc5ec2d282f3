package bridge

import (
	"time"
)

// TransferState is the lifecycle state of a bridge transfer.
type TransferState string

const (
	// No source-ledger signature is known yet.
	StatePending TransferState = "pending"
	// The source transaction was observed but is not yet finalized.
	StateValidating TransferState = "validating"
	// The source side is finalized; awaiting relay execution on the
	// destination ledger.
	StateExecuting TransferState = "executing"
	// The destination-side effect is confirmed.
	StateCompleted TransferState = "completed"
	// A step errored out irrecoverably.
	StateFailed TransferState = "failed"
)

// Terminal reports whether no further state changes can occur.
func (s TransferState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Rank orders states along the transfer lifecycle. Both terminal states
// share the highest rank. Useful for asserting that repeated polls never
// move backward.
func (s TransferState) Rank() int {
	switch s {
	case StatePending:
		return 0
	case StateValidating:
		return 1
	case StateExecuting:
		return 2
	case StateCompleted, StateFailed:
		return 3
	}
	return -1
}

// TransferRequest is the caller's intent to move an asset from a
// source-ledger account to a destination-ledger account. It is created
// on demand from user input and never persisted.
type TransferRequest struct {
	SourceAddress Address `json:"source_address"`
	// DestinationAddress is in the destination ledger's format and is
	// validated against the active network profile.
	DestinationAddress string              `json:"destination_address"`
	Token              Token               `json:"token"`
	Amount             AmountHumanReadable `json:"amount"`
}

// BuiltTransfer is the product of the transaction builder: an unsigned,
// serialized source-ledger transaction plus a locally generated
// correlation id. It is handed to an external signer and discarded; only
// the correlation id (and, once known, the ledger signature) is retained
// by the caller for tracking.
type BuiltTransfer struct {
	// Base64 encoding of the unsigned transaction bytes.
	SerializedTransaction string `json:"serialized_transaction"`
	// CorrelationID tracks the transfer before a ledger signature
	// exists. It is not a ledger-native identifier.
	CorrelationID    string    `json:"correlation_id"`
	EstimatedArrival time.Time `json:"estimated_arrival"`
	// Instructions is a human-readable description of what the caller
	// must do next (sign and submit, then poll).
	Instructions string `json:"instructions"`
}

// TransferStatus is the tracker's view of a transfer. It is recomputed
// on every poll from ledger state; the engine holds nothing in between.
type TransferStatus struct {
	CorrelationID     string              `json:"correlation_id"`
	State             TransferState       `json:"state"`
	SourceSignature   string              `json:"source_signature,omitempty"`
	DestinationTxHash string              `json:"destination_tx_hash,omitempty"`
	Amount            AmountHumanReadable `json:"amount,omitempty"`
	Token             Token               `json:"token,omitempty"`
	// If the transfer failed, a human-readable cause for display.
	Error string `json:"error,omitempty"`
}

// Quote is a fee-adjusted estimate for bridging a token. Derived, never
// persisted; recomputed on every request.
type Quote struct {
	Token           Token               `json:"token"`
	RequestedAmount AmountHumanReadable `json:"requested_amount"`
	// EstimatedReceiveAmount equals the requested amount when the relay
	// fee is paid in a different asset, and requested minus fee when the
	// fee is deducted from the same asset.
	EstimatedReceiveAmount AmountHumanReadable `json:"estimated_receive_amount"`
	// RelayFee is always denominated in the source ledger's native coin.
	RelayFee AmountHumanReadable `json:"relay_fee"`
	// DestinationGasFee is paid by the relay, disclosed for transparency.
	DestinationGasFee       AmountHumanReadable `json:"destination_gas_fee"`
	EstimatedSettlementTime time.Duration       `json:"estimated_settlement_time"`
	DestinationTokenAddress ContractAddress     `json:"destination_token_address"`
}
