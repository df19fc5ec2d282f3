package client

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solstice-labs/bridge/config"
	"github.com/solstice-labs/bridge/errors"
)

// Client wraps the source-ledger JSON-RPC endpoint of the active network
// profile. All calls are read-only: the engine never submits.
type Client struct {
	SolClient *rpc.Client
	profile   *config.NetworkProfile
}

// New returns a JSON-RPC client for the profile's source-ledger endpoint.
func New(profile *config.NetworkProfile) *Client {
	return &Client{
		SolClient: rpc.New(profile.RPCURL),
		profile:   profile,
	}
}

// LatestBlockhash fetches the finality checkpoint used to time-bound an
// unsigned transaction.
func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	recent, err := c.SolClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, errors.NetworkUnavailablef("could not get latest blockhash: %v", err)
	}
	if recent == nil || recent.Value == nil {
		return solana.Hash{}, errors.NetworkUnavailablef("empty blockhash response")
	}
	return recent.Value.Blockhash, nil
}

// SignatureStatus is the source ledger's view of a submitted transaction.
type SignatureStatus struct {
	// Observed is false while the ledger does not know the signature.
	Observed  bool
	Finalized bool
	Slot      uint64
	// Err carries the ledger-reported failure, if any.
	Err string
}

// SignatureStatus looks up a transaction signature, searching the full
// history so finalized transfers stay visible.
func (c *Client) SignatureStatus(ctx context.Context, signature string) (*SignatureStatus, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, errors.InvalidAddressf("not a valid transaction signature: %q: %v", signature, err)
	}
	out, err := c.SolClient.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, errors.NetworkUnavailablef("could not get signature status: %v", err)
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return &SignatureStatus{Observed: false}, nil
	}
	st := out.Value[0]
	status := &SignatureStatus{
		Observed:  true,
		Finalized: st.ConfirmationStatus == rpc.ConfirmationStatusFinalized,
		Slot:      st.Slot,
	}
	if st.Err != nil {
		status.Err = errorString(st.Err)
	}
	return status, nil
}

// ledger errors come back as loosely typed json
func errorString(ledgerErr interface{}) string {
	if s, ok := ledgerErr.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", ledgerErr)
}
