package tracker

import (
	"context"

	"github.com/sirupsen/logrus"

	bridge "github.com/solstice-labs/bridge"
	"github.com/solstice-labs/bridge/client"
	"github.com/solstice-labs/bridge/errors"
)

// SourceStatusClient reads a transaction's status from the source
// ledger. Implemented by client.Client.
type SourceStatusClient interface {
	SignatureStatus(ctx context.Context, signature string) (*client.SignatureStatus, error)
}

// DestinationStatusProvider reports the relay's progress on the
// destination ledger for a finalized source transaction. Optional: with
// no provider the tracker stops at the executing state.
type DestinationStatusProvider interface {
	DestinationStatus(ctx context.Context, sourceSignature string) (*DestinationStatus, error)
}

// DestinationStatus is the relay's view of a bridge transfer.
type DestinationStatus struct {
	// Completed is true once the destination-side effect is confirmed.
	Completed bool
	// Failed is true when the relay gave up on the transfer.
	Failed            bool
	DestinationTxHash string
	Error             string
}

// Tracker recomputes a transfer's lifecycle state from ledger and relay
// state on every poll. It holds no state of its own between polls, so
// two trackers polling the same transfer always agree.
type Tracker struct {
	source      SourceStatusClient
	destination DestinationStatusProvider
}

// New returns a tracker reading the source ledger through src. A nil
// destination provider is valid; transfers then surface as executing
// once source-finalized.
func New(src SourceStatusClient, dst DestinationStatusProvider) *Tracker {
	return &Tracker{source: src, destination: dst}
}

// Status derives the current lifecycle state of a transfer.
//
//	pending     no signature known, or the ledger has not seen it yet
//	validating  observed on the source ledger, not finalized
//	executing   source-finalized, destination effect not yet confirmed
//	completed   destination effect confirmed
//	failed      the source transaction or the relay errored out
//
// Network errors are returned as NetworkUnavailableError without
// guessing a state; the caller retries and the next successful poll
// lands on the true state.
func (t *Tracker) Status(ctx context.Context, correlationID, sourceSignature string) (*bridge.TransferStatus, error) {
	status := &bridge.TransferStatus{
		CorrelationID:   correlationID,
		SourceSignature: sourceSignature,
		State:           bridge.StatePending,
	}

	// Before submission there is nothing to look up. Not an error: the
	// caller may poll as soon as it has a correlation id.
	if sourceSignature == "" {
		return status, nil
	}

	sigStatus, err := t.source.SignatureStatus(ctx, sourceSignature)
	if err != nil {
		return nil, err
	}
	if !sigStatus.Observed {
		return status, nil
	}
	if sigStatus.Err != "" {
		status.State = bridge.StateFailed
		status.Error = sigStatus.Err
		return status, nil
	}
	if !sigStatus.Finalized {
		status.State = bridge.StateValidating
		return status, nil
	}

	status.State = bridge.StateExecuting
	if t.destination == nil {
		return status, nil
	}

	dst, err := t.destination.DestinationStatus(ctx, sourceSignature)
	if err != nil {
		if errors.IsRetryable(err) {
			// The source side is settled; report that much rather than
			// failing the whole poll on a relay outage.
			logrus.WithField("signature", sourceSignature).
				WithError(err).
				Debug("destination status unavailable")
			return status, nil
		}
		return nil, err
	}
	switch {
	case dst.Failed:
		status.State = bridge.StateFailed
		status.Error = dst.Error
		status.DestinationTxHash = dst.DestinationTxHash
	case dst.Completed:
		status.State = bridge.StateCompleted
		status.DestinationTxHash = dst.DestinationTxHash
	}
	return status, nil
}
