package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/solstice-labs/bridge/config"
	"github.com/solstice-labs/bridge/errors"
	"github.com/solstice-labs/bridge/tracker"
)

const defaultTimeout = 10 * time.Second

// Client reads relay progress from the bridge indexer's HTTP API. It
// implements tracker.DestinationStatusProvider.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ tracker.DestinationStatusProvider = &Client{}

// New returns an indexer client for the profile's indexer endpoint, or
// nil when the profile has none configured.
func New(profile *config.NetworkProfile) *Client {
	if profile.IndexerURL == "" {
		return nil
	}
	return &Client{
		baseURL: profile.IndexerURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// relayStatus is the indexer's wire format for a relay record.
type relayStatus struct {
	Status            string `json:"status"`
	DestinationTxHash string `json:"destination_tx_hash,omitempty"`
	Error             string `json:"error,omitempty"`
}

// DestinationStatus looks up the relay record keyed by the source
// transaction signature. A 404 means the relay has not picked the
// transfer up yet, which is not an error.
func (c *Client) DestinationStatus(ctx context.Context, sourceSignature string) (*tracker.DestinationStatus, error) {
	endpoint := fmt.Sprintf("%s/v1/relays/%s", c.baseURL, url.PathEscape(sourceSignature))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("could not build indexer request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.NetworkUnavailablef("indexer unreachable: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return &tracker.DestinationStatus{}, nil
	}
	if res.StatusCode != http.StatusOK {
		return nil, errors.NetworkUnavailablef("indexer returned %s", res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, errors.NetworkUnavailablef("reading indexer response: %v", err)
	}
	var record relayStatus
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, errors.NetworkUnavailablef("invalid indexer response: %v", err)
	}

	out := &tracker.DestinationStatus{
		DestinationTxHash: record.DestinationTxHash,
		Error:             record.Error,
	}
	switch record.Status {
	case "completed":
		out.Completed = true
	case "failed":
		out.Failed = true
	}
	return out, nil
}
