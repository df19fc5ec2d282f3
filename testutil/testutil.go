package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	bridge "github.com/solstice-labs/bridge"
)

// MockHTTPServer is a stub JSON-RPC endpoint that replays canned
// results in order.
type MockHTTPServer struct {
	URL string
	// Counter is the number of requests served so far.
	Counter int

	server    *httptest.Server
	responses []interface{}
}

// MockJSONRPC starts a stub JSON-RPC server. The response argument is
// either a single canned result, or a []string of results replayed in
// request order; pass an error to have the server reply with a JSON-RPC
// error object whose message is the error text. Each result string is
// embedded verbatim as the "result" field. Callers must invoke the
// returned close function.
func MockJSONRPC(t *testing.T, response interface{}) (*MockHTTPServer, func()) {
	mock := &MockHTTPServer{}
	switch resp := response.(type) {
	case []string:
		for _, r := range resp {
			mock.responses = append(mock.responses, r)
		}
	case []interface{}:
		mock.responses = resp
	default:
		mock.responses = []interface{}{response}
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// drain the request so keep-alive connections can be reused
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()

		idx := mock.Counter
		if idx >= len(mock.responses) {
			idx = len(mock.responses) - 1
		}
		mock.Counter++

		w.Header().Set("Content-Type", "application/json")
		switch resp := mock.responses[idx].(type) {
		case error:
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"error":%s}`, resp.Error())
		case string:
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":%s}`, resp)
		default:
			t.Fatalf("unsupported mock response type %T", resp)
		}
	}))
	mock.URL = mock.server.URL
	return mock, mock.server.Close
}

// HumanToBlockchain converts a decimal amount string into smallest
// units, panicking on malformed input. Test helper.
func HumanToBlockchain(amount string, decimals int32) bridge.AmountBlockchain {
	h, err := bridge.NewAmountHumanReadableFromStr(amount)
	if err != nil {
		panic(err)
	}
	return h.ToBlockchain(decimals)
}
