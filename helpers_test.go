package spotly

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/spotly/spotly-go/testutil"
)

// newTestClient wires a client against the fake server with a fresh
// in-memory session.
func newTestClient(t *testing.T, ts *testutil.Server) *Client {
	t.Helper()
	t.Cleanup(ts.Close)
	return New(WithBaseURL(ts.URL))
}

// makeToken builds an unsigned dot-delimited credential whose payload
// carries the given subject claim.
func makeToken(t *testing.T, sub any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]any{"sub": sub})
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func ptr[T any](v T) *T { return &v }
