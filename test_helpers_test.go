package tokentally

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

const testKey = "tt_test_key"

// usageServer captures every /api/usage request body and replies with a
// canned status and payload.
type usageServer struct {
	*httptest.Server

	mu     sync.Mutex
	bodies []map[string]any
}

func newUsageServer(t *testing.T, status int, payload string) *usageServer {
	t.Helper()
	srv := &usageServer{}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/usage" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		srv.mu.Lock()
		srv.bodies = append(srv.bodies, body)
		srv.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if payload != "" {
			_, _ = w.Write([]byte(payload))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (s *usageServer) requests() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.bodies))
	copy(out, s.bodies)
	return out
}

func (s *usageServer) lastBody(t *testing.T) map[string]any {
	t.Helper()
	bodies := s.requests()
	if len(bodies) == 0 {
		t.Fatal("no usage requests received")
	}
	return bodies[len(bodies)-1]
}

func newTestClient(t *testing.T, srv *usageServer) *Client {
	t.Helper()
	client, err := NewClientWithKey(testKey,
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("new test client: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}
