package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Backend is a fake POS API for tests. Routes are registered on Router and
// every request is recorded.
type Backend struct {
	Router chi.Router
	Server *httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	TraceParent   string
}

// NewBackend starts the fake API and closes it when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{Router: chi.NewRouter()}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			TraceParent:   r.Header.Get("traceparent"),
		})
		b.mu.Unlock()
		b.Router.ServeHTTP(w, r)
	}))
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.Server.URL
}

func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// WriteJSON writes body as raw JSON when it is a string, otherwise encodes it.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if s, ok := body.(string); ok {
		_, _ = w.Write([]byte(s))
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

// Session is an in-memory api.Session.
type Session struct {
	mu      sync.Mutex
	token   string
	Cleared int
}

func NewSession(token string) *Session {
	return &Session{token: token}
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.Cleared++
	return nil
}

// Navigator counts redirects to the root screen.
type Navigator struct {
	mu    sync.Mutex
	roots int
}

func (n *Navigator) ToRoot() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.roots++
}

func (n *Navigator) RootVisits() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.roots
}
