package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockBoardHandler struct {
	GetBoardFunc func(w http.ResponseWriter, r *http.Request)
}

func (m *mockBoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	m.GetBoardFunc(w, r)
}

func okBoard() *mockBoardHandler {
	return &mockBoardHandler{GetBoardFunc: func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"columns":[]}`))
	}}
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouter_Routes(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	h := NewRouter(okBoard(), reg, RouterConfig{}, zap.NewNop())

	rec := serve(h, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(h, http.MethodGet, "/board")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pos_test_total 1")

	rec = serve(h, http.MethodPost, "/board")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_RateLimitsBoard(t *testing.T) {
	h := NewRouter(okBoard(), prometheus.NewRegistry(), RouterConfig{RequestsPerSecond: 0.001, Burst: 2}, zap.NewNop())

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/board").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/board").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodGet, "/board").Code)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/healthz").Code)
}

func TestRouter_RecoversPanics(t *testing.T) {
	board := &mockBoardHandler{GetBoardFunc: func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}}
	h := NewRouter(board, prometheus.NewRegistry(), RouterConfig{}, zap.NewNop())

	rec := serve(h, http.MethodGet, "/board")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func TestServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(ln.Addr().String(), NewRouter(okBoard(), prometheus.NewRegistry(), RouterConfig{}, zap.NewNop()), zap.NewNop())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ok")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
}
