package mcpserver

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/action"
	"github.com/stretchr/testify/require"
)

type invokerFunc func(ctx context.Context, req *action.Request) *action.Response

func (f invokerFunc) Handle(ctx context.Context, req *action.Request) *action.Response {
	return f(ctx, req)
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func staticInvoker(t *testing.T, status int, body any) invokerFunc {
	t.Helper()
	return func(ctx context.Context, req *action.Request) *action.Response {
		resp, err := action.NewResponse(req, status, body)
		if err != nil {
			panic(err)
		}
		return resp
	}
}

func TestAssistant_MCP_Config_Validate(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	require.ErrorContains(t, cfg.Validate(), "logger is required")

	cfg = Config{Logger: testLogger(t)}
	require.ErrorContains(t, cfg.Validate(), "invoker is required")

	cfg = Config{Logger: testLogger(t), Invoker: staticInvoker(t, http.StatusOK, nil)}
	require.ErrorContains(t, cfg.Validate(), "listen address is required")

	cfg.ListenAddr = ":8010"
	require.NoError(t, cfg.Validate())
	require.Equal(t, defaultReadHeaderTimeout, cfg.ReadHeaderTimeout)
	require.Equal(t, defaultShutdownTimeout, cfg.ShutdownTimeout)
}

func TestAssistant_MCP_Server_HealthAndReady(t *testing.T) {
	t.Parallel()

	ready := false
	s, err := New(Config{
		Logger:     testLogger(t),
		Invoker:    staticInvoker(t, http.StatusOK, nil),
		ListenAddr: ":0",
		Ready:      func() bool { return ready },
	})
	require.NoError(t, err)
	h := s.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok\n", rr.Body.String())

	t.Run("not ready", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		require.Equal(t, "server not ready\n", rr.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		ready = true
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestAssistant_MCP_Server_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	s, err := New(Config{
		Logger:     testLogger(t),
		Invoker:    staticInvoker(t, http.StatusOK, nil),
		ListenAddr: "127.0.0.1:0",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	require.NoError(t, s.Run(ctx))
}
