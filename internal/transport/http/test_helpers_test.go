package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/raghavshulka/ai-draw/internal/auth"
	"github.com/raghavshulka/ai-draw/internal/config"
	"github.com/raghavshulka/ai-draw/internal/core"
	"github.com/raghavshulka/ai-draw/internal/store/sqlite"
)

type testServer struct {
	ts       *httptest.Server
	registry *core.Registry
	auth     *auth.Service
	jwtCfg   *auth.JWTConfig
	store    *sqlite.SQLiteStore
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtCfg := &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}
	authService := auth.NewService(st, jwtCfg)

	disabledLogger := zerolog.Nop()
	registry := core.NewRegistry(0)
	router := core.NewRouter(registry, st, &disabledLogger)

	cfg := config.Default()
	cfg.Addr = ":0"

	server := NewServer(registry, router, authService, st, &cfg, &disabledLogger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testServer{
		ts:       ts,
		registry: registry,
		auth:     authService,
		jwtCfg:   jwtCfg,
		store:    st,
	}
}

// makeToken issues a bearer token without going through registration.
func (s *testServer) makeToken(t *testing.T, userID int64, username string) string {
	t.Helper()

	token, err := auth.GenerateToken(s.jwtCfg, userID, username)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

// dialWS opens a websocket connection authenticated as the given user.
func (s *testServer) dialWS(t *testing.T, ctx context.Context, userID int64, username string) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(s.ts.URL, "http", "ws", 1) + "/ws?token=" + s.makeToken(t, userID, username)
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial as %s: %v", username, err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

// waitForMembers polls until room has want members or the deadline passes.
func (s *testServer) waitForMembers(t *testing.T, room string, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(s.registry.MembersOf(room)) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("room %q never reached %d members", room, want)
}
