package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/smartfinance/internal/ai"
	"github.com/mmynk/smartfinance/internal/auth"
	"github.com/mmynk/smartfinance/internal/entity"
	"github.com/mmynk/smartfinance/internal/middleware"
	"github.com/mmynk/smartfinance/internal/storage"
	"github.com/mmynk/smartfinance/internal/storage/sqlite"
	"github.com/mmynk/smartfinance/pkg/api/apiconnect"
)

// scriptedGenerator answers every model call through respond.
type scriptedGenerator struct {
	mu      sync.Mutex
	respond func(req ai.Request) (string, error)
	calls   int
}

func (g *scriptedGenerator) Generate(ctx context.Context, req ai.Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.respond(req)
}

func (g *scriptedGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type testEnv struct {
	state     *entity.State
	store     *sqlite.SQLiteStore
	finance   apiconnect.FinanceServiceClient
	assistant apiconnect.AssistantServiceClient
	auth      apiconnect.AuthServiceClient
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestServer serves every service over a seeded SQLite database in a
// temp dir. A nil generator runs the assistant on its fallbacks.
func setupTestServer(t *testing.T, gen ai.Generator) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"), storage.DefaultSchema())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	state := entity.NewState(store)
	if err := state.Load(context.Background()); err != nil {
		t.Fatalf("failed to load state: %v", err)
	}

	logger := discardLogger()
	gateway := ai.NewGateway(gen)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, PublicProcedures...),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewFinanceServiceHandler(NewFinanceService(state, gateway, logger)))
	mux.Handle(apiconnect.NewAssistantServiceHandler(NewAssistantService(state, gateway, logger)))
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(auth.NewPasswordAuthenticator(store), store, jwtManager, logger),
		interceptors,
	))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		state:     state,
		store:     store,
		finance:   apiconnect.NewFinanceServiceClient(http.DefaultClient, server.URL),
		assistant: apiconnect.NewAssistantServiceClient(http.DefaultClient, server.URL),
		auth:      apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
	}
}

// wantCode fails unless err carries the given Connect code.
func wantCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", code)
	}
	if got := connect.CodeOf(err); got != code {
		t.Fatalf("expected %v, got %v (%v)", code, got, err)
	}
}
