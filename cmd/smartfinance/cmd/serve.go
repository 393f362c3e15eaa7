package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/smartfinance/internal/ai"
	"github.com/mmynk/smartfinance/internal/auth"
	"github.com/mmynk/smartfinance/internal/live"
	"github.com/mmynk/smartfinance/internal/metrics"
	"github.com/mmynk/smartfinance/internal/middleware"
	"github.com/mmynk/smartfinance/internal/service"
	"github.com/mmynk/smartfinance/internal/storage/sqlite"
	"github.com/mmynk/smartfinance/pkg/api/apiconnect"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Run the Connect API, the /live voice socket and the /metrics endpoint.

Without an API key every assistant operation answers with its offline
fallback and live sessions are unavailable.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state, store, err := loadState(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	gateway, closeGateway, err := newGateway(ctx)
	if err != nil {
		return err
	}
	defer closeGateway()

	logger := slog.Default()
	mux := http.NewServeMux()

	interceptors := []connect.Interceptor{middleware.MetricsInterceptor()}
	var jwtManager *auth.JWTManager
	if cfg.Auth.Enabled {
		jwtManager = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		interceptors = append(interceptors, middleware.RequireAuth(jwtManager, service.PublicProcedures...))
	}
	interceptors = append(interceptors, middleware.LoggingInterceptor())
	opts := connect.WithInterceptors(interceptors...)

	if cfg.Auth.Enabled {
		users, ok := store.(*sqlite.SQLiteStore)
		if !ok {
			return errors.New("auth requires the sqlite store")
		}
		authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(users), users, jwtManager, logger)
		mux.Handle(apiconnect.NewAuthServiceHandler(authSvc, opts))
	}
	mux.Handle(apiconnect.NewFinanceServiceHandler(service.NewFinanceService(state, gateway, logger), opts))
	mux.Handle(apiconnect.NewAssistantServiceHandler(service.NewAssistantService(state, gateway, logger), opts))

	bridge := live.NewBridge(gateway.LiveTransport, live.Options{
		QueueSize:      cfg.Live.QueueSize,
		ConnectTimeout: cfg.Live.ConnectTimeout,
	})
	mux.Handle("/live", requireLiveToken(jwtManager, bridge.Handler()))
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	if cfg.Server.StaticDir != "" {
		mux.Handle("/", staticHandler(cfg.Server.StaticDir))
	}

	handler := middleware.CORS(cfg.Server.AllowedOrigins, middleware.RequestLogger(mux))
	server := &http.Server{
		Addr: cfg.Server.Addr,
		// h2c serves HTTP/2 without TLS, which Connect clients use.
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting",
			"address", cfg.Server.Addr,
			"ai", gateway.Configured(),
			"auth", cfg.Auth.Enabled,
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newGateway builds the AI gateway. Without an API key it runs on fallbacks.
func newGateway(ctx context.Context) (*ai.Gateway, func(), error) {
	if cfg.AI.APIKey == "" {
		return ai.NewGateway(nil), func() {}, nil
	}

	gen, err := ai.NewGeminiGenerator(ctx, cfg.AI.APIKey,
		ai.WithModel(cfg.AI.Model),
		ai.WithRetries(cfg.AI.MaxRetries, time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	transport := live.NewGeminiTransport(cfg.AI.APIKey)
	transport.Model = cfg.Live.Model
	transport.Voice = cfg.Live.Voice

	closeFn := func() {
		if err := gen.Close(); err != nil {
			slog.Warn("Failed to close Gemini client", "error", err)
		}
	}
	return ai.NewGateway(gen, ai.WithLiveTransport(transport)), closeFn, nil
}

// requireLiveToken checks the bearer token of the live socket. Browsers
// cannot set headers on WebSocket requests, so the token query parameter is
// accepted when there is no Authorization header.
func requireLiveToken(jwtManager *auth.JWTManager, next http.Handler) http.Handler {
	if jwtManager == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if header := r.Header.Get("Authorization"); header != "" {
			token, _ = middleware.BearerToken(header)
		}
		if _, err := jwtManager.Validate(token); err != nil {
			http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// staticHandler serves the web client, falling back to index.html for
// unknown paths.
func staticHandler(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/smartfinance.v1.") {
			http.NotFound(w, r)
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			path = filepath.Join(dir, "index.html")
		}
		http.ServeFile(w, r, path)
	})
}
