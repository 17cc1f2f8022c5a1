// Package http serves the ledger API, the operational endpoints and the
// embedded form page.
package http

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"expenses/internal/cache"
	"expenses/internal/core"
	applog "expenses/internal/log"
	"expenses/internal/middleware/ratelimit"
	"expenses/internal/middleware/security"
	"expenses/internal/middleware/trace"
	"expenses/internal/services"
	appweb "expenses/web"
)

// Ledger is the service behind the expense routes.
type Ledger interface {
	Create(ctx context.Context, req services.CreateRequest) (core.ExpenseRecord, core.Outcome, error)
	List(ctx context.Context, filter core.ListFilter) (services.ListResult, error)
	Get(ctx context.Context, id string) (core.ExpenseRecord, error)
	Summary(ctx context.Context, category string) (core.Summary, error)
	Ping(ctx context.Context) error
	Counters() services.Counters
}

// Config tunes the server. Zero values pick defaults.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	Logger             *applog.Logger
	// CacheStats reports the record cache for /metrics when set.
	CacheStats func() cache.Stats
}

type Server struct {
	http.Server
	ledger     Ledger
	logger     *applog.Logger
	limiter    *ratelimit.Limiter
	detector   *security.Detector
	tracer     *trace.Middleware
	cacheStats func() cache.Stats

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(cfg Config, ledger Ledger) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		ledger:     ledger,
		logger:     logger,
		limiter:    ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		detector:   security.NewDetector(),
		cacheStats: cfg.CacheStats,
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()

	api := func(h http.HandlerFunc) http.Handler { return security.NoStore(h) }
	mux.Handle("POST /expenses", api(s.handleCreateExpense))
	mux.Handle("GET /expenses", api(s.handleListExpenses))
	mux.Handle("GET /expenses/summary", api(s.handleSummary))
	mux.Handle("GET /expenses/{id}", api(s.handleGetExpense))

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := security.StaticAssetMiddleware(300)(http.FileServer(http.FS(sub)))
		mux.Handle("GET /", static)
	} else {
		logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited, http.MethodPost)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.detector.Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	return s
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
