package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"alugueis/internal/cache"
	"alugueis/internal/core"
	applog "alugueis/internal/log"
	"alugueis/internal/middleware/ratelimit"
	"alugueis/internal/middleware/security"
	"alugueis/internal/middleware/trace"
	"alugueis/internal/session"
	appweb "alugueis/web"

	"cloud.google.com/go/civil"
)

const (
	// storageTimeout bounds every storage call made on behalf of a request.
	storageTimeout = 7 * time.Second

	sessionCleanupInterval = 10 * time.Minute
	staticMaxAge           = 3600
)

// RentalService is what the handlers need from the rental ledger.
type RentalService interface {
	ResolveDay(raw string, present bool) (civil.Date, error)
	RecordRental(ctx context.Context, day civil.Date, amount string, method string) (core.Rental, error)
	Dashboard(ctx context.Context, day civil.Date) (core.Dashboard, error)
	FilterRange(ctx context.Context, start, end string) (core.RangeReport, error)
	CashLabel() string
	Ping(ctx context.Context) error
}

type appMetrics struct {
	rentalsRecorded int64
	uptime          time.Time
}

type Server struct {
	http.Server
	templates *template.Template
	rentals   RentalService
	sessions  *session.Manager
	logger    *applog.Logger

	rateLimiter     *ratelimit.Limiter
	traceMiddleware *trace.Middleware
	caches          *cache.Manager
	appMetrics      *appMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server. Call Shutdown to stop its background goroutines.
func NewServer(addr string, rentals RentalService, sessions *session.Manager, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		rentals:         rentals,
		sessions:        sessions,
		logger:          logger,
		rateLimiter:     ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		traceMiddleware: trace.NewMiddleware(security.ClientIP),
		caches:          cache.NewManager(),
		appMetrics:      &appMetrics{uptime: time.Now()},
	}

	if cleaner, ok := sessions.Store().(cache.Cleaner); ok {
		s.caches.Register(cleaner)
	}
	s.caches.StartCleanup(sessionCleanupInterval)

	t, err := template.New("").Funcs(template.FuncMap{
		"money": formatAmount,
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Error("Failed parsing templates", applog.FieldError, err)
	} else {
		s.templates = t
	}

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(staticMaxAge)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/filtrar", s.handleFilter)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(security.ClientIP, s.onRateLimit, http.MethodPost)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)
	handler = applog.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops the background goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldComponent, applog.ComponentRateLimit,
		applog.FieldClientIP, security.ClientIP(r),
		applog.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "60")
	http.Error(w, "Muitas requisições. Tente novamente em instantes.", http.StatusTooManyRequests)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func recordRental(m *appMetrics) {
	atomic.AddInt64(&m.rentalsRecorded, 1)
}
