package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"billdash/internal/core"
	"billdash/internal/log"
	"billdash/internal/metrics"
	"billdash/internal/middleware/ratelimit"
	"billdash/internal/middleware/security"
	"billdash/internal/middleware/trace"
)

// ReadModel is the query API served over HTTP.
type ReadModel interface {
	FetchDashboard(ctx context.Context) (core.Dashboard, error)
	FetchRevenue(ctx context.Context) ([]core.Revenue, error)
	FetchLatestInvoices(ctx context.Context) ([]core.LatestInvoice, error)
	FetchCardData(ctx context.Context) (core.CardData, error)
	FetchFilteredInvoices(ctx context.Context, query string, page int) ([]core.InvoicesTableRow, error)
	FetchInvoicesPages(ctx context.Context, query string) (int, error)
	FetchInvoiceByID(ctx context.Context, id string) (core.InvoiceForm, error)
	FetchCustomers(ctx context.Context) ([]core.CustomerField, error)
	FetchFilteredCustomers(ctx context.Context, query string) ([]core.CustomersTableRow, error)
	GetUser(ctx context.Context, email string) (core.User, error)
}

// Pinger reports whether the datastore is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures optional server collaborators.
type Options struct {
	Logger  *log.Logger
	Metrics *metrics.Metrics
	// Pinger backs /readyz; nil means always ready.
	Pinger Pinger
	// RateLimitPerMinute bounds /api requests per client; zero disables it.
	RateLimitPerMinute int
	TrustedProxies     []string
	ReadinessTimeout   time.Duration
}

type Server struct {
	http.Server

	readModel   ReadModel
	pinger      Pinger
	logger      *log.Logger
	metrics     *metrics.Metrics
	ipResolver  *security.IPResolver
	rateLimiter *ratelimit.Limiter
	started     time.Time
	readyWithin time.Duration

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, rm ReadModel, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	resolver, err := security.NewIPResolver(opts.TrustedProxies...)
	if err != nil {
		return nil, err
	}

	s := &Server{
		readModel:   rm,
		pinger:      opts.Pinger,
		logger:      logger.WithComponent(log.ComponentHTTP),
		metrics:     opts.Metrics,
		ipResolver:  resolver,
		started:     time.Now(),
		readyWithin: opts.ReadinessTimeout,
	}
	if s.readyWithin <= 0 {
		s.readyWithin = 2 * time.Second
	}
	if opts.RateLimitPerMinute > 0 {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerWindow: opts.RateLimitPerMinute,
			Window:            time.Minute,
		})
		if err := s.metrics.RegisterRateLimiter(s.rateLimiter); err != nil {
			s.rateLimiter.Stop()
			return nil, err
		}
	}

	mux := http.NewServeMux()

	s.handle(mux, "GET /api/dashboard", s.handleDashboard)
	s.handle(mux, "GET /api/revenue", s.handleRevenue)
	s.handle(mux, "GET /api/cards", s.handleCards)
	s.handle(mux, "GET /api/invoices", s.handleFilteredInvoices)
	s.handle(mux, "GET /api/invoices/latest", s.handleLatestInvoices)
	s.handle(mux, "GET /api/invoices/pages", s.handleInvoicesPages)
	s.handle(mux, "GET /api/invoices/{id}", s.handleInvoiceByID)
	s.handle(mux, "GET /api/customers", s.handleCustomers)
	s.handle(mux, "GET /api/customers/table", s.handleFilteredCustomers)
	s.handle(mux, "GET /api/users", s.handleUser)

	mux.Handle("GET /healthz", s.instrument("GET /healthz", http.HandlerFunc(s.handleHealth)))
	mux.Handle("GET /readyz", s.instrument("GET /readyz", http.HandlerFunc(s.handleReady)))
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	mux.HandleFunc("/", s.handleNotFound)

	tracer := trace.NewMiddleware(s.logger, s.ipResolver.ClientIP)
	headers := security.Headers(security.DefaultHeadersConfig())

	s.Server = http.Server{
		Addr:              addr,
		Handler:           tracer.Middleware(headers(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// handle registers an API route behind the rate limiter and request metrics.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	var next http.Handler = h
	if s.rateLimiter != nil {
		next = s.rateLimiter.Middleware(s.ipResolver.ClientIP, s.handleRateLimited)(next)
	}
	mux.Handle(pattern, s.instrument(pattern, next))
}

// instrument records the request under route.
func (s *Server) instrument(route string, next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.metrics.ObserveRequest(route, rw.status, time.Since(start))
	})
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
