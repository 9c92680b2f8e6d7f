// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/cfcoach/internal/domain/types"
	"github.com/okian/cfcoach/pkg/logger"
)

// Analyzer produces the analysis report for a handle.
type Analyzer interface {
	Analyze(ctx context.Context, handle string) (*types.Report, error)
}

// HealthChecker reports whether backing services are reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits POST /analyze to perHour requests per client.
// Zero disables limiting.
func WithRateLimit(perHour int) Option {
	return func(s *Server) {
		s.ratePerHour = perHour
	}
}

// WithTrustedProxyHeaders keys rate limiting on X-Forwarded-For and
// X-Real-IP instead of the socket peer. Enable only behind a proxy that
// overwrites those headers.
func WithTrustedProxyHeaders(trust bool) Option {
	return func(s *Server) {
		s.trustProxy = trust
	}
}

// WithHealthChecker makes /healthz consult hc.
func WithHealthChecker(hc HealthChecker) Option {
	return func(s *Server) {
		s.healthHandler = NewHealthHandler(hc)
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	analyzeHandler *AnalyzeHandler
	limiter        *RateLimiter
	ratePerHour    int
	trustProxy     bool
	logger         logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(analyzer Analyzer, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler: NewHealthHandler(nil),
		statsHandler:  NewStatsHandler(statsProvider),
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.limiter = NewRateLimiter(s.ratePerHour, s.trustProxy)
	s.analyzeHandler = NewAnalyzeHandler(analyzer, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", s.wrap(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/metrics", MetricsHandler())
	mux.HandleFunc("/analyze", s.wrap(s.limiter.Limit(s.analyzeHandler.HandleAnalyze, "analyze"), "analyze"))
}

// wrap applies the shared middleware chain, outermost first.
func (s *Server) wrap(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return SecurityHeaders(CORS(RequestID(MetricsMiddleware(next, endpoint))))
}

// errorResponse mirrors Message into Error for clients reading "error".
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, Error: msg})
}
