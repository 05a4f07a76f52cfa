// Package server exposes the Kronecker engine over HTTP.
//
// Routes:
//
//	GET /kronecker?x=..&y=..[&backend=..]  symbol (x/y)
//	GET /jacobi?a=..&n=..[&backend=..]     Jacobi symbol, n odd and positive
//	GET /backends                          registered kernel backends
//	GET /health                            liveness
//	GET /metrics                           Prometheus metrics
//
// Operands are decimal or 0x-prefixed hexadecimal.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/agbru/kroncalc/internal/kernel"
	"github.com/agbru/kroncalc/internal/kronecker"
	"github.com/agbru/kroncalc/internal/logging"
	"github.com/agbru/kroncalc/internal/mpint"
)

const tracerName = "github.com/agbru/kroncalc/internal/server"

// Timeouts of the HTTP server.
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 30 * time.Second
	IdleTimeout     = 60 * time.Second
	ShutdownTimeout = 5 * time.Second
)

// Config holds the server settings.
type Config struct {
	Addr string
	// Backend is used when a request names none; "auto" picks the best.
	Backend  string
	Security SecurityConfig
}

// Server serves the HTTP API.
type Server struct {
	addr     string
	registry *kernel.Registry
	backend  *kernel.Backend
	metrics  *Metrics
	logger   logging.Logger
	security SecurityConfig
	mux      *http.ServeMux
}

// New builds a server over reg. The default backend is resolved once.
func New(cfg Config, reg *kernel.Registry, logger logging.Logger) (*Server, error) {
	if cfg.Backend == "" {
		cfg.Backend = "auto"
	}
	v, err := kernel.ParseVersion(cfg.Backend)
	if err != nil {
		return nil, err
	}
	b, err := reg.Select(v)
	if err != nil {
		return nil, err
	}
	if cfg.Security.MaxOperandBits <= 0 {
		cfg.Security.MaxOperandBits = DefaultSecurityConfig().MaxOperandBits
	}

	s := &Server{
		addr:     cfg.Addr,
		registry: reg,
		backend:  b,
		metrics:  NewMetrics(),
		logger:   logger,
		security: cfg.Security,
		mux:      http.NewServeMux(),
	}
	s.route("/kronecker", s.handleKronecker)
	s.route("/jacobi", s.handleJacobi)
	s.route("/backends", s.handleBackends)
	s.route("/health", s.handleHealth)
	s.route("/metrics", s.handleMetrics)
	return s, nil
}

func (s *Server) route(path string, h http.HandlerFunc) {
	s.mux.HandleFunc(path, SecurityMiddleware(s.security, s.metricsMiddleware(h)))
}

// Handler returns the routed handler, mostly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.mux,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("server started", logging.String("addr", ln.Addr().String()),
		logging.String("backend", s.backend.Name()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown failed", err)
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// metricsMiddleware tracks active requests and latency.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()
		start := time.Now()
		next(w, r)
		s.metrics.ObserveRequest(r.URL.Path, time.Since(start).Seconds())
	}
}

// SymbolResponse is the body of /kronecker and /jacobi.
type SymbolResponse struct {
	X          string `json:"x"`
	Y          string `json:"y"`
	Backend    string `json:"backend"`
	Symbol     int    `json:"symbol"`
	DurationNs int64  `json:"duration_ns"`
}

// BackendInfo is one entry of /backends.
type BackendInfo struct {
	Name      string `json:"name"`
	Version   int    `json:"version"`
	Priority  int    `json:"priority"`
	Supported bool   `json:"supported"`
	Default   bool   `json:"default"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if s.logger != nil && status >= http.StatusInternalServerError {
		s.logger.Error("request failed", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) requireGET(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	s.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	return false
}

// operand parses a query parameter and enforces the size limit. Inputs
// whose significant digits already exceed the limit are rejected before
// parsing; the exact bit length is checked afterwards.
func (s *Server) operand(r *http.Request, name string) (*mpint.Int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, fmt.Errorf("missing parameter %q", name)
	}
	limit := s.security.MaxOperandBits
	if exceedsBits(raw, limit) {
		return nil, fmt.Errorf("parameter %q exceeds %d bits", name, limit)
	}
	v, err := mpint.ParseOperand(raw)
	if err != nil {
		return nil, err
	}
	if v.BitLen() > limit {
		return nil, fmt.Errorf("parameter %q exceeds %d bits", name, limit)
	}
	return v, nil
}

// exceedsBits reports whether the operand text certainly denotes a value
// wider than limit bits. Leading zeros do not count. A decimal digit is
// worth at least 3 bits and a hex digit exactly 4, so n significant digits
// mean more than (n-1)*3 or (n-1)*4 bits.
func exceedsBits(raw string, limit int) bool {
	digits := strings.TrimPrefix(strings.TrimSpace(raw), "-")
	perDigit := 3
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits, perDigit = digits[2:], 4
	}
	digits = strings.TrimLeft(digits, "0")
	return len(digits) > 0 && (len(digits)-1)*perDigit >= limit
}

func (s *Server) backendFor(r *http.Request) (*kernel.Backend, error) {
	name := r.URL.Query().Get("backend")
	if name == "" {
		return s.backend, nil
	}
	v, err := kernel.ParseVersion(name)
	if err != nil {
		return nil, err
	}
	return s.registry.Select(v)
}

func (s *Server) handleKronecker(w http.ResponseWriter, r *http.Request) {
	s.handleSymbol(w, r, "x", "y", false)
}

func (s *Server) handleJacobi(w http.ResponseWriter, r *http.Request) {
	s.handleSymbol(w, r, "a", "n", true)
}

func (s *Server) handleSymbol(w http.ResponseWriter, r *http.Request, xName, yName string, jacobi bool) {
	if !s.requireGET(w, r) {
		return
	}
	x, err := s.operand(r, xName)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	y, err := s.operand(r, yName)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	b, err := s.backendFor(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	_, span := otel.Tracer(tracerName).Start(r.Context(), "server.symbol")
	defer span.End()
	span.SetAttributes(
		attribute.String("kroncalc.backend", b.Name()),
		attribute.Int("kroncalc.x_bits", x.BitLen()),
		attribute.Int("kroncalc.y_bits", y.BitLen()),
		attribute.Bool("kroncalc.jacobi", jacobi),
	)

	engine := kronecker.New(mpint.NewOps(b))
	start := time.Now()
	var sym int
	if jacobi {
		sym, err = engine.Jacobi(x, y)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
	} else {
		sym = engine.Symbol(x, y)
	}
	elapsed := time.Since(start)
	s.metrics.ObserveSymbol(b.Name(), sym)

	writeJSON(w, http.StatusOK, SymbolResponse{
		X:          x.Hex(),
		Y:          y.Hex(),
		Backend:    b.Name(),
		Symbol:     sym,
		DurationNs: elapsed.Nanoseconds(),
	})
}

func (s *Server) handleBackends(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	features := s.registry.Features()
	list := s.registry.List()
	out := make([]BackendInfo, len(list))
	for i, b := range list {
		out[i] = BackendInfo{
			Name:      b.Name(),
			Version:   int(b.Version()),
			Priority:  b.Priority(),
			Supported: b.Supported(features),
			Default:   b == s.backend,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.logger.Debug("metrics: method not allowed", logging.String("method", r.Method))
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.WritePrometheus(w, r)
}
