// Package mockserver serves synthesized responses for the HTTP-bound
// operations of a service.
//
// Each operation carrying an http trait gets one route. Incoming requests
// are checked against the operation input: label and query members are read
// from the URL, every other member from the JSON body, and a request missing
// a required member is answered with 400. Successful requests receive a mock
// instance of the operation output with the trait's status code.
//
//	srv, err := mockserver.New(model, "example.weather#Weather")
//	if err != nil {
//	    return err
//	}
//	http.ListenAndServe("127.0.0.1:8080", srv)
//
// Request counts and latencies are exported at /metrics from a registry
// private to the server.
package mockserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erraggy/smithygen"
	"github.com/erraggy/smithygen/generator"
	"github.com/erraggy/smithygen/mockdata"
	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/scaffold"
	"github.com/erraggy/smithygen/shapeerrors"
	"github.com/erraggy/smithygen/typemap"
)

// MetricsPath is where the server exposes its prometheus metrics.
const MetricsPath = "/metrics"

// maxBodyBytes bounds the request bodies the server decodes.
const maxBodyBytes = 1 << 20

// Route describes one registered operation.
type Route struct {
	Operation parser.ShapeID
	Method    string
	// Pattern is the chi route pattern.
	Pattern string
	Code    int
}

// Server is an http.Handler answering a service's operations with mock data.
type Server struct {
	model   *parser.Model
	service *parser.Service
	mocks   *mockdata.Generator
	logger  parser.Logger
	metrics *metrics
	router  chi.Router
	routes  []Route
}

type config struct {
	seed     uint64
	listSize int
	logger   parser.Logger
}

// Option configures a Server.
type Option func(*config)

// WithSeed sets the seed of the mock data generator.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.seed = seed }
}

// WithListSize sets the number of synthesized list elements.
func WithListSize(n int) Option {
	return func(c *config) { c.listSize = n }
}

// WithLogger sets the request logger.
func WithLogger(l parser.Logger) Option {
	return func(c *config) { c.logger = l }
}

// New builds a server for the service id of model. An empty id selects the
// model's only service; a model with several services then fails with a
// *shapeerrors.ServiceCountError.
func New(model *parser.Model, service parser.ShapeID, opts ...Option) (*Server, error) {
	cfg := &config{seed: mockdata.DefaultSeed, listSize: mockdata.DefaultListSize}
	for _, opt := range opts {
		opt(cfg)
	}

	svc, err := selectService(model, service)
	if err != nil {
		return nil, err
	}

	s := &Server{
		model:   model,
		service: svc,
		mocks:   mockdata.New(model, mockdata.WithSeed(cfg.seed), mockdata.WithListSize(cfg.listSize)),
		logger:  parser.OrNop(cfg.logger).With("service", svc.ID().String()),
		metrics: newMetrics(),
	}
	if err := s.buildRouter(); err != nil {
		return nil, err
	}
	return s, nil
}

func selectService(model *parser.Model, id parser.ShapeID) (*parser.Service, error) {
	if id != "" {
		return parser.ResolveAs[*parser.Service](model, id)
	}
	services := model.Services()
	switch len(services) {
	case 1:
		return services[0], nil
	case 0:
		return nil, errors.New("mockserver: model declares no service")
	}
	ids := make([]string, len(services))
	for i, svc := range services {
		ids[i] = svc.ID().String()
	}
	return nil, &shapeerrors.ServiceCountError{Namespace: services[0].ID().Namespace(), Services: ids}
}

func (s *Server) buildRouter() error {
	ops, err := s.model.ServiceOperations(s.service)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Server", smithygen.UserAgent()))
	r.Use(s.instrument)
	r.Handle(MetricsPath, promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	seen := make(map[string]parser.ShapeID)
	for _, op := range ops {
		binding, ok, err := op.Traits().HTTP()
		if err != nil {
			return err
		}
		if !ok {
			s.logger.Debug("operation has no http trait", "operation", op.ID().String())
			continue
		}
		method, err := generator.NormalizeHTTPMethod(op.ID(), binding.Method)
		if err != nil {
			return err
		}
		pattern, greedy := chiPattern(binding.Path())
		key := method + " " + pattern
		if prev, dup := seen[key]; dup {
			s.logger.Warn("duplicate route skipped", "route", key, "operation", op.ID().String(), "registered", prev.String())
			continue
		}
		seen[key] = op.ID()

		h := &operationHandler{server: s, op: op, binding: binding, greedy: greedy}
		r.Method(method, pattern, h)
		s.routes = append(s.routes, Route{Operation: op.ID(), Method: method, Pattern: pattern, Code: binding.Code})
	}
	s.router = r
	return nil
}

// chiPattern converts an http trait path to a chi pattern. chi only supports
// a trailing catch-all, so a greedy label {name+} becomes "*" and its name is
// returned.
func chiPattern(path string) (string, string) {
	start := strings.Index(path, "+}")
	if start < 0 {
		return path, ""
	}
	open := strings.LastIndexByte(path[:start], '{')
	if open < 0 {
		return path, ""
	}
	return path[:open] + "*", path[open+1 : start]
}

// Routes returns the registered operations in service order.
func (s *Server) Routes() []Route {
	return s.routes
}

// Service returns the served service.
func (s *Server) Service() *parser.Service {
	return s.service
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// instrument records the request metrics and logs each request.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == MetricsPath {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		operation := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			operation = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.observe(r.Method, operation, status, time.Since(start))
		s.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type operationHandler struct {
	server  *Server
	op      *parser.Operation
	binding *parser.HTTPBinding
	greedy  string
}

func (h *operationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !typemap.IsUnit(h.op.Input) {
		instance, err := h.requestInstance(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := scaffold.CheckInstance(h.server.model, h.op.Input, instance); err != nil {
			h.server.logger.Info("request rejected", "operation", h.op.ID().String(), "error", err)
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	if typemap.IsUnit(h.op.Output) {
		w.WriteHeader(h.binding.Code)
		return
	}
	out, err := h.server.mocks.Structure(h.op.Output)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	body, err := json.Marshal(out)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(h.binding.Code)
	_, _ = w.Write(body)
}

// requestInstance merges the JSON body with the URL-bound members of the
// input, keyed by serialized member name.
func (h *operationHandler) requestInstance(r *http.Request) (map[string]any, error) {
	instance := make(map[string]any)
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &instance); err != nil {
			return nil, fmt.Errorf("decoding body: %w", err)
		}
	}

	in, err := parser.ResolveAs[*parser.Structure](h.server.model, h.op.Input)
	if err != nil {
		return nil, err
	}
	query := r.URL.Query()
	for _, mem := range in.Members {
		key := mockdata.JSONName(mem)
		if mem.Traits.HTTPLabel() {
			name := mem.Name
			if name == h.greedy {
				name = "*"
			}
			if v := chi.URLParam(r, name); v != "" {
				instance[key] = v
			}
			continue
		}
		if q, ok := mem.Traits.HTTPQuery(); ok && query.Has(q) {
			instance[key] = query.Get(q)
		}
	}
	return instance, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": err.Error()})
}
