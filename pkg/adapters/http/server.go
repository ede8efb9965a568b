package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	circuit "github.com/alexdmiller/sonic-circuit"
	"github.com/alexdmiller/sonic-circuit/internal/logging"
	"github.com/alexdmiller/sonic-circuit/internal/presentation/graph"
	"github.com/alexdmiller/sonic-circuit/internal/validator"
	"github.com/alexdmiller/sonic-circuit/pkg/codec"
	"github.com/alexdmiller/sonic-circuit/pkg/domain"
	"github.com/alexdmiller/sonic-circuit/pkg/observability"
	"github.com/alexdmiller/sonic-circuit/pkg/share"
)

//go:embed openapi.yaml
var rawSpec []byte

// MaxSimulationTicks bounds a single simulate request.
const MaxSimulationTicks = 100_000

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openapi spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
}

// Server serves circuit validation, simulation and sharing over HTTP.
type Server struct {
	Shares *share.Manager
	// Engine options applied to every circuit the server builds.
	Engine   []circuit.Option
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger

	spec *openapi3.T
}

// Option configures the Server.
type Option func(*Server)

// WithShares enables the /circuits publishing routes.
func WithShares(m *share.Manager) Option {
	return func(s *Server) {
		s.Shares = m
	}
}

// WithEngineOptions sets the options used for every engine built per request.
func WithEngineOptions(opts ...circuit.Option) Option {
	return func(s *Server) {
		s.Engine = append(s.Engine, opts...)
	}
}

// WithRegistry records simulation metrics into reg and serves it on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.Metrics = observability.NewMetrics(reg)
		s.Gatherer = reg
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates the HTTP handler. It fails only if the embedded API
// document is broken.
func NewHandler(opts ...Option) (http.Handler, error) {
	spec, err := LoadSpec()
	if err != nil {
		return nil, err
	}
	s := &Server{spec: spec}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}

	validate, err := validateRequests(spec, s.Logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(validate)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/circuits", func(r chi.Router) {
		r.Post("/validate", s.Validate)
		r.Post("/simulate", s.Simulate)
		r.Post("/mermaid", s.Mermaid)
		r.Get("/", s.List)
		r.Post("/", s.Publish)
		r.Get("/{id}", s.Get)
		r.Delete("/{id}", s.Delete)
		r.Get("/{id}/mermaid", s.GetMermaid)
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Sonic Circuit API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// TokenRequest carries an encoded circuit.
type TokenRequest struct {
	Token string `json:"token"`
}

// SimulateRequest asks for a headless run of a circuit.
type SimulateRequest struct {
	Token string                  `json:"token"`
	Ticks int                     `json:"ticks"`
	Seed  *uint64                 `json:"seed,omitempty"`
	Fires []circuit.ScheduledFire `json:"fires,omitempty"`
}

// Validation reports whether a token decodes, with lint warnings when it does.
type Validation struct {
	Valid    bool                `json:"valid"`
	Nodes    int                 `json:"nodes"`
	Edges    int                 `json:"edges"`
	Line     int                 `json:"line,omitempty"`
	Error    string              `json:"error,omitempty"`
	Warnings []validator.Finding `json:"warnings,omitempty"`
}

// Patch is a shared circuit.
type Patch struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{
		"app":         "sonic-circuit",
		"version":     strings.TrimSpace(circuit.Version),
		"api_version": s.spec.Info.Version,
	})
}

// Validate handles the POST /circuits/validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body TokenRequest
	if !s.decode(w, r, &body) {
		return
	}
	eng, err := circuit.Open(body.Token, s.Engine...)
	if err != nil {
		resp := Validation{Error: err.Error()}
		var de *domain.DecodeError
		if errors.As(err, &de) {
			resp.Line = de.Line
		}
		writeJSON(w, s.Logger, http.StatusUnprocessableEntity, resp)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, Validation{
		Valid:    true,
		Nodes:    len(eng.Nodes()),
		Edges:    len(eng.Edges()),
		Warnings: validator.Lint(eng.Store()),
	})
}

// Simulate handles the POST /circuits/simulate request.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	var body SimulateRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Ticks < 0 || body.Ticks > MaxSimulationTicks {
		http.Error(w, fmt.Sprintf("ticks must be between 0 and %d", MaxSimulationTicks), http.StatusBadRequest)
		return
	}

	opts := append([]circuit.Option{}, s.Engine...)
	if body.Seed != nil {
		opts = append(opts, circuit.WithSeed(*body.Seed))
	}
	if s.Metrics != nil {
		opts = append(opts, circuit.WithLifecycleHooks(s.Metrics.Hooks()))
	}
	opts = append(opts, circuit.WithLogger(s.Logger))

	eng, err := circuit.Open(body.Token, opts...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sim, err := eng.Simulate(r.Context(), body.Ticks, body.Fires)
	switch {
	case errors.Is(err, domain.ErrNodeNotFound), errors.Is(err, circuit.ErrSimulationBudget):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		http.Error(w, fmt.Sprintf("Simulate error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Simulate failed", "error", err)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, sim)
}

// Mermaid handles the POST /circuits/mermaid request.
func (s *Server) Mermaid(w http.ResponseWriter, r *http.Request) {
	var body TokenRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.writeMermaid(w, body.Token)
}

// List handles the GET /circuits request.
func (s *Server) List(w http.ResponseWriter, r *http.Request) {
	if !s.sharing(w) {
		return
	}
	ids, err := s.Shares.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("List failed", "error", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, s.Logger, http.StatusOK, map[string][]string{"ids": ids})
}

// Publish handles the POST /circuits request.
func (s *Server) Publish(w http.ResponseWriter, r *http.Request) {
	if !s.sharing(w) {
		return
	}
	var body TokenRequest
	if !s.decode(w, r, &body) {
		return
	}
	id, err := s.Shares.Publish(r.Context(), body.Token)
	if err != nil {
		var de *domain.DecodeError
		if errors.As(err, &de) || errors.Is(err, codec.ErrTokenTooLarge) || errors.Is(err, codec.ErrInvalidUTF8) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, fmt.Sprintf("Publish error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Publish failed", "error", err)
		return
	}
	token, err := s.Shares.Open(r.Context(), id)
	if err != nil {
		http.Error(w, fmt.Sprintf("Publish error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Publish readback failed", "id", id, "error", err)
		return
	}
	w.Header().Set("Location", "/circuits/"+id)
	writeJSON(w, s.Logger, http.StatusCreated, Patch{ID: id, Token: token})
}

// Get handles the GET /circuits/{id} request.
func (s *Server) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	token, ok := s.open(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, Patch{ID: id, Token: token})
}

// GetMermaid handles the GET /circuits/{id}/mermaid request.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	token, ok := s.open(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	s.writeMermaid(w, token)
}

// Delete handles the DELETE /circuits/{id} request.
func (s *Server) Delete(w http.ResponseWriter, r *http.Request) {
	if !s.sharing(w) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.Shares.Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Delete failed", "id", id, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) open(w http.ResponseWriter, r *http.Request, id string) (string, bool) {
	if !s.sharing(w) {
		return "", false
	}
	token, err := s.Shares.Open(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrPatchNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return "", false
	case err != nil:
		http.Error(w, fmt.Sprintf("Open error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Open failed", "id", id, "error", err)
		return "", false
	}
	return token, true
}

func (s *Server) writeMermaid(w http.ResponseWriter, token string) {
	eng, err := circuit.Open(token, s.Engine...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(eng.Frame(), nil))
}

func (s *Server) sharing(w http.ResponseWriter) bool {
	if s.Shares == nil {
		http.Error(w, "Sharing is not configured", http.StatusNotImplemented)
		return false
	}
	return true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}
