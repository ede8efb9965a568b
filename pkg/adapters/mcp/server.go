package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	circuit "github.com/alexdmiller/sonic-circuit"
	"github.com/alexdmiller/sonic-circuit/internal/logging"
	"github.com/alexdmiller/sonic-circuit/internal/presentation/graph"
	"github.com/alexdmiller/sonic-circuit/internal/validator"
	"github.com/alexdmiller/sonic-circuit/pkg/codec"
	"github.com/alexdmiller/sonic-circuit/pkg/domain"
	"github.com/alexdmiller/sonic-circuit/pkg/share"
)

// MaxSimulationTicks bounds a single simulate_circuit call.
const MaxSimulationTicks = 100_000

// ValidateResult mirrors the HTTP validation response.
type ValidateResult struct {
	Valid    bool                `json:"valid" jsonschema_description:"Whether the token decodes"`
	Nodes    int                 `json:"nodes" jsonschema_description:"Number of nodes"`
	Edges    int                 `json:"edges" jsonschema_description:"Number of edges"`
	Line     int                 `json:"line,omitempty" jsonschema_description:"First offending line, 1-based"`
	Error    string              `json:"error,omitempty" jsonschema_description:"Why decoding failed"`
	Warnings []validator.Finding `json:"warnings,omitempty" jsonschema_description:"Lint findings for circuits that decode"`
}

// TokenArgs carries an encoded circuit.
type TokenArgs struct {
	Token string `json:"token"`
}

// SimulateArgs are the arguments of simulate_circuit.
type SimulateArgs struct {
	Token string                  `json:"token"`
	Ticks int                     `json:"ticks"`
	Seed  *uint64                 `json:"seed,omitempty"`
	Fires []circuit.ScheduledFire `json:"fires,omitempty"`
}

// PatchArgs names a shared circuit.
type PatchArgs struct {
	ID string `json:"id"`
}

// PatchResult is a shared circuit.
type PatchResult struct {
	ID    string `json:"id" jsonschema_description:"Content-derived patch id"`
	Token string `json:"token" jsonschema_description:"Canonical circuit token"`
}

// Server exposes circuit tools over the Model Context Protocol.
type Server struct {
	engine    []circuit.Option
	shares    *share.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithEngineOptions sets the options used for every engine a tool builds.
func WithEngineOptions(opts ...circuit.Option) Option {
	return func(s *Server) {
		s.engine = append(s.engine, opts...)
	}
}

// WithShares registers the publish_circuit and open_circuit tools.
func WithShares(m *share.Manager) Option {
	return func(s *Server) {
		s.shares = m
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(opts ...Option) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer("circuit-mcp", strings.TrimSpace(circuit.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", s.corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", s.corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	tokenParam := mcp.WithString("token", mcp.Required(), mcp.Description("URL-safe circuit token"))

	// TOOL: validate_circuit
	s.mcpServer.AddTool(mcp.NewTool("validate_circuit",
		mcp.WithDescription("Check that a circuit token decodes and report its size."),
		tokenParam,
		mcp.WithOutputSchema[ValidateResult](),
	), mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: simulate_circuit
	s.mcpServer.AddTool(mcp.NewTool("simulate_circuit",
		mcp.WithDescription("Run a circuit headless for a number of ticks and report every node that fired."),
		tokenParam,
		mcp.WithNumber("ticks", mcp.Required(), mcp.Description("Number of ticks to run"), mcp.Min(0), mcp.Max(MaxSimulationTicks)),
		mcp.WithNumber("seed", mcp.Description("Seed for random dispatch (optional)")),
		mcp.WithArray("fires",
			mcp.Description("Nodes to fire by hand: each item fires node before tick runs"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tick": map[string]any{"type": "integer", "minimum": 0},
					"node": map[string]any{"type": "integer", "minimum": 0},
				},
				"required": []string{"tick", "node"},
			}),
		),
		mcp.WithOutputSchema[circuit.Simulation](),
	), mcp.NewStructuredToolHandler(s.handleSimulate))

	// TOOL: circuit_mermaid
	s.mcpServer.AddTool(mcp.NewTool("circuit_mermaid",
		mcp.WithDescription("Render a circuit as a Mermaid flowchart."),
		tokenParam,
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		eng, err := s.open(request.GetString("token", ""), s.engine...)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(graph.GenerateMermaid(eng.Frame(), nil)), nil
	})

	if s.shares == nil {
		return
	}

	// TOOL: publish_circuit
	s.mcpServer.AddTool(mcp.NewTool("publish_circuit",
		mcp.WithDescription("Store a circuit and return its shareable id."),
		tokenParam,
		mcp.WithOutputSchema[PatchResult](),
	), mcp.NewStructuredToolHandler(s.handlePublish))

	// TOOL: open_circuit
	s.mcpServer.AddTool(mcp.NewTool("open_circuit",
		mcp.WithDescription("Fetch a shared circuit by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Patch id")),
		mcp.WithOutputSchema[PatchResult](),
	), mcp.NewStructuredToolHandler(s.handleOpen))
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args TokenArgs) (ValidateResult, error) {
	eng, err := s.open(args.Token, s.engine...)
	if err != nil {
		res := ValidateResult{Error: err.Error()}
		var de *domain.DecodeError
		if errors.As(err, &de) {
			res.Line = de.Line
		}
		return res, nil
	}
	return ValidateResult{
		Valid:    true,
		Nodes:    len(eng.Nodes()),
		Edges:    len(eng.Edges()),
		Warnings: validator.Lint(eng.Store()),
	}, nil
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args SimulateArgs) (circuit.Simulation, error) {
	if args.Ticks < 0 || args.Ticks > MaxSimulationTicks {
		return circuit.Simulation{}, fmt.Errorf("ticks must be between 0 and %d", MaxSimulationTicks)
	}
	opts := append([]circuit.Option{circuit.WithLogger(s.logger)}, s.engine...)
	if args.Seed != nil {
		opts = append(opts, circuit.WithSeed(*args.Seed))
	}
	eng, err := s.open(args.Token, opts...)
	if err != nil {
		return circuit.Simulation{}, err
	}
	sim, err := eng.Simulate(ctx, args.Ticks, args.Fires)
	if err != nil {
		s.logger.Warn("MCP Simulate failed", "error", err)
		return circuit.Simulation{}, fmt.Errorf("simulate failed: %w", err)
	}
	return *sim, nil
}

// open sanitizes a token supplied by the client before decoding it.
func (s *Server) open(token string, opts ...circuit.Option) (*circuit.Engine, error) {
	clean, err := codec.Sanitize(token)
	if err != nil {
		return nil, err
	}
	return circuit.Open(clean, opts...)
}

func (s *Server) handlePublish(ctx context.Context, request mcp.CallToolRequest, args TokenArgs) (PatchResult, error) {
	id, err := s.shares.Publish(ctx, args.Token)
	if err != nil {
		return PatchResult{}, fmt.Errorf("publish failed: %w", err)
	}
	token, err := s.shares.Open(ctx, id)
	if err != nil {
		return PatchResult{}, err
	}
	return PatchResult{ID: id, Token: token}, nil
}

func (s *Server) handleOpen(ctx context.Context, request mcp.CallToolRequest, args PatchArgs) (PatchResult, error) {
	token, err := s.shares.Open(ctx, args.ID)
	if err != nil {
		return PatchResult{}, err
	}
	return PatchResult{ID: args.ID, Token: token}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: circuit://demo
	s.mcpServer.AddResource(mcp.NewResource("circuit://demo", "Demo Circuit",
		mcp.WithResourceDescription("Token of the built-in demo circuit"),
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "circuit://demo",
				MIMEType: "text/plain",
				Text:     circuit.DemoToken,
			},
		}, nil
	})

	// EXPOSE: circuit://scale
	s.mcpServer.AddResource(mcp.NewResource("circuit://scale", "Pitch Scale",
		mcp.WithResourceDescription("Pitches a node may play, lowest first"),
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names := make([]string, len(domain.Scale))
		for i, p := range domain.Scale {
			names[i] = p.String()
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "circuit://scale",
				MIMEType: "text/plain",
				Text:     strings.Join(names, " "),
			},
		}, nil
	})
}
