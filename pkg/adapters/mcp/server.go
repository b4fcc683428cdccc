package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/vialsort"
	"github.com/aretw0/vialsort/internal/logging"
	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/aretw0/vialsort/pkg/puzzle"
	"github.com/aretw0/vialsort/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GamesURI is the resource listing the stored game ids.
const GamesURI = "vialsort://games"

// ShutdownTimeout bounds graceful shutdown of the SSE listener.
const ShutdownTimeout = 5 * time.Second

// GameResult is the structured result of every game tool.
// It mirrors the JSON view served by the HTTP adapter.
type GameResult struct {
	ID     string              `json:"id" jsonschema_description:"Game identifier"`
	Puzzle *puzzle.Description `json:"puzzle" jsonschema_description:"Current board"`
	Solved bool                `json:"solved" jsonschema_description:"Every vial is empty or holds one color"`
	Depth  int                 `json:"depth" jsonschema_description:"Number of moves that can be undone"`
	Undone *bool               `json:"undone,omitempty" jsonschema_description:"Set by undo; false at the start of the game"`
}

// ErrorResult is the structured content of a failed tool call.
// Rejected pours carry a reason label and the unchanged game.
type ErrorResult struct {
	Error  string      `json:"error"`
	Reason string      `json:"reason,omitempty"`
	Game   *GameResult `json:"game,omitempty"`
}

// Server exposes game sessions as MCP tools.
type Server struct {
	games     *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance over the game manager.
func NewServer(games *session.Manager, opts ...Option) *Server {
	s := &Server{
		games:  games,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer("vialsort-mcp", strings.TrimSpace(vialsort.Version),
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the protocol server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves JSON-RPC over the given streams until ctx is cancelled
// or in is exhausted. Nothing else may write to out.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	err := server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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
	gameID := mcp.WithString("game_id", mcp.Required(), mcp.Description("Game identifier returned by new_game"))

	s.mcpServer.AddTool(mcp.NewTool("new_game",
		mcp.WithDescription("Start a game from a puzzle description such as {\"vial_size\": 4, \"vials\": [[0, 1, 0, 1], [1, 0, 1, 0], []]}."),
		mcp.WithString("description", mcp.Required(), mcp.Description("Puzzle description as a JSON object")),
	), s.handleNewGame)

	s.mcpServer.AddTool(mcp.NewTool("get_game",
		mcp.WithDescription("Show the current board of a game."),
		mcp.WithReadOnlyHintAnnotation(true),
		gameID,
	), s.handleGetGame)

	s.mcpServer.AddTool(mcp.NewTool("pour",
		mcp.WithDescription("Pour the top run of one vial into another. Vials are numbered from 0."),
		gameID,
		mcp.WithNumber("from", mcp.Required(), mcp.Description("Source vial index")),
		mcp.WithNumber("to", mcp.Required(), mcp.Description("Destination vial index")),
	), s.handlePour)

	s.mcpServer.AddTool(mcp.NewTool("add_vial",
		mcp.WithDescription("Append an empty vial. It counts as a move and can be undone."),
		gameID,
	), s.handleAddVial)

	s.mcpServer.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Step back one move. At the start of the game nothing changes and undone is false."),
		gameID,
	), s.handleUndo)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GamesURI, "Stored games",
		mcp.WithResourceDescription("Identifiers of every stored game"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.games.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list games: %w", err)
		}
		if ids == nil {
			ids = []string{}
		}
		data, err := json.Marshal(map[string][]string{"games": ids})
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GamesURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := stringArg(request, "description")
	if err != nil {
		return s.failure("", nil, err), nil
	}
	desc, err := puzzle.Parse([]byte(raw))
	if err != nil {
		return s.failure("", nil, err), nil
	}
	initial, err := desc.Puzzle()
	if err != nil {
		return s.failure("", nil, err), nil
	}

	game, err := s.games.Create(ctx, initial)
	if err != nil {
		return s.failure("", nil, err), nil
	}
	return structured(gameResult(game)), nil
}

func (s *Server) handleGetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := stringArg(request, "game_id")
	if err != nil {
		return s.failure("", nil, err), nil
	}
	game, err := s.games.Load(ctx, id)
	if err != nil {
		return s.failure(id, nil, err), nil
	}
	return structured(gameResult(game)), nil
}

func (s *Server) handlePour(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := stringArg(request, "game_id")
	if err != nil {
		return s.failure("", nil, err), nil
	}
	from, err := indexArg(request, "from")
	if err != nil {
		return s.failure(id, nil, err), nil
	}
	to, err := indexArg(request, "to")
	if err != nil {
		return s.failure(id, nil, err), nil
	}

	return s.mutate(ctx, id, func(ctx context.Context, g *vialsort.Game) error {
		_, err := g.Pour(ctx, from, to)
		return err
	}, nil), nil
}

func (s *Server) handleAddVial(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := stringArg(request, "game_id")
	if err != nil {
		return s.failure("", nil, err), nil
	}
	return s.mutate(ctx, id, func(ctx context.Context, g *vialsort.Game) error {
		g.AddEmptyVial(ctx)
		return nil
	}, nil), nil
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := stringArg(request, "game_id")
	if err != nil {
		return s.failure("", nil, err), nil
	}
	var undone bool
	return s.mutate(ctx, id, func(ctx context.Context, g *vialsort.Game) error {
		_, undone = g.Undo(ctx)
		return nil
	}, &undone), nil
}

// mutate runs fn under the game lock. undone, when set, is read after fn has
// run and reported in the result.
func (s *Server) mutate(ctx context.Context, id string, fn func(context.Context, *vialsort.Game) error, undone *bool) *mcp.CallToolResult {
	game, err := s.games.Update(ctx, id, fn)
	if err != nil {
		return s.failure(id, game, err)
	}
	res := gameResult(game)
	res.Undone = undone
	return structured(res)
}

// failure turns err into a tool error. Rejected pours keep their reason label
// and the unchanged game so the caller can pick another move.
func (s *Server) failure(id string, game *vialsort.Game, err error) *mcp.CallToolResult {
	out := ErrorResult{Error: err.Error()}
	switch {
	case vialsort.IsRejection(err):
		out.Reason = domain.RejectionReason(err)
		if game != nil {
			out.Game = gameResult(game)
		}
	case errors.Is(err, domain.ErrMalformedPuzzle):
		out.Reason = domain.RejectionReason(err)
	case session.IsNotFound(err), errors.Is(err, errInvalidArgument):
		// Caller mistakes are reported, not logged.
	default:
		s.logger.Error("MCP tool failed", "game_id", id, "err", err)
	}

	res := structured(out)
	res.IsError = true
	return res
}

func gameResult(g *vialsort.Game) *GameResult {
	return &GameResult{
		ID:     g.ID,
		Puzzle: puzzle.FromPuzzle(g.Current()),
		Solved: g.IsSolved(),
		Depth:  g.Depth(),
	}
}

// structured wraps v as structured content with its JSON as the text fallback.
func structured(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err))
	}
	return mcp.NewToolResultStructured(v, string(data))
}

var errInvalidArgument = errors.New("invalid argument")

func stringArg(request mcp.CallToolRequest, key string) (string, error) {
	v, ok := request.GetArguments()[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %q must be a non-empty string", errInvalidArgument, key)
	}
	return v, nil
}

// indexArg reads a whole-number argument. JSON clients send float64.
func indexArg(request mcp.CallToolRequest, key string) (int, error) {
	switch v := request.GetArguments()[key].(type) {
	case int:
		return v, nil
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt32 && v <= math.MaxInt32 {
			return int(v), nil
		}
	case json.Number:
		if i, err := v.Int64(); err == nil && i >= math.MinInt32 && i <= math.MaxInt32 {
			return int(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q must be a whole number", errInvalidArgument, key)
}
