package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/vialsort"
	"github.com/aretw0/vialsort/api"
	"github.com/aretw0/vialsort/internal/logging"
	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/aretw0/vialsort/pkg/puzzle"
	"github.com/aretw0/vialsort/pkg/session"
	"github.com/go-chi/chi/v5"
)

// MaxBodySize caps request bodies. Puzzle descriptions are small.
const MaxBodySize = 1 << 20

// Server exposes game sessions as a JSON API.
type Server struct {
	Games   *session.Manager
	Streams *StreamManager
	Logger  *slog.Logger
	Metrics http.Handler
}

// HandlerOption configures the Server built by NewHandler.
type HandlerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics mounts a metrics handler (usually promhttp) at /metrics.
func WithMetrics(h http.Handler) HandlerOption {
	return func(s *Server) {
		s.Metrics = h
	}
}

// NewHandler creates a new HTTP handler for the game manager.
func NewHandler(games *session.Manager, opts ...HandlerOption) http.Handler {
	server := &Server{
		Games:   games,
		Streams: NewStreamManager(),
		Logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams.logger = server.Logger

	r := chi.NewRouter()

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(api.Document())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	if server.Metrics != nil {
		r.Handle("/metrics", server.Metrics)
	}

	r.Route("/games", func(r chi.Router) {
		r.Post("/", server.CreateGame)
		r.Get("/", server.ListGames)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", server.GetGame)
			r.Delete("/", server.DeleteGame)
			r.Post("/pour", server.Pour)
			r.Post("/vials", server.AddVial)
			r.Post("/undo", server.Undo)
			r.Get("/events", server.SubscribeEvents)
		})
	})

	return enableCORS(r)
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>vialsort API Documentation</title>
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

// GameResponse is the JSON view of a game.
type GameResponse struct {
	ID     string              `json:"id"`
	Puzzle *puzzle.Description `json:"puzzle"`
	Solved bool                `json:"solved"`
	Depth  int                 `json:"depth"`
	Diff   *domain.PuzzleDiff  `json:"diff,omitempty"`
	Undone *bool               `json:"undone,omitempty"`
}

// ErrorResponse is returned for every failed request.
// Rejected pours also carry the unchanged game.
type ErrorResponse struct {
	Error  string        `json:"error"`
	Reason string        `json:"reason,omitempty"`
	Game   *GameResponse `json:"game,omitempty"`
}

// PourRequest names the source and destination vials, 0-based.
type PourRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

func gameResponse(g *vialsort.Game) *GameResponse {
	return &GameResponse{
		ID:     g.ID,
		Puzzle: puzzle.FromPuzzle(g.Current()),
		Solved: g.IsSolved(),
		Depth:  g.Depth(),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// failGame maps manager errors onto status codes.
func (s *Server) failGame(w http.ResponseWriter, id string, err error) {
	switch {
	case session.IsNotFound(err):
		s.writeError(w, http.StatusNotFound, fmt.Errorf("game %s not found", id))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.writeError(w, http.StatusServiceUnavailable, err)
	default:
		s.Logger.Error("game operation failed", "game_id", id, "err", err)
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

// CreateGame handles POST /games. The body is a puzzle description.
func (s *Server) CreateGame(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	desc, err := puzzle.Parse(body)
	if err != nil {
		s.Logger.Warn("CreateGame: invalid description", "err", err)
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	initial, err := desc.Puzzle()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	game, err := s.Games.Create(r.Context(), initial)
	if err != nil {
		s.failGame(w, "", err)
		return
	}

	w.Header().Set("Location", "/games/"+game.ID)
	s.writeJSON(w, http.StatusCreated, gameResponse(game))
}

// ListGames handles GET /games.
func (s *Server) ListGames(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Games.List(r.Context())
	if err != nil {
		s.failGame(w, "", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"games": ids})
}

// GetGame handles GET /games/{id}.
func (s *Server) GetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	game, err := s.Games.Load(r.Context(), id)
	if err != nil {
		s.failGame(w, id, err)
		return
	}
	s.writeJSON(w, http.StatusOK, gameResponse(game))
}

// DeleteGame handles DELETE /games/{id}.
func (s *Server) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Games.Delete(r.Context(), id); err != nil {
		s.failGame(w, id, err)
		return
	}
	s.Streams.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

// Pour handles POST /games/{id}/pour.
func (s *Server) Pour(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body PourRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid request body: trailing data"))
		return
	}
	if body.From == nil || body.To == nil {
		s.writeError(w, http.StatusBadRequest, errors.New(`both "from" and "to" are required`))
		return
	}

	s.mutate(w, r, id, func(ctx context.Context, g *vialsort.Game) error {
		_, err := g.Pour(ctx, *body.From, *body.To)
		return err
	}, nil)
}

// AddVial handles POST /games/{id}/vials.
func (s *Server) AddVial(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, r, id, func(ctx context.Context, g *vialsort.Game) error {
		g.AddEmptyVial(ctx)
		return nil
	}, nil)
}

// Undo handles POST /games/{id}/undo. Undoing at the start is not an error;
// the response reports "undone": false.
func (s *Server) Undo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var undone bool
	s.mutate(w, r, id, func(ctx context.Context, g *vialsort.Game) error {
		_, undone = g.Undo(ctx)
		return nil
	}, &undone)
}

// mutate runs fn under the game lock, answers the request and broadcasts
// the resulting diff to event subscribers. undone, when set, is read after fn
// has run and reported in the response.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, id string, fn func(context.Context, *vialsort.Game) error, undone *bool) {
	var before *domain.Puzzle

	game, err := s.Games.Update(r.Context(), id, func(ctx context.Context, g *vialsort.Game) error {
		before = g.Current()
		return fn(ctx, g)
	})

	if err != nil && vialsort.IsRejection(err) {
		s.writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:  err.Error(),
			Reason: domain.RejectionReason(err),
			Game:   gameResponse(game),
		})
		return
	}
	if err != nil {
		s.failGame(w, id, err)
		return
	}

	resp := gameResponse(game)
	resp.Diff = domain.Diff(before, game.Current())
	resp.Undone = undone

	if resp.Diff != nil {
		if data, err := json.Marshal(resp.Diff); err == nil {
			s.Streams.Broadcast(id, string(data))
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	doc, err := api.Load(r.Context())
	if err != nil {
		s.Logger.Error("Failed to load OpenAPI document", "err", err)
	} else if doc.Info != nil {
		apiVersion = doc.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "vialsort-http",
		"version":     strings.TrimSpace(vialsort.Version),
		"api_version": apiVersion,
	})
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{} // GameID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
		logger:      logging.NewNop(),
	}
}

func (sm *StreamManager) Subscribe(gameID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[gameID]; !ok {
		sm.subscribers[gameID] = make(map[chan string]struct{})
	}
	sm.subscribers[gameID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[gameID]; ok {
			if _, still := subs[ch]; still {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(sm.subscribers, gameID)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(gameID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[gameID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "game_id", gameID)
		}
	}
}

// Close ends every stream of a deleted game.
func (sm *StreamManager) Close(gameID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for ch := range sm.subscribers[gameID] {
		close(ch)
	}
	delete(sm.subscribers, gameID)
}

// SubscribeEvents handles GET /games/{id}/events (SSE). Each event carries
// the JSON diff of one accepted move or undo.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}
	if _, err := s.Games.Load(r.Context(), id); err != nil {
		s.failGame(w, id, err)
		return
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.Logger.Info("SSE: Subscribed", "game_id", id)

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: Client disconnected", "game_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
