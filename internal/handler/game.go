package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/forgo/gamevault/api/internal/middleware"
	"github.com/forgo/gamevault/api/internal/model"
	"github.com/forgo/gamevault/api/internal/service"
)

// GameHandler handles game HTTP requests
type GameHandler struct {
	svc *service.GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(svc *service.GameService) *GameHandler {
	return &GameHandler{svc: svc}
}

// Register mounts the game routes on mux
func (h *GameHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/games", h.Create)
	mux.HandleFunc("GET /v1/games", h.List)
	mux.HandleFunc("GET /v1/games/{gameId}", h.Get)
	mux.HandleFunc("PATCH /v1/games/{gameId}", h.Update)
	mux.HandleFunc("DELETE /v1/games/{gameId}", h.Delete)
}

// Create handles POST /v1/games - create a new game
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateGameRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	game, err := h.svc.CreateGame(r.Context(), &req)
	if err != nil {
		h.handleError(w, r, err, "create game")
		return
	}

	WriteData(w, http.StatusCreated, game)
}

// List handles GET /v1/games - one page of games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := optionalInt(q.Get("limit"))
	if err != nil {
		WriteError(w, model.NewBadRequestError("limit must be an integer"))
		return
	}
	page, err := optionalInt(q.Get("page"))
	if err != nil {
		WriteError(w, model.NewBadRequestError("page must be an integer"))
		return
	}

	filter := model.GameFilter{Name: q.Get("name")}
	opts := model.QueryOptions{
		SortBy: q.Get("sortBy"),
		Limit:  limit,
		Page:   page,
	}

	result, err := h.svc.QueryGames(r.Context(), filter, opts)
	if err != nil {
		h.handleError(w, r, err, "query games")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// Get handles GET /v1/games/{gameId} - get one game
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	if gameID == "" {
		WriteError(w, model.NewBadRequestError("game ID required"))
		return
	}

	game, err := h.svc.GetGameByID(r.Context(), gameID)
	if err != nil {
		h.handleError(w, r, err, "get game")
		return
	}

	WriteData(w, http.StatusOK, game)
}

// Update handles PATCH /v1/games/{gameId} - update a game
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	if gameID == "" {
		WriteError(w, model.NewBadRequestError("game ID required"))
		return
	}

	var req model.UpdateGameRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	game, err := h.svc.UpdateGame(r.Context(), gameID, &req)
	if err != nil {
		h.handleError(w, r, err, "update game")
		return
	}

	WriteData(w, http.StatusOK, game)
}

// Delete handles DELETE /v1/games/{gameId} - delete a game
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	if gameID == "" {
		WriteError(w, model.NewBadRequestError("game ID required"))
		return
	}

	result, err := h.svc.DeleteGame(r.Context(), gameID)
	if err != nil {
		h.handleError(w, r, err, "delete game")
		return
	}

	WriteData(w, http.StatusOK, result)
}

func (h *GameHandler) handleError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	pd := MapServiceErrorWithContext(err, operation)
	if pd.Status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "game request failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
	}
	WriteError(w, pd)
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
