package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-table/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-table/internal/entity"
	"github.com/rocketscienceinc/tictactoe-table/internal/tictactoe"
)

const maxRenameBodyBytes = 1 << 10

type uGame interface {
	Snapshot(ctx context.Context) (entity.Game, error)
	MakeTurn(ctx context.Context, cell int) (entity.Game, error)
	RenamePlayer(ctx context.Context, mark entity.Mark, name string) (entity.Game, error)
	ResetRound(ctx context.Context) (entity.Game, error)
	ResetScores(ctx context.Context) (entity.Game, error)
}

// GameResponse is the read-only snapshot the client renders.
type GameResponse struct {
	Game   entity.Game `json:"game"`
	Status string      `json:"status"`
	Scores []string    `json:"scores"`
}

type RenameRequest struct {
	Name string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewGameResponse(game entity.Game) GameResponse {
	scores := make([]string, 0, len(game.Players))
	for _, player := range game.Players {
		scores = append(scores, player.ScoreLine())
	}

	return GameResponse{
		Game:   game,
		Status: tictactoe.StatusLine(&game),
		Scores: scores,
	}
}

type GameHandler struct {
	logger *slog.Logger
	uGame  uGame
}

func NewGameHandler(logger *slog.Logger, uGame uGame) *GameHandler {
	return &GameHandler{
		logger: logger.With("component", "rest"),
		uGame:  uGame,
	}
}

// RegisterRoutes - mounts the game endpoints.
func (that *GameHandler) RegisterRoutes(router chi.Router) {
	router.Route("/api/game", func(r chi.Router) {
		r.Get("/", that.handleSnapshot)
		r.Post("/cells/{index}", that.handleMakeTurn)
		r.Put("/players/{mark}/name", that.handleRename)
		r.Post("/round/reset", that.handleResetRound)
		r.Post("/scores/reset", that.handleResetScores)
	})
}

func (that *GameHandler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.Snapshot(r.Context())
	that.respond(w, "snapshot", game, err)
}

func (that *GameHandler) handleMakeTurn(w http.ResponseWriter, r *http.Request) {
	cell, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell index must be an integer"})
		return
	}

	game, err := that.uGame.MakeTurn(r.Context(), cell)
	that.respond(w, "makeTurn", game, err)
}

func (that *GameHandler) handleRename(w http.ResponseWriter, r *http.Request) {
	mark, ok := entity.ParseMark(chi.URLParam(r, "mark"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apperror.ErrUnknownPlayer.Error()})
		return
	}

	var request RenameRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRenameBodyBytes)).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	game, err := that.uGame.RenamePlayer(r.Context(), mark, request.Name)
	that.respond(w, "renamePlayer", game, err)
}

func (that *GameHandler) handleResetRound(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.ResetRound(r.Context())
	that.respond(w, "resetRound", game, err)
}

func (that *GameHandler) handleResetScores(w http.ResponseWriter, r *http.Request) {
	game, err := that.uGame.ResetScores(r.Context())
	that.respond(w, "resetScores", game, err)
}

func (that *GameHandler) respond(w http.ResponseWriter, method string, game entity.Game, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, NewGameResponse(game))
	case errors.Is(err, apperror.ErrUnknownPlayer):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apperror.ErrUnknownPlayer.Error()})
	case errors.Is(err, apperror.ErrNameTooLong):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apperror.ErrNameTooLong.Error()})
	case errors.Is(err, apperror.ErrTableClosed):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: apperror.ErrTableClosed.Error()})
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
