package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/forgo/gamevault/api/internal/database"
	"github.com/forgo/gamevault/api/internal/model"
)

// GameRepository defines the interface for game storage.
// GetByID returns (nil, nil) when no game has the id. Stores report unique
// name violations as errors wrapping database.ErrDuplicate.
type GameRepository interface {
	IsNameTaken(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, game *model.Game) (*model.Game, error)
	Paginate(ctx context.Context, filter model.GameFilter, opts model.QueryOptions) (*model.GamePage, error)
	GetByID(ctx context.Context, id string) (*model.Game, error)
	Save(ctx context.Context, game *model.Game) (*model.Game, error)
	Delete(ctx context.Context, id string) (*model.DeleteResult, error)
}

// UncachedReader is implemented by stores that sit behind a read cache.
// UpdateGame loads through it so a stale cached copy is never saved back.
type UncachedReader interface {
	GetByIDUncached(ctx context.Context, id string) (*model.Game, error)
}

// OperationRecorder receives the outcome of each game operation
type OperationRecorder interface {
	RecordGameOperation(operation, outcome string)
}

// Operation names reported to the OperationRecorder
const (
	OpCreateGame = "create"
	OpQueryGames = "query"
	OpGetGame    = "get"
	OpUpdateGame = "update"
	OpDeleteGame = "delete"
)

// Outcomes reported to the OperationRecorder
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeConflict     = "conflict"
	OutcomeNotFound     = "not_found"
	OutcomeStoreFailure = "store_failure"
	OutcomeError        = "error"
)

// GameService enforces name uniqueness around game CRUD.
// It holds no per-request state and is safe for concurrent use.
type GameService struct {
	gameRepo GameRepository
	recorder OperationRecorder
	logger   *slog.Logger
}

// GameServiceConfig holds configuration for the game service
type GameServiceConfig struct {
	GameRepo GameRepository
	Recorder OperationRecorder // optional
	Logger   *slog.Logger      // defaults to slog.Default()
}

// NewGameService creates a new game service
func NewGameService(cfg GameServiceConfig) *GameService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &GameService{
		gameRepo: cfg.GameRepo,
		recorder: cfg.Recorder,
		logger:   logger,
	}
}

// CreateGame creates a game after checking that its name is free.
//
// The check is check-then-act: two concurrent creates with the same name can
// both see the name as free. The store's unique index rejects the loser and
// that rejection is reported as the same name conflict.
func (s *GameService) CreateGame(ctx context.Context, req *model.CreateGameRequest) (*model.Game, error) {
	game, err := s.createGame(ctx, req)
	s.record(OpCreateGame, err)
	return game, err
}

func (s *GameService) createGame(ctx context.Context, req *model.CreateGameRequest) (*model.Game, error) {
	if req == nil {
		return nil, model.NewValidationError([]model.FieldError{{Field: "name", Message: "name is required"}})
	}
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	candidate := req.ToGame()

	taken, err := s.gameRepo.IsNameTaken(ctx, candidate.Name, "")
	if err != nil {
		return nil, storeFailure("check game name", err)
	}
	if taken {
		return nil, &NameConflictError{Name: candidate.Name}
	}

	created, err := s.gameRepo.Create(ctx, candidate)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			s.logger.WarnContext(ctx, "game name race caught by store constraint",
				slog.String("name", candidate.Name),
			)
			return nil, &NameConflictError{Name: candidate.Name}
		}
		return nil, storeFailure("create game", err)
	}

	return created, nil
}

// QueryGames returns one page of games exactly as the store produced it
func (s *GameService) QueryGames(ctx context.Context, filter model.GameFilter, opts model.QueryOptions) (*model.GamePage, error) {
	page, err := s.gameRepo.Paginate(ctx, filter, opts)
	if err != nil {
		err = storeFailure("query games", err)
		s.record(OpQueryGames, err)
		return nil, err
	}
	s.record(OpQueryGames, nil)
	return page, nil
}

// GetGameByID returns the game with the given id, or ErrGameNotFound
func (s *GameService) GetGameByID(ctx context.Context, id string) (*model.Game, error) {
	game, err := s.resolveGame(ctx, id, s.gameRepo.GetByID)
	s.record(OpGetGame, err)
	return game, err
}

// resolveGame is the resolve-or-fail lookup shared by get and update
func (s *GameService) resolveGame(ctx context.Context, id string, get func(context.Context, string) (*model.Game, error)) (*model.Game, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrGameNotFound
	}

	game, err := get(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, storeFailure("get game", err)
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// UpdateGame loads the game, applies the changes to it and saves it.
//
// The name check only runs when the name actually changes, so renaming a game
// to its current name never conflicts. Like CreateGame, the check races with
// concurrent writers and the store constraint is the backstop.
func (s *GameService) UpdateGame(ctx context.Context, id string, req *model.UpdateGameRequest) (*model.Game, error) {
	game, err := s.updateGame(ctx, id, req)
	s.record(OpUpdateGame, err)
	return game, err
}

func (s *GameService) updateGame(ctx context.Context, id string, req *model.UpdateGameRequest) (*model.Game, error) {
	if req == nil {
		req = &model.UpdateGameRequest{}
	}
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	get := s.gameRepo.GetByID
	if r, ok := s.gameRepo.(UncachedReader); ok {
		get = r.GetByIDUncached
	}
	game, err := s.resolveGame(ctx, id, get)
	if err != nil {
		return nil, err
	}

	if newName := req.NewName(); req.Name != nil && newName != game.Name {
		taken, err := s.gameRepo.IsNameTaken(ctx, newName, game.ID)
		if err != nil {
			return nil, storeFailure("check game name", err)
		}
		if taken {
			return nil, &NameConflictError{Name: newName}
		}
	}

	req.ApplyTo(game)

	saved, err := s.gameRepo.Save(ctx, game)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicate):
			s.logger.WarnContext(ctx, "game name race caught by store constraint",
				slog.String("name", game.Name),
				slog.String("game_id", game.ID),
			)
			return nil, &NameConflictError{Name: game.Name}
		case errors.Is(err, database.ErrNotFound):
			// Deleted between load and save
			return nil, ErrGameNotFound
		default:
			return nil, storeFailure("save game", err)
		}
	}

	return saved, nil
}

// DeleteGame removes the game with the given id. Deleting an id that does not
// exist is not an error; the result reports zero deleted records.
func (s *GameService) DeleteGame(ctx context.Context, id string) (*model.DeleteResult, error) {
	result, err := s.gameRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.record(OpDeleteGame, nil)
			return &model.DeleteResult{DeletedCount: 0}, nil
		}
		err = storeFailure("delete game", err)
		s.record(OpDeleteGame, err)
		return nil, err
	}
	if result == nil {
		result = &model.DeleteResult{}
	}
	s.record(OpDeleteGame, nil)
	return result, nil
}

func (s *GameService) record(operation string, err error) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordGameOperation(operation, Outcome(err))
}

// Outcome classifies an error returned by GameService into a metric label
func Outcome(err error) string {
	var pd *model.ProblemDetails
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrGameNameTaken):
		return OutcomeConflict
	case errors.Is(err, ErrGameNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrStoreFailure):
		return OutcomeStoreFailure
	case errors.As(err, &pd):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
