package repository

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/gamevault/api/internal/database"
	"github.com/forgo/gamevault/api/internal/model"
)

// MemoryGameRepository keeps games in process memory.
// The name index is updated under the same lock as the games, so it enforces
// uniqueness the way a database unique index would.
type MemoryGameRepository struct {
	mu    sync.RWMutex
	games map[string]*model.Game
	names map[string]string // name -> id
	now   func() time.Time
}

// NewMemoryGameRepository creates an empty in-memory game store
func NewMemoryGameRepository() *MemoryGameRepository {
	return &MemoryGameRepository{
		games: make(map[string]*model.Game),
		names: make(map[string]string),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// IsNameTaken reports whether a game other than excludeID already has name
func (r *MemoryGameRepository) IsNameTaken(_ context.Context, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.names[name]
	if !ok {
		return false, nil
	}
	if rid, valid := gameRecordID(excludeID); valid && rid == id {
		return false, nil
	}
	return true, nil
}

// Create inserts a new game
func (r *MemoryGameRepository) Create(_ context.Context, game *model.Game) (*model.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.names[game.Name]; exists {
		return nil, fmt.Errorf("%w: game name %q", database.ErrDuplicate, game.Name)
	}

	now := r.now()
	stored := cloneGame(game)
	stored.ID = gameTable + ":" + uuid.NewString()
	stored.CreatedOn = now
	stored.UpdatedOn = now

	r.games[stored.ID] = stored
	r.names[stored.Name] = stored.ID
	return cloneGame(stored), nil
}

// Paginate returns one page of games matching filter
func (r *MemoryGameRepository) Paginate(_ context.Context, filter model.GameFilter, opts model.QueryOptions) (*model.GamePage, error) {
	opts = opts.Normalize()

	r.mu.RLock()
	matched := make([]*model.Game, 0, len(r.games))
	for _, g := range r.games {
		if filter.Name != "" && g.Name != filter.Name {
			continue
		}
		matched = append(matched, cloneGame(g))
	}
	r.mu.RUnlock()

	sortGames(matched, ParseSortBy(opts.SortBy))
	start, end := pageBounds(opts, len(matched))

	return model.NewGamePage(matched[start:end], opts, len(matched)), nil
}

// GetByID retrieves a game by ID. Returns (nil, nil) when it does not exist.
func (r *MemoryGameRepository) GetByID(_ context.Context, id string) (*model.Game, error) {
	rid, ok := gameRecordID(id)
	if !ok {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.games[rid]
	if !ok {
		return nil, nil
	}
	return cloneGame(g), nil
}

// Save overwrites the mutable fields of an existing game
func (r *MemoryGameRepository) Save(_ context.Context, game *model.Game) (*model.Game, error) {
	rid, ok := gameRecordID(game.ID)
	if !ok {
		return nil, database.ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.games[rid]
	if !ok {
		return nil, database.ErrNotFound
	}
	if owner, exists := r.names[game.Name]; exists && owner != rid {
		return nil, fmt.Errorf("%w: game name %q", database.ErrDuplicate, game.Name)
	}

	stored := cloneGame(game)
	stored.ID = rid
	stored.CreatedOn = current.CreatedOn
	stored.UpdatedOn = r.now()

	delete(r.names, current.Name)
	r.names[stored.Name] = rid
	r.games[rid] = stored
	return cloneGame(stored), nil
}

// Delete removes a game and reports how many records were deleted
func (r *MemoryGameRepository) Delete(_ context.Context, id string) (*model.DeleteResult, error) {
	rid, ok := gameRecordID(id)
	if !ok {
		return &model.DeleteResult{DeletedCount: 0}, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[rid]
	if !ok {
		return &model.DeleteResult{DeletedCount: 0}, nil
	}
	delete(r.games, rid)
	delete(r.names, g.Name)
	return &model.DeleteResult{DeletedCount: 1}, nil
}

// Ping always succeeds; it lets the memory store back the health check
func (r *MemoryGameRepository) Ping(context.Context) error {
	return nil
}

func cloneGame(g *model.Game) *model.Game {
	c := *g
	c.Attributes = maps.Clone(g.Attributes)
	return &c
}
