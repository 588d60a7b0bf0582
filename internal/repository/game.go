package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/gamevault/api/internal/database"
	"github.com/forgo/gamevault/api/internal/model"
)

// GameRepository handles game data access in SurrealDB
type GameRepository struct {
	db database.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db database.Database) *GameRepository {
	return &GameRepository{db: db}
}

// EnsureSchema defines the game table and its unique name index.
// The index is what rejects the loser of a concurrent create/rename race.
func (r *GameRepository) EnsureSchema(ctx context.Context) error {
	query := `
		DEFINE TABLE IF NOT EXISTS game SCHEMALESS;
		DEFINE INDEX IF NOT EXISTS game_name_unique ON TABLE game FIELDS name UNIQUE;
	`
	if err := r.db.Execute(ctx, query, nil); err != nil {
		return fmt.Errorf("define game schema: %w", err)
	}
	return nil
}

// IsNameTaken reports whether a game other than excludeID already has name
func (r *GameRepository) IsNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	query := `SELECT count() AS count FROM game WHERE name = $name`
	vars := map[string]interface{}{"name": name}

	if rid, ok := gameRecordID(excludeID); ok {
		query += ` AND id != type::record($exclude_id)`
		vars["exclude_id"] = rid
	}
	query += ` GROUP ALL`

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return false, fmt.Errorf("check game name: %w", err)
	}
	return extractCount(results, 0) > 0, nil
}

// Create inserts a new game and returns it with its id and timestamps
func (r *GameRepository) Create(ctx context.Context, game *model.Game) (*model.Game, error) {
	query := `
		CREATE game CONTENT {
			name: $name,
			description: $description,
			attributes: $attributes,
			created_on: time::now(),
			updated_on: time::now()
		} RETURN AFTER
	`
	vars := map[string]interface{}{
		"name":        game.Name,
		"description": game.Description,
		"attributes":  attributesOrEmpty(game.Attributes),
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return parseGameResult(result)
}

// Paginate returns one page of games matching filter
func (r *GameRepository) Paginate(ctx context.Context, filter model.GameFilter, opts model.QueryOptions) (*model.GamePage, error) {
	opts = opts.Normalize()

	where := ""
	vars := map[string]interface{}{
		"limit": opts.Limit,
		"start": opts.Offset(),
	}
	if filter.Name != "" {
		where = ` WHERE name = $name`
		vars["name"] = filter.Name
	}

	query := `SELECT count() AS count FROM game` + where + ` GROUP ALL;
		SELECT * FROM game` + where + ` ORDER BY ` + orderClause(ParseSortBy(opts.SortBy)) + ` LIMIT $limit START $start;`

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("paginate games: %w", err)
	}

	total := extractCount(results, 0)
	records := statementResults(results, 1)
	games := make([]*model.Game, 0, len(records))
	for _, record := range records {
		game, err := parseGameResult(record)
		if err != nil {
			return nil, fmt.Errorf("paginate games: %w", err)
		}
		games = append(games, game)
	}

	return model.NewGamePage(games, opts, total), nil
}

// GetByID retrieves a game by ID. Returns (nil, nil) when it does not exist.
func (r *GameRepository) GetByID(ctx context.Context, id string) (*model.Game, error) {
	rid, ok := gameRecordID(id)
	if !ok {
		return nil, nil
	}

	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": rid}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get game: %w", err)
	}
	return parseGameResult(result)
}

// Save writes the mutable fields of an existing game. It never creates a
// record: a game that no longer exists yields database.ErrNotFound.
func (r *GameRepository) Save(ctx context.Context, game *model.Game) (*model.Game, error) {
	rid, ok := gameRecordID(game.ID)
	if !ok {
		return nil, database.ErrNotFound
	}

	query := `
		UPDATE game SET
			name = $name,
			description = $description,
			attributes = $attributes,
			updated_on = time::now()
		WHERE id = type::record($id)
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"id":          rid,
		"name":        game.Name,
		"description": game.Description,
		"attributes":  attributesOrEmpty(game.Attributes),
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("save game: %w", err)
	}
	return parseGameResult(result)
}

// Delete removes a game and reports how many records were deleted
func (r *GameRepository) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	rid, ok := gameRecordID(id)
	if !ok {
		return &model.DeleteResult{DeletedCount: 0}, nil
	}

	query := `DELETE game WHERE id = type::record($id) RETURN BEFORE`
	vars := map[string]interface{}{"id": rid}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("delete game: %w", err)
	}
	return &model.DeleteResult{DeletedCount: len(statementResults(results, 0))}, nil
}

// parseGameResult maps a SurrealDB game record onto model.Game
func parseGameResult(result interface{}) (*model.Game, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: unexpected game record %T", database.ErrQuery, result)
	}

	return &model.Game{
		ID:          extractRecordID(data["id"]),
		Name:        getString(data, "name"),
		Description: getString(data, "description"),
		Attributes:  getMap(data, "attributes"),
		CreatedOn:   parseTime(data["created_on"]),
		UpdatedOn:   parseTime(data["updated_on"]),
	}, nil
}

func attributesOrEmpty(attrs map[string]interface{}) map[string]interface{} {
	if attrs == nil {
		return map[string]interface{}{}
	}
	return attrs
}
