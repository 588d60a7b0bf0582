package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/forgo/gamevault/api/internal/database"
	"github.com/forgo/gamevault/api/internal/model"
)

// gameRow is the games table
type gameRow struct {
	ID          string            `gorm:"type:uuid;primaryKey"`
	Name        string            `gorm:"size:100;not null;uniqueIndex:idx_games_name"`
	Description string            `gorm:"type:text;not null;default:''"`
	Attributes  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedOn   time.Time         `gorm:"not null;autoCreateTime"`
	UpdatedOn   time.Time         `gorm:"not null;autoUpdateTime"`
}

func (gameRow) TableName() string { return "games" }

func (row *gameRow) toModel() *model.Game {
	var attrs map[string]interface{}
	if len(row.Attributes) > 0 {
		attrs = map[string]interface{}(row.Attributes)
	}
	return &model.Game{
		ID:          gameTable + ":" + row.ID,
		Name:        row.Name,
		Description: row.Description,
		Attributes:  attrs,
		CreatedOn:   row.CreatedOn,
		UpdatedOn:   row.UpdatedOn,
	}
}

// PostgresGameRepository handles game data access in Postgres through gorm
type PostgresGameRepository struct {
	db *gorm.DB
}

// NewPostgresGameRepository creates a new Postgres game repository
func NewPostgresGameRepository(db *gorm.DB) *PostgresGameRepository {
	return &PostgresGameRepository{db: db}
}

// Migrate creates or updates the games table and its unique name index
func (r *PostgresGameRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&gameRow{}); err != nil {
		return fmt.Errorf("migrate games: %w", err)
	}
	return nil
}

// Ping checks the underlying connection
func (r *PostgresGameRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", database.ErrConnection, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", database.ErrConnection, err)
	}
	return nil
}

// IsNameTaken reports whether a game other than excludeID already has name
func (r *PostgresGameRepository) IsNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&gameRow{}).Where("name = ?", name)
	if key, ok := rowKey(excludeID); ok {
		q = q.Where("id <> ?", key)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check game name: %w", database.ClassifyGormError(err))
	}
	return count > 0, nil
}

// Create inserts a new game
func (r *PostgresGameRepository) Create(ctx context.Context, game *model.Game) (*model.Game, error) {
	row := gameRow{
		ID:          uuid.NewString(),
		Name:        game.Name,
		Description: game.Description,
		Attributes:  datatypes.JSONMap(game.Attributes),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create game: %w", database.ClassifyGormError(err))
	}
	return row.toModel(), nil
}

// Paginate returns one page of games matching filter
func (r *PostgresGameRepository) Paginate(ctx context.Context, filter model.GameFilter, opts model.QueryOptions) (*model.GamePage, error) {
	opts = opts.Normalize()

	q := r.db.WithContext(ctx).Model(&gameRow{})
	if filter.Name != "" {
		q = q.Where("name = ?", filter.Name)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("paginate games: %w", database.ClassifyGormError(err))
	}

	var rows []gameRow
	err := q.Order(orderClause(ParseSortBy(opts.SortBy))).
		Limit(opts.Limit).
		Offset(opts.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("paginate games: %w", database.ClassifyGormError(err))
	}

	games := make([]*model.Game, 0, len(rows))
	for i := range rows {
		games = append(games, rows[i].toModel())
	}
	return model.NewGamePage(games, opts, int(total)), nil
}

// GetByID retrieves a game by ID. Returns (nil, nil) when it does not exist.
func (r *PostgresGameRepository) GetByID(ctx context.Context, id string) (*model.Game, error) {
	key, ok := rowKey(id)
	if !ok {
		return nil, nil
	}

	var row gameRow
	err := r.db.WithContext(ctx).Where("id = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get game: %w", database.ClassifyGormError(err))
	}
	return row.toModel(), nil
}

// Save writes the mutable fields of an existing game. A game that no longer
// exists yields database.ErrNotFound.
func (r *PostgresGameRepository) Save(ctx context.Context, game *model.Game) (*model.Game, error) {
	key, ok := rowKey(game.ID)
	if !ok {
		return nil, database.ErrNotFound
	}

	var saved gameRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&gameRow{}).Where("id = ?", key).Updates(map[string]interface{}{
			"name":        game.Name,
			"description": game.Description,
			"attributes":  datatypes.JSONMap(game.Attributes),
			"updated_on":  time.Now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", key).First(&saved).Error
	})
	if err != nil {
		return nil, fmt.Errorf("save game: %w", database.ClassifyGormError(err))
	}
	return saved.toModel(), nil
}

// Delete removes a game and reports how many records were deleted
func (r *PostgresGameRepository) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	key, ok := rowKey(id)
	if !ok {
		return &model.DeleteResult{DeletedCount: 0}, nil
	}

	res := r.db.WithContext(ctx).Where("id = ?", key).Delete(&gameRow{})
	if res.Error != nil {
		return nil, fmt.Errorf("delete game: %w", database.ClassifyGormError(res.Error))
	}
	return &model.DeleteResult{DeletedCount: int(res.RowsAffected)}, nil
}

// rowKey turns a game id into the uuid primary key. Ids that cannot name a
// row are reported as not ok so no query is sent.
func rowKey(id string) (string, bool) {
	rid, ok := gameRecordID(id)
	if !ok {
		return "", false
	}
	key := strings.TrimPrefix(rid, gameTable+":")
	parsed, err := uuid.Parse(key)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
