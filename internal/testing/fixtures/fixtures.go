package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/forgo/gamevault/api/internal/model"
)

// GameCreator is any game store that can persist a new game
type GameCreator interface {
	Create(ctx context.Context, game *model.Game) (*model.Game, error)
}

// Factory creates test games in a store
type Factory struct {
	store GameCreator
}

// New creates a new fixture factory
func New(store GameCreator) *Factory {
	return &Factory{store: store}
}

// randomID generates a random hex suffix
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// GameOpts customizes game creation
type GameOpts struct {
	Name        string
	Description string
	Attributes  map[string]interface{}
}

// CreateGame creates a game with a unique name unless opts override it
func (f *Factory) CreateGame(t *testing.T, opts ...func(*GameOpts)) *model.Game {
	t.Helper()

	o := &GameOpts{
		Name:        fmt.Sprintf("game_%s", randomID()),
		Description: "fixture game",
	}
	for _, fn := range opts {
		fn(o)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	game, err := f.store.Create(ctx, &model.Game{
		Name:        o.Name,
		Description: o.Description,
		Attributes:  o.Attributes,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create game %q: %v", o.Name, err)
	}
	return game
}

// CreateNamedGames creates one game per name, in order
func (f *Factory) CreateNamedGames(t *testing.T, names ...string) []*model.Game {
	t.Helper()

	games := make([]*model.Game, 0, len(names))
	for _, name := range names {
		games = append(games, f.CreateGame(t, WithName(name)))
	}
	return games
}

// WithName sets the game name
func WithName(name string) func(*GameOpts) {
	return func(o *GameOpts) { o.Name = name }
}

// WithAttributes sets the free-form game attributes
func WithAttributes(attrs map[string]interface{}) func(*GameOpts) {
	return func(o *GameOpts) { o.Attributes = attrs }
}
