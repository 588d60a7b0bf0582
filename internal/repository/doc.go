// Package repository implements game storage for the game catalog API.
//
// Every store satisfies the service.GameRepository contract:
//
//   - GameRepository: SurrealDB, the default document store
//   - PostgresGameRepository: Postgres through gorm
//   - MemoryGameRepository: process memory, for local runs and tests
//   - CachedGameRepository: a Redis read-through cache in front of any of the above
//
// # Identifiers
//
// Game ids have the form "game:<key>". A bare key is accepted and prefixed;
// an id naming another table never matches a game.
//
// # Uniqueness
//
// Each store enforces unique game names itself (SurrealDB UNIQUE index,
// Postgres unique index, the memory store's name index) and reports
// violations as database.ErrDuplicate.
//
// # Listing
//
// Paginate accepts sortBy as "field:asc|desc", comma separated. Sortable
// fields are name, created_on and updated_on; the default is created_on
// ascending.
//
// # Example Usage
//
//	repo := NewGameRepository(db)
//	if err := repo.EnsureSchema(ctx); err != nil {
//	    return err
//	}
//	game, err := repo.GetByID(ctx, "game:abc123")
package repository
