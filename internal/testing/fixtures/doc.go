// Package fixtures provides test data factories for game stores.
//
// The factory works against any store with a Create method, so the same
// fixtures seed the memory, SurrealDB and Postgres stores:
//
//	f := fixtures.New(repository.NewMemoryGameRepository())
//	chess := f.CreateGame(t, fixtures.WithName("Chess"))
//	f.CreateNamedGames(t, "a", "b", "c")
package fixtures
