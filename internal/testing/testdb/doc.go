// Package testdb provides isolated SurrealDB namespaces for store tests.
//
// Tests that need a real server call New with a schema setup function.
// When TEST_DB_HOST is unset the test is skipped, so the default test run
// needs no database.
//
//	tdb := testdb.New(t, func(ctx context.Context, db database.Database) error {
//	    return repository.NewGameRepository(db).EnsureSchema(ctx)
//	})
//	repo := repository.NewGameRepository(tdb.DB)
//
// Each TestDB gets its own namespace, removed on test cleanup.
package testdb
