package testdb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/forgo/gamevault/api/internal/database"
)

// TestDB provides an isolated SurrealDB namespace for one test.
type TestDB struct {
	DB        database.Database
	Namespace string
	Database  string
	t         *testing.T
}

var (
	counterMu sync.Mutex
	counter   int64
)

// getTestConfig returns database config from the environment.
// ok is false when TEST_DB_HOST is unset.
func getTestConfig() (database.Config, bool) {
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		return database.Config{}, false
	}

	return database.Config{
		Host:     host,
		Port:     envOr("TEST_DB_PORT", "8000"),
		User:     envOr("TEST_DB_USER", "root"),
		Password: envOr("TEST_DB_PASSWORD", "root"),
	}, true
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// uniqueNamespace generates a unique namespace for test isolation
func uniqueNamespace() string {
	counterMu.Lock()
	defer counterMu.Unlock()
	counter++
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter)
}

// New connects to the test SurrealDB under a fresh namespace and runs setup
// against it. The test is skipped when TEST_DB_HOST is not set. The
// namespace is removed when the test finishes.
func New(t *testing.T, setup func(ctx context.Context, db database.Database) error) *TestDB {
	t.Helper()

	cfg, ok := getTestConfig()
	if !ok {
		t.Skip("testdb: TEST_DB_HOST not set, skipping SurrealDB test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg.Namespace = uniqueNamespace()
	cfg.Database = "test"

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}

	tdb := &TestDB{
		DB:        db,
		Namespace: cfg.Namespace,
		Database:  cfg.Database,
		t:         t,
	}
	t.Cleanup(tdb.Close)

	if setup != nil {
		if err := setup(ctx, db); err != nil {
			t.Fatalf("testdb: schema setup failed: %v", err)
		}
	}

	return tdb
}

// Close removes the test namespace and closes the connection.
func (tdb *TestDB) Close() {
	if tdb.DB == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = tdb.DB.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE %s", tdb.Namespace), nil)
	_ = tdb.DB.Close()
	tdb.DB = nil
}

// Reset deletes every record from the given tables, keeping their schema.
func (tdb *TestDB) Reset(t *testing.T, tables ...string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, table := range tables {
		if err := tdb.DB.Execute(ctx, fmt.Sprintf("DELETE FROM %s", table), nil); err != nil {
			t.Fatalf("testdb: failed to clear table %s: %v", table, err)
		}
	}
}

// Ctx returns a context bounded to the test's lifetime.
func (tdb *TestDB) Ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	tdb.t.Cleanup(cancel)
	return ctx
}

// MustQuery executes a query and returns results, failing the test on error.
func (tdb *TestDB) MustQuery(query string, vars map[string]interface{}) []interface{} {
	tdb.t.Helper()
	results, err := tdb.DB.Query(tdb.Ctx(), query, vars)
	if err != nil {
		tdb.t.Fatalf("testdb: query failed: %v\nQuery: %s", err, query)
	}
	return results
}
