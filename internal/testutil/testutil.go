// Package testutil provides shared test helpers for setting up databases.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/starford/recipes/internal/store"
)

// TestDB creates a temporary SQLite database with the schema applied. It is
// removed when the test finishes.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "recipes-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() {
		for _, suffix := range []string{"", "-wal", "-shm"} {
			os.Remove(dbFile.Name() + suffix)
		}
	})

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	return db
}
