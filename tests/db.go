package testutil

import (
	"os"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/storage/database"
)

var migrateOnce sync.Once

// PrepareDB opens the TEST postgres database, migrates it once per run and
// empties every table. Tests are skipped unless TEST_DATABASE_HOST is set.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if os.Getenv("TEST_DATABASE_HOST") == "" {
		t.Skip("TEST_DATABASE_HOST not set: skipping postgres tests")
	}
	t.Setenv("ENV", "TEST")

	conf, err := core.NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() failed: %v", err)
	}

	var setupErr error
	migrateOnce.Do(func() {
		if setupErr = database.CreateIfNotExist(conf); setupErr != nil {
			return
		}
		db, err := database.Open(conf)
		if err != nil {
			setupErr = err
			return
		}
		defer func() { _ = db.Close() }()
		setupErr = database.Migrate(db.DB)
	})
	if setupErr != nil {
		t.Fatalf("preparing database failed: %v", setupErr)
	}

	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err = db.Exec("TRUNCATE users, courses, enrollments, assignments, submissions, notifications CASCADE"); err != nil {
		t.Fatalf("truncating tables failed: %v", err)
	}
	return db
}
