package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// getMigrationsFS returns the embedded migrations sub-filesystem.
func getMigrationsFS() (fs.FS, error) {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("sqlite: preparing embedded migrations: %w", err)
	}
	return sub, nil
}

// Store wraps the run-catalogue sqlite database.
type Store struct {
	*sql.DB
}

// applyPragmas sets the WAL/synchronous/busy-timeout PRAGMAs the teacher
// applies to every sqlite database regardless of how it was created.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("sqlite: executing %q: %w", p, err)
		}
	}
	return nil
}

// Open opens (creating if necessary) the sqlite database at path,
// applies PRAGMAs, and migrates it to the latest schema version.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s: %w", path, err)
	}

	s := &Store{DB: db}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	migFS, err := getMigrationsFS()
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := s.MigrateUp(migFS); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}
