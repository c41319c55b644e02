// Package sqlite persists run summaries, productivity tables and
// history-file catalogues across runs, grounded on the teacher's
// internal/db package: a thin *sql.DB wrapper opened against
// modernc.org/sqlite, with schema managed by golang-migrate/migrate
// embedded migrations rather than a hand-maintained schema.sql.
package sqlite
