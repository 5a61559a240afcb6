package migration

import (
	"context"
	"fmt"
	"strings"

	"beerdash/internal/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the beers table used by the postgres row source
type MigrationRunner struct {
	version string
	table   string
}

// NewRunner creates a new migration runner for the given table name.
// The name may be schema-qualified ("public.beers").
func NewRunner(table string) *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
		table:   table,
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range r.Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "migration step %d failed", i+1)
		}
	}
	return nil
}

// Statements returns the DDL Run executes
func (r *MigrationRunner) Statements() []string {
	table := QuoteTable(r.table)
	index := pq.QuoteIdentifier("idx_" + strings.ReplaceAll(r.table, ".", "_") + "_brewery")
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			brewery TEXT NOT NULL,
			beer TEXT NOT NULL,
			abv DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (brewery)`, index, table),
	}
}

// QuoteTable quotes a possibly schema-qualified table name
func QuoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}
