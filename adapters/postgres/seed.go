package postgres

import (
	"context"
	"fmt"

	"beerdash/domain/brewery"
	"beerdash/internal/migration"

	"github.com/jmoiron/sqlx"
)

// seedBatchSize bounds the number of rows per INSERT statement
const seedBatchSize = 500

// Seed creates the table if needed and inserts rows in one transaction.
// When replace is set the table is emptied first.
func Seed(ctx context.Context, db *sqlx.DB, table string, rows []brewery.Row, replace bool) (int, error) {
	if err := migration.NewRunner(table).Run(ctx, db); err != nil {
		return 0, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	quoted := migration.QuoteTable(table)
	if replace {
		if _, err := tx.ExecContext(ctx, "TRUNCATE "+quoted); err != nil {
			return 0, fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}

	insert := fmt.Sprintf("INSERT INTO %s (brewery, beer, abv) VALUES (:brewery, :beer, :abv)", quoted)
	inserted := 0
	for start := 0; start < len(rows); start += seedBatchSize {
		end := start + seedBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		res, err := tx.NamedExecContext(ctx, insert, rows[start:end])
		if err != nil {
			return inserted, fmt.Errorf("failed to insert rows %d-%d: %w", start, end, err)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return inserted, nil
}
