package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math"
	"time"

	"beerdash/domain/brewery"
	"beerdash/domain/core"
	"beerdash/internal/migration"
	"beerdash/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// beerRecord mirrors one row of the beers table; every column may be NULL
type beerRecord struct {
	ID      int64           `db:"id"`
	Brewery sql.NullString  `db:"brewery"`
	Beer    sql.NullString  `db:"beer"`
	ABV     sql.NullFloat64 `db:"abv"`
}

// RowSource reads the beer table from PostgreSQL
type RowSource struct {
	db    *sqlx.DB
	table string
}

var _ ports.RowSource = (*RowSource)(nil)

// Connect opens and pings a PostgreSQL connection
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// NewRowSource creates a row source over the given table
func NewRowSource(db *sqlx.DB, table string) *RowSource {
	return &RowSource{db: db, table: table}
}

// Name identifies the source in logs and ingest reports
func (s *RowSource) Name() string {
	return "postgres:" + s.table
}

// Query is the statement ReadRows executes
func (s *RowSource) Query() string {
	return fmt.Sprintf("SELECT id, brewery, beer, abv FROM %s ORDER BY id", migration.QuoteTable(s.table))
}

// ReadRows selects every beer, rejecting rows with NULL or blank fields
func (s *RowSource) ReadRows(ctx context.Context) (*ports.IngestResult, error) {
	startTime := time.Now()

	var records []beerRecord
	if err := s.db.SelectContext(ctx, &records, s.Query()); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	log.Printf("[PostgresRowSource] Read %d rows from %s in %v", len(records), s.table, time.Since(startTime))

	return convertRecords(s.Name(), records)
}

func convertRecords(source string, records []beerRecord) (*ports.IngestResult, error) {
	result := &ports.IngestResult{
		Rows:   make([]brewery.Row, 0, len(records)),
		Report: ports.IngestReport{Source: source, Read: len(records)},
	}
	for _, rec := range records {
		switch {
		case !rec.Brewery.Valid || rec.Brewery.String == "":
			result.Report.Reject(fmt.Sprintf("id %d: missing brewery", rec.ID))
		case !rec.Beer.Valid || rec.Beer.String == "":
			result.Report.Reject(fmt.Sprintf("id %d: missing beer", rec.ID))
		case !rec.ABV.Valid:
			result.Report.Reject(fmt.Sprintf("id %d: missing abv", rec.ID))
		case math.IsNaN(rec.ABV.Float64) || math.IsInf(rec.ABV.Float64, 0):
			result.Report.Reject(fmt.Sprintf("id %d: non-numeric abv %v", rec.ID, rec.ABV.Float64))
		default:
			result.Rows = append(result.Rows, brewery.Row{
				Brewery: rec.Brewery.String,
				Beer:    rec.Beer.String,
				ABV:     rec.ABV.Float64,
			})
		}
	}
	result.Report.Accepted = len(result.Rows)
	if len(result.Rows) == 0 {
		return result, fmt.Errorf("%w: %s", core.ErrEmptyInput, source)
	}
	return result, nil
}
