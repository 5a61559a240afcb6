package ports

import (
	"context"

	"beerdash/domain/brewery"
)

// MaxReportedProblems caps how many rejected-row reasons an IngestReport keeps
const MaxReportedProblems = 20

// IngestReport summarizes what a source produced and what was rejected
type IngestReport struct {
	Source   string   `json:"source"`
	Read     int      `json:"read"`
	Accepted int      `json:"accepted"`
	Rejected int      `json:"rejected"`
	Problems []string `json:"problems,omitempty"`
}

// Reject records one rejected row
func (r *IngestReport) Reject(reason string) {
	r.Rejected++
	if len(r.Problems) < MaxReportedProblems {
		r.Problems = append(r.Problems, reason)
	}
}

// IngestResult is the fully materialized output of a RowSource
type IngestResult struct {
	Rows   []brewery.Row
	Report IngestReport
}

// RowSource provides the read-only beer table. Implementations reject
// malformed rows instead of passing them on.
type RowSource interface {
	Name() string
	ReadRows(ctx context.Context) (*IngestResult, error)
}
