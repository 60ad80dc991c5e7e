package store

import (
	"context"

	"github.com/amishk599/jobquery/internal/filter"
	"github.com/amishk599/jobquery/internal/model"
	"github.com/amishk599/jobquery/internal/query"
)

// MemoryExecutor evaluates filter queries against listings held in memory,
// with the same case-insensitive substring semantics as the SQL executor.
type MemoryExecutor struct {
	rows []model.Row
}

// NewMemoryExecutor numbers listings from 1 in order.
func NewMemoryExecutor(listings []model.Listing) *MemoryExecutor {
	rows := make([]model.Row, len(listings))
	for i, l := range listings {
		if l.ID == 0 {
			l.ID = uint(i + 1)
		}
		rows[i] = l.Row()
	}
	return &MemoryExecutor{rows: rows}
}

func (m *MemoryExecutor) Execute(ctx context.Context, q query.FilterQuery) model.ExecutionResult {
	if err := ctx.Err(); err != nil {
		return model.ExecutionResult{Err: err}
	}
	return model.ExecutionResult{
		Columns: model.ListingColumns,
		Rows:    filter.Rows(q, m.rows),
	}
}
