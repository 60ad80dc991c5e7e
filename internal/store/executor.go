package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amishk599/jobquery/internal/model"
	"github.com/amishk599/jobquery/internal/query"
)

// Executor runs filter queries against a SQL database.
type Executor struct {
	db      *sql.DB
	dialect query.Dialect
	logger  *slog.Logger
}

func NewExecutor(db *sql.DB, dialect query.Dialect, logger *slog.Logger) *Executor {
	return &Executor{db: db, dialect: dialect, logger: logger}
}

// Execute runs q on a connection owned by this call and materializes every
// row. Column names are upper-cased so rows look the same on every dialect.
// Failures are returned in the result, never as a panic.
func (e *Executor) Execute(ctx context.Context, q query.FilterQuery) model.ExecutionResult {
	stmt, args := q.SQL(e.dialect)

	conn, err := e.db.Conn(ctx)
	if err != nil {
		e.logger.Error("acquire db connection", "error", err)
		return model.ExecutionResult{Err: fmt.Errorf("acquire connection: %w", err)}
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		e.logger.Error("run filter query", "error", err, "sql", stmt)
		return model.ExecutionResult{Err: fmt.Errorf("run query: %w", err)}
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		e.logger.Error("read query results", "error", err, "sql", stmt)
		return model.ExecutionResult{Err: err}
	}

	e.logger.Debug("filter query executed", "rows", len(result.Rows), "args", len(args))
	return result
}

func scanRows(rows *sql.Rows) (model.ExecutionResult, error) {
	cols, err := rows.Columns()
	if err != nil {
		return model.ExecutionResult{}, fmt.Errorf("read columns: %w", err)
	}
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = strings.ToUpper(c)
	}

	out := model.ExecutionResult{Columns: keys, Rows: []model.Row{}}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return model.ExecutionResult{}, fmt.Errorf("scan row: %w", err)
		}
		row := make(model.Row, len(cols))
		for i, k := range keys {
			if b, ok := vals[i].([]byte); ok {
				row[k] = string(b)
			} else {
				row[k] = vals[i]
			}
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return model.ExecutionResult{}, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
