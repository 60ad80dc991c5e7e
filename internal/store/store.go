package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/amishk599/jobquery/internal/query"
)

// Open opens the listings database for driver ("sqlite" or "postgres") and
// reports the SQL dialect to render queries in.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, query.Dialect, error) {
	var (
		sqlDriver string
		dialect   query.Dialect
	)
	switch driver {
	case "sqlite":
		sqlDriver, dialect = "sqlite", query.DialectSQLite
	case "postgres":
		sqlDriver, dialect = "pgx", query.DialectPostgres
	default:
		return nil, 0, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s db: %w", driver, err)
	}

	// Verify the connection is alive.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, 0, fmt.Errorf("pinging %s db: %w", driver, err)
	}

	return db, dialect, nil
}
