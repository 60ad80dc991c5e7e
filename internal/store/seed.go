package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/amishk599/jobquery/internal/model"
	"github.com/amishk599/jobquery/internal/query"
)

const seedBatchSize = 100

// LoadListings reads a JSON array of listings as written by the scraping job.
func LoadListings(path string) ([]model.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read listings: %w", err)
	}
	var listings []model.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("parse listings %s: %w", path, err)
	}
	return listings, nil
}

// Seed creates table if missing and inserts listings into it.
func Seed(ctx context.Context, db *sql.DB, dialect query.Dialect, table string, listings []model.Listing, logger *slog.Logger) error {
	if err := query.ValidateIdentifier(table); err != nil {
		return fmt.Errorf("seed table: %w", err)
	}
	switch dialect {
	case query.DialectSQLite:
		if err := seedSQLite(ctx, db, table, listings); err != nil {
			return err
		}
	default:
		if err := seedPostgres(ctx, db, table, listings); err != nil {
			return err
		}
	}
	logger.Info("seeded listings", "table", table, "dialect", dialect.String(), "count", len(listings))
	return nil
}

func seedSQLite(ctx context.Context, db *sql.DB, table string, listings []model.Listing) error {
	createTable := `CREATE TABLE IF NOT EXISTS ` + table + ` (
		ID             INTEGER PRIMARY KEY AUTOINCREMENT,
		TITLE          TEXT,
		COMPANY        TEXT,
		LOCATION       TEXT,
		DESCRIPTION    TEXT,
		JOB_HIGHLIGHTS TEXT,
		POSTED_DATE    TEXT,
		APPLY_LINKS    TEXT,
		SEARCH_QUERY   TEXT
	)`
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("creating %s table: %w", table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	cols := model.ListingColumns[1:]
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, l := range listings {
		if _, err := stmt.ExecContext(ctx,
			l.Title, l.Company, l.Location, l.Description,
			l.JobHighlights, l.PostedDate, l.ApplyLinks, l.SearchQuery,
		); err != nil {
			return fmt.Errorf("insert listing %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// seedPostgres lets gorm own the DDL. The table name is lower-cased because
// Postgres folds the unquoted identifiers used at query time.
func seedPostgres(ctx context.Context, db *sql.DB, table string, listings []model.Listing) error {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open gorm: %w", err)
	}
	name := strings.ToLower(table)
	tx := gdb.WithContext(ctx).Table(name)

	if err := tx.AutoMigrate(&model.Listing{}); err != nil {
		return fmt.Errorf("migrating %s table: %w", name, err)
	}
	if len(listings) == 0 {
		return nil
	}
	if err := gdb.WithContext(ctx).Table(name).CreateInBatches(&listings, seedBatchSize).Error; err != nil {
		return fmt.Errorf("insert listings: %w", err)
	}
	return nil
}
