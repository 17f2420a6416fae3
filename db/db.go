package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// OpenPrimary opens the PostgreSQL connection that holds carts, catalog and orders
func OpenPrimary(ctx context.Context, connStr string, logger *zap.SugaredLogger) (*sql.DB, error) {
	conn, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infof("✓ Database connection established successfully")
	return conn, nil
}

// OpenSecondary opens the SQLite file that holds the unified order records
func OpenSecondary(ctx context.Context, path string, logger *zap.SugaredLogger) (*sql.DB, error) {
	conn, err := OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}

	logger.Infof("✓ Secondary order store opened at %s", path)
	return conn, nil
}

// OpenSQLite opens a SQLite database. A single connection is used so that
// ":memory:" databases stay visible to every query.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return conn, nil
}
