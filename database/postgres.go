package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vazarkarshreya23-bit/govbot/config"

	_ "github.com/lib/pq"
)

// Postgres wraps the SQL database connection pool.
type Postgres struct {
	DB *sql.DB
}

// NewPostgres opens a connection pool against the configured database.
func NewPostgres(cfg config.PostgresConfig) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Postgres{DB: db}, nil
}

// Ping tests the database connection.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	if p.DB != nil {
		return p.DB.Close()
	}
	return nil
}
