package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/vazarkarshreya23-bit/govbot/model"
)

const appIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// servicePrefixes maps a service to its application ID prefix.
var servicePrefixes = map[model.Service]string{
	model.ServiceLicense:     "LIC",
	model.ServiceCertificate: "CRT",
	model.ServiceComplaint:   "CMP",
}

// ApplicationStore persists applications and admin credentials in Postgres.
// Every operation is a single statement on the shared pool; there are no
// multi-statement transactions.
type ApplicationStore struct {
	db *sql.DB
}

// NewApplicationStore creates a store on top of an open connection pool.
func NewApplicationStore(db *sql.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

// CreateTables initializes the schema and seeds the default admin account
// when the admins table is empty. Safe to call on every start.
func (s *ApplicationStore) CreateTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS applications (
			id          SERIAL PRIMARY KEY,
			app_id      TEXT UNIQUE NOT NULL,
			service     TEXT NOT NULL,
			name        TEXT NOT NULL,
			age         TEXT,
			phone       TEXT,
			email       TEXT,
			address     TEXT,
			details     TEXT,
			status      TEXT NOT NULL DEFAULT 'Pending',
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create applications table: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS admins (
			id       SERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create admins table: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count == 0 {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO admins (username, password) VALUES ($1, $2)`,
			"admin", "admin123")
		if err != nil {
			return fmt.Errorf("seed default admin: %w", err)
		}
		slog.Info("default admin account created", "username", "admin")
	}

	return nil
}

// generateAppID produces an ID like LIC-AB12CD. There is no collision check
// against existing rows; a duplicate surfaces as a unique-violation on
// insert. TODO: retry on unique-violation instead of failing the turn.
func generateAppID(service model.Service) string {
	prefix, ok := servicePrefixes[service]
	if !ok {
		prefix = "APP"
	}
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = appIDAlphabet[rand.IntN(len(appIDAlphabet))]
	}
	return prefix + "-" + string(suffix)
}

// SaveApplication inserts a new application with status Pending and returns
// its generated application ID.
func (s *ApplicationStore) SaveApplication(ctx context.Context, service model.Service, answers map[string]string) (string, error) {
	appID := generateAppID(service)
	now := time.Now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications
			(app_id, service, name, age, phone, email, address, details, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		appID,
		string(service),
		answers["name"],
		answers["age"],
		answers["phone"],
		answers["email"],
		answers["address"],
		answers["details"],
		model.StatusPending,
		now,
		now,
	)
	if err != nil {
		return "", fmt.Errorf("insert application: %w", err)
	}

	return appID, nil
}

// GetApplication looks up an application by its ID. Returns (nil, nil) when
// no such application exists; not-found is not an error.
func (s *ApplicationStore) GetApplication(ctx context.Context, appID string) (*model.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT app_id, service, name, age, phone, email, address, details, status, created_at, updated_at
		FROM applications WHERE app_id = $1`, appID)

	var app model.Application
	err := row.Scan(
		&app.AppID, &app.Service, &app.Name, &app.Age, &app.Phone,
		&app.Email, &app.Address, &app.Details, &app.Status,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select application: %w", err)
	}

	return &app, nil
}

// ListApplications returns all applications, most recent first.
func (s *ApplicationStore) ListApplications(ctx context.Context) ([]model.Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT app_id, service, name, age, phone, email, address, details, status, created_at, updated_at
		FROM applications ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select applications: %w", err)
	}
	defer rows.Close()

	var apps []model.Application
	for rows.Next() {
		var app model.Application
		if err := rows.Scan(
			&app.AppID, &app.Service, &app.Name, &app.Age, &app.Phone,
			&app.Email, &app.Address, &app.Details, &app.Status,
			&app.CreatedAt, &app.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}

	return apps, nil
}

// UpdateStatus sets a new status and refreshes updated_at. Updating an
// unknown ID is silently accepted.
func (s *ApplicationStore) UpdateStatus(ctx context.Context, appID, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE applications SET status = $1, updated_at = $2 WHERE app_id = $3`,
		status, time.Now(), appID)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// CheckAdmin reports whether the username/password pair matches a stored
// admin record. Comparison is exact string equality.
func (s *ApplicationStore) CheckAdmin(ctx context.Context, username, password string) (bool, error) {
	var id int
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM admins WHERE username = $1 AND password = $2`,
		username, password).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select admin: %w", err)
	}
	return true, nil
}
