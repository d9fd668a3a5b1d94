package risk

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists active alerts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed alert store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the risk_alerts table if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS risk_alerts (
			id              VARCHAR(64) PRIMARY KEY,
			city            TEXT NOT NULL,
			country         TEXT NOT NULL,
			latitude        DOUBLE PRECISION NOT NULL,
			longitude       DOUBLE PRECISION NOT NULL,
			risk_type       VARCHAR(32) NOT NULL,
			severity        SMALLINT NOT NULL CHECK (severity >= 1 AND severity <= 10),
			source          TEXT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			title           TEXT NOT NULL,
			description     TEXT NOT NULL DEFAULT '',
			affected_radius DOUBLE PRECISION NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_risk_alerts_country
			ON risk_alerts (country);
	`)
	return err
}

func (s *PostgresStore) Add(ctx context.Context, alert *Alert) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO risk_alerts
			(id, city, country, latitude, longitude, risk_type, severity, source, created_at, title, description, affected_radius)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`,
		alert.ID,
		alert.Location.City,
		alert.Location.Country,
		alert.Location.Latitude,
		alert.Location.Longitude,
		string(alert.Type),
		ClampSeverity(alert.Severity),
		alert.Source,
		alert.Timestamp,
		alert.Title,
		alert.Description,
		alert.AffectedRadiusKM,
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, city, country, latitude, longitude, risk_type, severity, source, created_at, title, description, affected_radius
		FROM risk_alerts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(
			&a.ID,
			&a.Location.City,
			&a.Location.Country,
			&a.Location.Latitude,
			&a.Location.Longitude,
			&a.Type,
			&a.Severity,
			&a.Source,
			&a.Timestamp,
			&a.Title,
			&a.Description,
			&a.AffectedRadiusKM,
		); err != nil {
			continue
		}
		result = append(result, &a)
	}
	return result, rows.Err()
}

func (s *PostgresStore) Replace(ctx context.Context, alerts []*Alert) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM risk_alerts`); err != nil {
		return fmt.Errorf("failed to clear alerts: %w", err)
	}

	for _, alert := range alerts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO risk_alerts
				(id, city, country, latitude, longitude, risk_type, severity, source, created_at, title, description, affected_radius)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO NOTHING
		`,
			alert.ID,
			alert.Location.City,
			alert.Location.Country,
			alert.Location.Latitude,
			alert.Location.Longitude,
			string(alert.Type),
			ClampSeverity(alert.Severity),
			alert.Source,
			alert.Timestamp,
			alert.Title,
			alert.Description,
			alert.AffectedRadiusKM,
		); err != nil {
			return fmt.Errorf("failed to insert alert %s: %w", alert.ID, err)
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM risk_alerts`)
	return err
}
