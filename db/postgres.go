package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/gilby125/aviator/config"
)

// PostgresDB represents a PostgreSQL database connection
type PostgresDB struct {
	db *sql.DB
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg config.PostgresConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	return &PostgresDB{db: db}, nil
}

// Close closes the database connection
func (p *PostgresDB) Close() error {
	return p.db.Close()
}

// GetDB returns the underlying database connection
func (p *PostgresDB) GetDB() *sql.DB {
	return p.db
}

// Ping checks the connection; it backs the health check.
func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// InitSchema initializes the database schema
func (p *PostgresDB) InitSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		-- Preferred airport display names
		CREATE TABLE IF NOT EXISTS airport_overrides (
			iata CHAR(3) PRIMARY KEY,
			airport_ru VARCHAR(255) NOT NULL DEFAULT '',
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// AirportOverrides returns every override row keyed by upper-case code.
func (p *PostgresDB) AirportOverrides(ctx context.Context) (map[string]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT iata, airport_ru FROM airport_overrides`)
	if err != nil {
		return nil, fmt.Errorf("failed to query airport overrides: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, fmt.Errorf("failed to scan airport override: %w", err)
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		out[code] = strings.TrimSpace(name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read airport overrides: %w", err)
	}
	return out, nil
}

// UpsertAirportOverride sets the display name for one code.
func (p *PostgresDB) UpsertAirportOverride(ctx context.Context, code, name string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return fmt.Errorf("invalid airport code %q", code)
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO airport_overrides (iata, airport_ru, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (iata) DO UPDATE SET airport_ru = EXCLUDED.airport_ru, updated_at = CURRENT_TIMESTAMP
	`, code, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("failed to upsert airport override: %w", err)
	}
	return nil
}

// DeleteAirportOverride removes the override for code.
func (p *PostgresDB) DeleteAirportOverride(ctx context.Context, code string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM airport_overrides WHERE iata = $1`, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return fmt.Errorf("failed to delete airport override: %w", err)
	}
	return nil
}
