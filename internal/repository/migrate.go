package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate ensures the schema exists. In production a dedicated
// migration tool would own this; the statements are idempotent so the
// call is safe on every startup.
//
// users and employees are carried for operator tooling and are not
// touched by any service code.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trains (
			train_number TEXT PRIMARY KEY,
			train_name TEXT NOT NULL,
			departure_date TEXT NOT NULL,
			start_destination TEXT NOT NULL,
			end_destination TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS seats (
			train_number TEXT NOT NULL REFERENCES trains(train_number) ON DELETE CASCADE,
			seat_number INTEGER NOT NULL CHECK (seat_number BETWEEN 1 AND 50),
			seat_type TEXT NOT NULL,
			booked BOOLEAN NOT NULL DEFAULT FALSE,
			passenger_name TEXT NOT NULL DEFAULT '',
			passenger_age INTEGER NOT NULL DEFAULT 0,
			passenger_gender TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (train_number, seat_number)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_seats_free ON seats (train_number, seat_type, seat_number) WHERE NOT booked`,
		`CREATE TABLE IF NOT EXISTS users (
			username TEXT PRIMARY KEY,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			employee_id TEXT PRIMARY KEY,
			password TEXT NOT NULL,
			designation TEXT NOT NULL DEFAULT ''
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
