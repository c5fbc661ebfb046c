package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sales-console/internal/repository"
)

const createSessionTable = `
CREATE TABLE IF NOT EXISTS session (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	token TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// SessionRepository stores the bearer token in a single-row sqlite table.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSessionTable); err != nil {
		return fmt.Errorf("create session table: %w", err)
	}
	return nil
}

func (r *SessionRepository) LoadToken(ctx context.Context) (string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT token FROM session WHERE id = 1`)

	var token string
	if err := row.Scan(&token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("scan session token: %w", err)
	}
	return token, nil
}

func (r *SessionRepository) SaveToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO session (id, token, updated_at) VALUES (1, ?, ?)
ON CONFLICT (id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
		token,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	return nil
}

func (r *SessionRepository) ClearToken(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}
