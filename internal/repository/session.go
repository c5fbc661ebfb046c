package repository

import "context"

// SessionRepository persists the single stored bearer token between restarts.
// The durable state is exactly one key; everything else about the session
// lives in memory.
type SessionRepository interface {
	Init(ctx context.Context) error
	// LoadToken returns the stored token, or "" when none is stored.
	LoadToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}
