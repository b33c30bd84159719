package ports

import (
	"context"

	"github.com/bnema/quizpilot/internal/domain"
)

// SessionRepository persists the session in the synced store partition.
// Clear is idempotent: clearing an absent session is not an error.
type SessionRepository interface {
	Get(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}

// ShortcutRepository persists the user-configured shortcut in the synced
// store partition.
type ShortcutRepository interface {
	Get(ctx context.Context) (domain.Shortcut, error)
	Save(ctx context.Context, shortcut domain.Shortcut) error
	Clear(ctx context.Context) error
}

// RateLimitRepository persists the rate-limit window in the local store
// partition.
type RateLimitRepository interface {
	Get(ctx context.Context) (domain.RateLimitWindow, error)
	Save(ctx context.Context, window domain.RateLimitWindow) error
	Clear(ctx context.Context) error
}
