package domain

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrShortcutNotFound  = errors.New("shortcut not found")
	ErrRateLimitNotFound = errors.New("rate limit window not found")

	// Remote service outcomes the request flow must distinguish.
	ErrUnauthorized = errors.New("access token rejected")
	ErrRateLimited  = errors.New("rate limited")
	ErrNoCredits    = errors.New("no credits remaining")

	// ErrContextInvalidated signals that the hosting page context no longer
	// belongs to a live extension instance. Callers abort silently.
	ErrContextInvalidated = errors.New("extension context invalidated")

	ErrDuplicateMenuEntry = errors.New("menu entry id already exists")
)
