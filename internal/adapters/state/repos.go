package state

import (
	"context"

	"github.com/bnema/quizpilot/internal/domain"
	"github.com/bnema/quizpilot/internal/ports"
)

// Sessions, Shortcuts, and RateLimits expose the partitions as the small
// repositories the application layer depends on. All views share the same
// underlying files and locks.

func (s *Store) Sessions() ports.SessionRepository {
	return sessionRepo{store: s}
}

func (s *Store) Shortcuts() ports.ShortcutRepository {
	return shortcutRepo{store: s}
}

func (s *Store) RateLimits() ports.RateLimitRepository {
	return rateLimitRepo{store: s}
}

type sessionRepo struct {
	store *Store
}

var _ ports.SessionRepository = sessionRepo{}

func (r sessionRepo) Get(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	r.store.syncedMu.RLock()
	defer r.store.syncedMu.RUnlock()

	file, err := r.store.readSynced()
	if err != nil {
		return domain.Session{}, err
	}

	session, ok := sessionFromSchema(file.Session)
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	return session, nil
}

func (r sessionRepo) Save(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.syncedMu.Lock()
	defer r.store.syncedMu.Unlock()

	file, err := r.store.readSynced()
	if err != nil {
		return err
	}

	file.Session = sessionToSchema(session)

	return r.store.writeSynced(file)
}

func (r sessionRepo) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.syncedMu.Lock()
	defer r.store.syncedMu.Unlock()

	file, err := r.store.readSynced()
	if err != nil {
		return err
	}
	if file.Session == nil {
		return nil
	}

	file.Session = nil

	return r.store.writeSynced(file)
}

type shortcutRepo struct {
	store *Store
}

var _ ports.ShortcutRepository = shortcutRepo{}

func (r shortcutRepo) Get(ctx context.Context) (domain.Shortcut, error) {
	if err := ctx.Err(); err != nil {
		return domain.Shortcut{}, err
	}

	r.store.syncedMu.RLock()
	defer r.store.syncedMu.RUnlock()

	file, err := r.store.readSynced()
	if err != nil {
		return domain.Shortcut{}, err
	}

	shortcut, ok := shortcutFromSchema(file.Shortcut)
	if !ok {
		return domain.Shortcut{}, domain.ErrShortcutNotFound
	}

	return shortcut, nil
}

func (r shortcutRepo) Save(ctx context.Context, shortcut domain.Shortcut) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.syncedMu.Lock()
	defer r.store.syncedMu.Unlock()

	file, err := r.store.readSynced()
	if err != nil {
		return err
	}

	file.Shortcut = shortcutToSchema(shortcut)

	return r.store.writeSynced(file)
}

func (r shortcutRepo) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.syncedMu.Lock()
	defer r.store.syncedMu.Unlock()

	file, err := r.store.readSynced()
	if err != nil {
		return err
	}
	if file.Shortcut == nil {
		return nil
	}

	file.Shortcut = nil

	return r.store.writeSynced(file)
}

type rateLimitRepo struct {
	store *Store
}

var _ ports.RateLimitRepository = rateLimitRepo{}

func (r rateLimitRepo) Get(ctx context.Context) (domain.RateLimitWindow, error) {
	if err := ctx.Err(); err != nil {
		return domain.RateLimitWindow{}, err
	}

	r.store.localMu.RLock()
	defer r.store.localMu.RUnlock()

	file, err := r.store.readLocal()
	if err != nil {
		return domain.RateLimitWindow{}, err
	}

	window, ok := windowFromMillis(file.RateLimitEndMs)
	if !ok {
		return domain.RateLimitWindow{}, domain.ErrRateLimitNotFound
	}

	return window, nil
}

func (r rateLimitRepo) Save(ctx context.Context, window domain.RateLimitWindow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.localMu.Lock()
	defer r.store.localMu.Unlock()

	file, err := r.store.readLocal()
	if err != nil {
		return err
	}

	file.RateLimitEndMs = window.EndTime.UnixMilli()

	return r.store.writeLocal(file)
}

func (r rateLimitRepo) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.localMu.Lock()
	defer r.store.localMu.Unlock()

	file, err := r.store.readLocal()
	if err != nil {
		return err
	}
	if file.RateLimitEndMs == 0 {
		return nil
	}

	file.RateLimitEndMs = 0

	return r.store.writeLocal(file)
}
