package state

import (
	"fmt"
	"time"

	"github.com/bnema/quizpilot/internal/domain"
)

const currentSchemaVersion = 1

// syncedSchema is the on-disk form of the synced partition: session and
// shortcut, the state that follows the user across installs.
type syncedSchema struct {
	Version  int             `toml:"version"`
	Session  *sessionSchema  `toml:"session,omitempty"`
	Shortcut *shortcutSchema `toml:"shortcut,omitempty"`
}

// localSchema is the on-disk form of the local partition: ephemeral state
// that must not sync, currently only the rate-limit window.
type localSchema struct {
	Version        int   `toml:"version"`
	RateLimitEndMs int64 `toml:"rate_limit_end_ms,omitempty"`
}

type sessionSchema struct {
	AccessToken string     `toml:"access_token"`
	User        userSchema `toml:"user"`
}

type userSchema struct {
	ID      string `toml:"id"`
	Name    string `toml:"name"`
	Credits int    `toml:"credits"`
}

type shortcutSchema struct {
	Ctrl    bool   `toml:"ctrl"`
	Alt     bool   `toml:"alt"`
	Shift   bool   `toml:"shift"`
	Command bool   `toml:"command"`
	Key     string `toml:"key"`
	Display string `toml:"display"`
}

func (s *syncedSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s syncedSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported synced state schema version %d (current %d)", s.Version, currentSchemaVersion)
	}
	return nil
}

func (s *localSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s localSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported local state schema version %d (current %d)", s.Version, currentSchemaVersion)
	}
	return nil
}

func sessionToSchema(session domain.Session) *sessionSchema {
	if !session.Authenticated() {
		return nil
	}

	return &sessionSchema{
		AccessToken: session.AccessToken,
		User: userSchema{
			ID:      session.User.ID,
			Name:    session.User.Name,
			Credits: session.User.Credits,
		},
	}
}

func sessionFromSchema(schema *sessionSchema) (domain.Session, bool) {
	if schema == nil || schema.AccessToken == "" {
		return domain.Session{}, false
	}

	return domain.Session{
		AccessToken: schema.AccessToken,
		User: &domain.User{
			ID:      schema.User.ID,
			Name:    schema.User.Name,
			Credits: schema.User.Credits,
		},
	}, true
}

func shortcutToSchema(shortcut domain.Shortcut) *shortcutSchema {
	return &shortcutSchema{
		Ctrl:    shortcut.Modifiers.Ctrl,
		Alt:     shortcut.Modifiers.Alt,
		Shift:   shortcut.Modifiers.Shift,
		Command: shortcut.Modifiers.Command,
		Key:     shortcut.Key,
		Display: shortcut.Display,
	}
}

func shortcutFromSchema(schema *shortcutSchema) (domain.Shortcut, bool) {
	if schema == nil || schema.Key == "" {
		return domain.Shortcut{}, false
	}

	return domain.Shortcut{
		Modifiers: domain.Modifiers{
			Ctrl:    schema.Ctrl,
			Alt:     schema.Alt,
			Shift:   schema.Shift,
			Command: schema.Command,
		},
		Key:     schema.Key,
		Display: schema.Display,
	}, true
}

func windowFromMillis(ms int64) (domain.RateLimitWindow, bool) {
	if ms == 0 {
		return domain.RateLimitWindow{}, false
	}
	return domain.RateLimitWindow{EndTime: time.UnixMilli(ms)}, true
}
