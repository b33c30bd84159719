package domain

import (
	"errors"
	"fmt"
	"strings"
)

type Modifiers struct {
	Ctrl    bool
	Alt     bool
	Shift   bool
	Command bool
}

// Shortcut is the user-configured trigger key combination, persisted in the
// synced store partition until explicitly cleared.
type Shortcut struct {
	Modifiers Modifiers
	Key       string
	Display   string
}

// KeyPress is one observed key-down event in a page context.
type KeyPress struct {
	Key     string
	Ctrl    bool
	Alt     bool
	Shift   bool
	Command bool
	// Editable marks presses inside inputs, textareas, or contenteditable
	// targets; the shortcut recognizer ignores those.
	Editable bool
}

func (s Shortcut) IsZero() bool {
	return s.Key == ""
}

// Matches requires the pressed key (case-insensitive) and all four modifier
// flags to match exactly. A shortcut without Alt must not fire while Alt is
// held.
func (s Shortcut) Matches(p KeyPress) bool {
	if s.IsZero() {
		return false
	}
	if !strings.EqualFold(s.Key, p.Key) {
		return false
	}

	return s.Modifiers.Ctrl == p.Ctrl &&
		s.Modifiers.Alt == p.Alt &&
		s.Modifiers.Shift == p.Shift &&
		s.Modifiers.Command == p.Command
}

func (s Shortcut) String() string {
	if s.Display != "" {
		return s.Display
	}

	parts := make([]string, 0, 5)
	if s.Modifiers.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if s.Modifiers.Alt {
		parts = append(parts, "Alt")
	}
	if s.Modifiers.Shift {
		parts = append(parts, "Shift")
	}
	if s.Modifiers.Command {
		parts = append(parts, "Command")
	}
	parts = append(parts, strings.ToUpper(s.Key))

	return strings.Join(parts, "+")
}

// ParseShortcut accepts combinations like "Ctrl+Shift+K". The final token is
// the key and must be a single character; leading tokens name modifiers.
func ParseShortcut(display string) (Shortcut, error) {
	trimmed := strings.TrimSpace(display)
	if trimmed == "" {
		return Shortcut{}, errors.New("shortcut is empty")
	}

	tokens := strings.Split(trimmed, "+")
	key := strings.TrimSpace(tokens[len(tokens)-1])
	if len([]rune(key)) != 1 {
		return Shortcut{}, fmt.Errorf("shortcut key %q must be a single character", key)
	}

	var mods Modifiers
	for _, token := range tokens[:len(tokens)-1] {
		switch strings.ToLower(strings.TrimSpace(token)) {
		case "ctrl", "control":
			mods.Ctrl = true
		case "alt", "option":
			mods.Alt = true
		case "shift":
			mods.Shift = true
		case "command", "cmd", "meta":
			mods.Command = true
		default:
			return Shortcut{}, fmt.Errorf("unknown shortcut modifier %q", token)
		}
	}

	shortcut := Shortcut{Modifiers: mods, Key: strings.ToUpper(key)}
	shortcut.Display = shortcut.String()

	return shortcut, nil
}
