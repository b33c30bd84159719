// Package menu provides an in-memory context-menu host with the same
// contract as the browser menu API: entry ids are unique and creation fails
// on duplicates, which forces the clear-then-recreate rebuild discipline.
package menu

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/quizpilot/internal/domain"
	"github.com/bnema/quizpilot/internal/ports"
)

type Host struct {
	mu      sync.Mutex
	entries map[string]domain.MenuEntry
	order   []string
}

var _ ports.MenuHost = (*Host)(nil)

func NewHost() *Host {
	return &Host{entries: map[string]domain.MenuEntry{}}
}

func (h *Host) RemoveAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = map[string]domain.MenuEntry{}
	h.order = nil

	return nil
}

func (h *Host) Create(ctx context.Context, entry domain.MenuEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.entries[entry.ID]; exists {
		return fmt.Errorf("create entry %q: %w", entry.ID, domain.ErrDuplicateMenuEntry)
	}

	h.entries[entry.ID] = entry
	h.order = append(h.order, entry.ID)

	return nil
}

// Entries returns the current entry set in creation order.
func (h *Host) Entries() []domain.MenuEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := make([]domain.MenuEntry, 0, len(h.order))
	for _, id := range h.order {
		entries = append(entries, h.entries[id])
	}

	return entries
}
