package ports

import (
	"context"

	"github.com/bnema/quizpilot/internal/domain"
)

// MenuHost is the host API owning the actual context-menu entries. Create
// fails with domain.ErrDuplicateMenuEntry when an entry id already exists,
// which is why rebuilds always clear first.
type MenuHost interface {
	RemoveAll(ctx context.Context) error
	Create(ctx context.Context, entry domain.MenuEntry) error
}
