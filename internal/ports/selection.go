package ports

import "context"

// SelectionSource reads the current text selection of the hosting page.
// Implementations return domain.ErrContextInvalidated once the extension
// instance backing the page is gone.
type SelectionSource interface {
	Current(ctx context.Context) (string, error)
}
