// Package selection implements the SelectionSource over a line-based
// reader: each line replaces the current selection, an empty line clears
// it. The daemon uses it to drive the monitor from stdin.
package selection

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/bnema/quizpilot/internal/ports"
)

type Reader struct {
	mu      sync.Mutex
	current string
}

var _ ports.SelectionSource = (*Reader)(nil)

func New() *Reader {
	return &Reader{}
}

func (r *Reader) Current(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, nil
}

func (r *Reader) set(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = text
}

// Run consumes lines from in until EOF or ctx cancellation, updating the
// current selection and invoking onChange for each line.
func (r *Reader) Run(ctx context.Context, in io.Reader, onChange func(context.Context)) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.set(scanner.Text())
		if onChange != nil {
			onChange(ctx)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read selection input: %w", err)
	}

	return nil
}
