package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/quizpilot/internal/domain"
	"github.com/bnema/quizpilot/internal/ports"
	"github.com/bnema/quizpilot/internal/protocol"
)

// DefaultDebounce is the delay between a selection-affecting event and the
// actual selection read.
const DefaultDebounce = 100 * time.Millisecond

// SelectionMonitor runs inside each page context. It watches selection
// events, debounces them, and reports state changes to the background
// orchestrator. It also recognizes the persisted keyboard shortcut. The
// monitor is a stateless reporter apart from the last-reported snapshot used
// to deduplicate.
type SelectionMonitor struct {
	selection  ports.SelectionSource
	shortcuts  ports.ShortcutRepository
	background ports.Messenger
	presenter  ports.Presenter
	logger     *zap.Logger
	debounce   time.Duration

	mu    sync.Mutex
	last  string
	timer *time.Timer
}

func NewSelectionMonitor(
	selection ports.SelectionSource,
	shortcuts ports.ShortcutRepository,
	background ports.Messenger,
	presenter ports.Presenter,
	debounce time.Duration,
	logger *zap.Logger,
) *SelectionMonitor {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SelectionMonitor{
		selection:  selection,
		shortcuts:  shortcuts,
		background: background,
		presenter:  presenter,
		logger:     logger,
		debounce:   debounce,
	}
}

// HandlePointerUp, HandleKeyUp, and HandleSelectionChange all funnel into
// the same debounced check; rapid event bursts collapse into one read.

func (m *SelectionMonitor) HandlePointerUp(ctx context.Context)       { m.scheduleCheck(ctx) }
func (m *SelectionMonitor) HandleKeyUp(ctx context.Context)           { m.scheduleCheck(ctx) }
func (m *SelectionMonitor) HandleSelectionChange(ctx context.Context) { m.scheduleCheck(ctx) }

func (m *SelectionMonitor) scheduleCheck(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounce, func() {
		m.checkSelection(ctx)
	})
}

// checkSelection reads the selection and reports it only when the trimmed
// text differs from the previous report for this context.
func (m *SelectionMonitor) checkSelection(ctx context.Context) {
	text, err := m.selection.Current(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrContextInvalidated) {
			return
		}
		m.logger.Debug("selection read failed", zap.Error(err))
		return
	}

	trimmed := strings.TrimSpace(text)

	m.mu.Lock()
	if trimmed == m.last {
		m.mu.Unlock()
		return
	}
	m.last = trimmed
	m.mu.Unlock()

	resp, err := m.background.Send(ctx, protocol.TextSelected{
		HasSelection: trimmed != "",
		Text:         trimmed,
	})
	if err != nil {
		if errors.Is(err, domain.ErrContextInvalidated) {
			return
		}
		m.logger.Debug("selection report failed", zap.Error(err))
		return
	}
	if !resp.OK {
		m.logger.Debug("selection report rejected", zap.String("error", resp.Error))
	}
}

// HandleKeyDown runs the shortcut recognizer for a single key-down event.
// Presses inside editable fields never trigger.
func (m *SelectionMonitor) HandleKeyDown(ctx context.Context, press domain.KeyPress) {
	if press.Editable {
		return
	}

	shortcut, err := m.shortcuts.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrShortcutNotFound) || errors.Is(err, domain.ErrContextInvalidated) {
			return
		}
		m.logger.Debug("shortcut lookup failed", zap.Error(err))
		return
	}
	if !shortcut.Matches(press) {
		return
	}

	text, err := m.selection.Current(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrContextInvalidated) {
			return
		}
		m.logger.Debug("selection read failed", zap.Error(err))
		return
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		// Local notice only; nothing worth messaging the orchestrator about.
		if err := m.presenter.Notify(ctx, "Select some text first", ports.NoticeError); err != nil {
			m.logger.Debug("notice dropped", zap.Error(err))
		}
		return
	}

	if _, err := m.background.Send(ctx, protocol.AnswerRequested{Text: trimmed}); err != nil {
		if errors.Is(err, domain.ErrContextInvalidated) {
			return
		}
		m.logger.Debug("shortcut request failed", zap.Error(err))
	}
}
