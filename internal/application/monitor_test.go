package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/quizpilot/internal/domain"
	"github.com/bnema/quizpilot/internal/protocol"
)

const testDebounce = 5 * time.Millisecond

func newTestMonitor(selection *fakeSelection, shortcuts *fakeShortcutRepo) (*SelectionMonitor, *fakeMessenger, *fakePresenter) {
	background := &fakeMessenger{}
	presenter := &fakePresenter{}
	monitor := NewSelectionMonitor(selection, shortcuts, background, presenter, testDebounce, nil)
	return monitor, background, presenter
}

func waitForMessages(t *testing.T, background *fakeMessenger, want int) []protocol.Message {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if msgs := background.messages(); len(msgs) >= want {
			return msgs
		}
		time.Sleep(time.Millisecond)
	}

	t.Fatalf("timed out waiting for %d messages, got %d", want, len(background.messages()))
	return nil
}

func settle() {
	time.Sleep(20 * testDebounce)
}

func TestMonitorReportsSelectionOnce(t *testing.T) {
	selection := &fakeSelection{text: "  what is the capital of France  "}
	monitor, background, _ := newTestMonitor(selection, &fakeShortcutRepo{})
	ctx := context.Background()

	monitor.HandlePointerUp(ctx)
	msgs := waitForMessages(t, background, 1)

	selected, ok := msgs[0].(protocol.TextSelected)
	require.True(t, ok)
	assert.True(t, selected.HasSelection)
	assert.Equal(t, "what is the capital of France", selected.Text)

	// The same selection reported again is suppressed.
	monitor.HandlePointerUp(ctx)
	settle()
	assert.Len(t, background.messages(), 1)
}

func TestMonitorReportsClearedSelection(t *testing.T) {
	selection := &fakeSelection{text: "some selected text"}
	monitor, background, _ := newTestMonitor(selection, &fakeShortcutRepo{})
	ctx := context.Background()

	monitor.HandleSelectionChange(ctx)
	waitForMessages(t, background, 1)

	selection.set("")
	monitor.HandleSelectionChange(ctx)
	msgs := waitForMessages(t, background, 2)

	cleared, ok := msgs[1].(protocol.TextSelected)
	require.True(t, ok)
	assert.False(t, cleared.HasSelection)
	assert.Empty(t, cleared.Text)
}

func TestMonitorDebounceCoalescesBursts(t *testing.T) {
	selection := &fakeSelection{text: "burst of selection events"}
	monitor, background, _ := newTestMonitor(selection, &fakeShortcutRepo{})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		monitor.HandlePointerUp(ctx)
		monitor.HandleKeyUp(ctx)
		monitor.HandleSelectionChange(ctx)
	}

	waitForMessages(t, background, 1)
	settle()
	assert.Len(t, background.messages(), 1)
}

func TestMonitorInvalidatedContextStaysSilent(t *testing.T) {
	selection := &fakeSelection{err: domain.ErrContextInvalidated}
	monitor, background, _ := newTestMonitor(selection, &fakeShortcutRepo{})

	monitor.HandlePointerUp(context.Background())
	settle()
	assert.Empty(t, background.messages())
}

func TestShortcutTriggersAnswerRequest(t *testing.T) {
	selection := &fakeSelection{text: "what is the capital of France"}
	shortcut, err := domain.ParseShortcut("Ctrl+Shift+K")
	require.NoError(t, err)
	shortcuts := &fakeShortcutRepo{shortcut: shortcut, ok: true}
	monitor, background, _ := newTestMonitor(selection, shortcuts)

	monitor.HandleKeyDown(context.Background(), domain.KeyPress{Key: "k", Ctrl: true, Shift: true})

	msgs := background.messages()
	require.Len(t, msgs, 1)
	requested, ok := msgs[0].(protocol.AnswerRequested)
	require.True(t, ok)
	assert.Equal(t, "what is the capital of France", requested.Text)
}

func TestShortcutIgnoresEditableTargets(t *testing.T) {
	selection := &fakeSelection{text: "typing in a form field"}
	shortcut, err := domain.ParseShortcut("Ctrl+Shift+K")
	require.NoError(t, err)
	shortcuts := &fakeShortcutRepo{shortcut: shortcut, ok: true}
	monitor, background, _ := newTestMonitor(selection, shortcuts)

	monitor.HandleKeyDown(context.Background(), domain.KeyPress{
		Key: "k", Ctrl: true, Shift: true, Editable: true,
	})
	assert.Empty(t, background.messages())
}

func TestShortcutExtraModifierDoesNotFire(t *testing.T) {
	selection := &fakeSelection{text: "some selected text"}
	shortcut, err := domain.ParseShortcut("Ctrl+Shift+K")
	require.NoError(t, err)
	shortcuts := &fakeShortcutRepo{shortcut: shortcut, ok: true}
	monitor, background, _ := newTestMonitor(selection, shortcuts)

	monitor.HandleKeyDown(context.Background(), domain.KeyPress{
		Key: "k", Ctrl: true, Shift: true, Alt: true,
	})
	assert.Empty(t, background.messages())
}

func TestShortcutWithoutSelectionShowsLocalNotice(t *testing.T) {
	selection := &fakeSelection{text: "   "}
	shortcut, err := domain.ParseShortcut("Ctrl+Shift+K")
	require.NoError(t, err)
	shortcuts := &fakeShortcutRepo{shortcut: shortcut, ok: true}
	monitor, background, presenter := newTestMonitor(selection, shortcuts)

	monitor.HandleKeyDown(context.Background(), domain.KeyPress{Key: "k", Ctrl: true, Shift: true})

	assert.Empty(t, background.messages())
	got := presenter.snapshot()
	require.Len(t, got.notices, 1)
	assert.Equal(t, "Select some text first", got.notices[0].message)
}

func TestShortcutUnconfiguredIsSilent(t *testing.T) {
	selection := &fakeSelection{text: "some selected text"}
	monitor, background, presenter := newTestMonitor(selection, &fakeShortcutRepo{})

	monitor.HandleKeyDown(context.Background(), domain.KeyPress{Key: "k", Ctrl: true, Shift: true})

	assert.Empty(t, background.messages())
	assert.Empty(t, presenter.snapshot().notices)
}

func TestShortcutLookupInvalidatedIsSilent(t *testing.T) {
	selection := &fakeSelection{text: "some selected text"}
	shortcuts := &fakeShortcutRepo{getErr: domain.ErrContextInvalidated}
	monitor, background, _ := newTestMonitor(selection, shortcuts)

	monitor.HandleKeyDown(context.Background(), domain.KeyPress{Key: "k", Ctrl: true, Shift: true})
	assert.Empty(t, background.messages())
}
