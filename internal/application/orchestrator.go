package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/bnema/quizpilot/internal/domain"
	"github.com/bnema/quizpilot/internal/ports"
	"github.com/bnema/quizpilot/internal/protocol"
)

// MinAnswerTextLength is the minimum trimmed selection length the answer
// flow accepts before reaching the network.
const MinAnswerTextLength = 10

// Orchestrator is the single long-lived background component. It owns the
// context-menu state machine and the authenticated answer request flow. Menu
// state lives only in memory and is rebuilt from MenuNoSelection on every
// (re)start; the host runtime may discard menu entries at any time, so the
// machine never trusts leftovers.
type Orchestrator struct {
	sessions  ports.SessionRepository
	limits    ports.RateLimitRepository
	api       ports.AnswerAPI
	menu      ports.MenuHost
	presenter ports.Presenter
	clock     ports.Clock
	logger    *zap.Logger

	mu        sync.Mutex
	menuState domain.MenuState
	popup     ports.Messenger
}

func NewOrchestrator(
	sessions ports.SessionRepository,
	limits ports.RateLimitRepository,
	api ports.AnswerAPI,
	menu ports.MenuHost,
	presenter ports.Presenter,
	clock ports.Clock,
	logger *zap.Logger,
) *Orchestrator {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Orchestrator{
		sessions:  sessions,
		limits:    limits,
		api:       api,
		menu:      menu,
		presenter: presenter,
		clock:     clock,
		logger:    logger,
		menuState: domain.MenuNoSelection,
	}
}

// Start resets the menu state machine. Called on install and on every host
// restart.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.logger.Info("orchestrator starting, resetting context menu")
	return o.rebuildMenu(ctx, domain.MenuNoSelection)
}

func (o *Orchestrator) MenuState() domain.MenuState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.menuState
}

// AttachPopup registers the messenger used for best-effort timer broadcasts
// to an open popup. Pass nil when the popup closes.
func (o *Orchestrator) AttachPopup(popup ports.Messenger) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.popup = popup
}

var _ ports.MessageHandler = (*Orchestrator)(nil)

// HandleMessage dispatches over the closed message union. The transport
// serializes calls, so each handler runs to completion.
func (o *Orchestrator) HandleMessage(ctx context.Context, msg protocol.Message) protocol.Response {
	o.logger.Debug("message received", zap.String("kind", string(msg.Kind())))

	switch m := msg.(type) {
	case protocol.Ping:
		return protocol.OKResponse()
	case protocol.TextSelected:
		if err := o.ApplySelection(ctx, m.HasSelection, m.Text); err != nil {
			return protocol.ErrorResponse(err.Error())
		}
		return protocol.OKResponse()
	case protocol.AnswerRequested:
		if err := o.RequestAnswer(ctx, m.Text); err != nil {
			return protocol.ErrorResponse(err.Error())
		}
		return protocol.OKResponse()
	case protocol.ManualMenuRefresh:
		if err := o.rebuildMenu(ctx, domain.MenuHasSelection); err != nil {
			return protocol.ErrorResponse(err.Error())
		}
		return protocol.OKResponse()
	case protocol.OpenPopupRequested:
		// Surfacing the popup is the host's concern; acknowledging is enough.
		return protocol.OKResponse()
	case protocol.RefreshCreditsRequested:
		if err := o.RefreshCredits(ctx); err != nil {
			return protocol.ErrorResponse(err.Error())
		}
		return protocol.OKResponse()
	case protocol.UpdateRateLimitTimer:
		return protocol.ErrorResponse("timer updates flow from the orchestrator, not to it")
	default:
		return protocol.ErrorResponse(fmt.Sprintf("unsupported message kind %q", msg.Kind()))
	}
}

// ApplySelection drives the menu state machine from a selection report.
func (o *Orchestrator) ApplySelection(ctx context.Context, hasSelection bool, text string) error {
	target := domain.MenuNoSelection
	if hasSelection && strings.TrimSpace(text) != "" {
		target = domain.MenuHasSelection
	}

	return o.rebuildMenu(ctx, target)
}

// rebuildMenu idempotently moves the machine to target: clear everything,
// then recreate the full entry set. Incremental adds would hit duplicate-id
// errors from the host menu API.
func (o *Orchestrator) rebuildMenu(ctx context.Context, target domain.MenuState) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.menu.RemoveAll(ctx); err != nil {
		return fmt.Errorf("clear context menu: %w", err)
	}

	for _, entry := range target.Entries() {
		if err := o.menu.Create(ctx, entry); err != nil {
			// The machine stays in a defined state even on a partial build.
			o.menuState = target
			return fmt.Errorf("create menu entry %q: %w", entry.ID, err)
		}
	}

	o.menuState = target
	o.logger.Debug("menu rebuilt", zap.String("state", string(target)))

	return nil
}

// RequestAnswer runs the answer flow for the selected text. Gate conditions
// (not logged in, short text, zero credits) are expected outcomes surfaced
// through the presenter, never errors. The flow is sequential per request
// but does not serialize across concurrent requests: two near-simultaneous
// triggers may race on the credit read, which is accepted.
func (o *Orchestrator) RequestAnswer(ctx context.Context, text string) error {
	session, err := o.sessions.Get(ctx)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("read session: %w", err)
	}
	if !session.Authenticated() {
		o.present(ctx, o.presenter.ShowLoginPrompt)
		return nil
	}

	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < MinAnswerTextLength {
		o.notify(ctx, fmt.Sprintf("Select more text (at least %d characters)", MinAnswerTextLength), ports.NoticeError)
		return nil
	}

	if session.Credits() <= 0 {
		o.present(ctx, o.presenter.ShowNoCreditsPrompt)
		return nil
	}

	o.notify(ctx, "Requesting answer...", ports.NoticeInfo)

	result, err := o.api.GetAnswer(ctx, session.AccessToken, trimmed)
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		o.clearSession(ctx)
		o.present(ctx, o.presenter.ShowLoginPrompt)
		return nil
	case errors.Is(err, domain.ErrNoCredits):
		o.present(ctx, o.presenter.ShowNoCreditsPrompt)
		return nil
	case errors.Is(err, domain.ErrRateLimited):
		o.startRateLimit(ctx, domain.DefaultRateLimitDuration)
		return nil
	case err != nil:
		// Recoverable: surface the server message and let the user retry.
		o.notify(ctx, err.Error(), ports.NoticeError)
		return nil
	}

	if result.RemainingCredits != nil {
		updated := session.WithCredits(*result.RemainingCredits)
		if err := o.sessions.Save(ctx, updated); err != nil {
			o.logger.Warn("persist updated credits", zap.Error(err))
		}
	}

	o.present(ctx, func(ctx context.Context) error {
		return o.presenter.ShowAnswer(ctx, result)
	})

	return nil
}

// RefreshCredits re-fetches the balance and persists it as a known value.
func (o *Orchestrator) RefreshCredits(ctx context.Context) error {
	session, err := o.sessions.Get(ctx)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("read session: %w", err)
	}
	if !session.Authenticated() {
		return nil
	}

	credits, err := o.api.GetCredits(ctx, session.AccessToken)
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		o.clearSession(ctx)
		o.present(ctx, o.presenter.ShowLoginPrompt)
		return nil
	case errors.Is(err, domain.ErrRateLimited):
		o.startRateLimit(ctx, domain.DefaultRateLimitDuration)
		return nil
	case err != nil:
		return fmt.Errorf("refresh credits: %w", err)
	}

	if err := o.sessions.Save(ctx, session.WithCredits(credits)); err != nil {
		return fmt.Errorf("persist refreshed credits: %w", err)
	}

	o.logger.Debug("credits refreshed", zap.Int("credits", credits))

	return nil
}

// startRateLimit persists the countdown window and announces it to any open
// popup. The broadcast is best-effort: a closed popup is normal.
func (o *Orchestrator) startRateLimit(ctx context.Context, d time.Duration) {
	now := o.clock.Now()
	window := domain.NewRateLimitWindow(now, d)

	if err := o.limits.Save(ctx, window); err != nil {
		o.logger.Warn("persist rate limit window", zap.Error(err))
	}

	o.mu.Lock()
	popup := o.popup
	o.mu.Unlock()

	if popup == nil {
		return
	}
	if _, err := popup.Send(ctx, protocol.UpdateRateLimitTimer{SecondsLeft: window.SecondsLeft(now)}); err != nil {
		o.logger.Debug("rate limit broadcast dropped", zap.Error(err))
	}
}

// clearSession is idempotent; racing clears from another context converge on
// the same empty value.
func (o *Orchestrator) clearSession(ctx context.Context) {
	if err := o.sessions.Clear(ctx); err != nil {
		o.logger.Warn("clear session", zap.Error(err))
	}
}

func (o *Orchestrator) present(ctx context.Context, show func(context.Context) error) {
	if err := show(ctx); err != nil {
		o.logger.Warn("presenter failed", zap.Error(err))
	}
}

func (o *Orchestrator) notify(ctx context.Context, message string, kind ports.NoticeKind) {
	if err := o.presenter.Notify(ctx, message, kind); err != nil {
		o.logger.Debug("notification dropped", zap.Error(err))
	}
}
