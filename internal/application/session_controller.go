package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/quizpilot/internal/domain"
	"github.com/bnema/quizpilot/internal/ports"
	"github.com/bnema/quizpilot/internal/protocol"
)

type PopupView string

const (
	ViewLogin    PopupView = "login"
	ViewRegister PopupView = "register"
	ViewOTP      PopupView = "otp"
	ViewMain     PopupView = "main"
)

const minPasswordLength = 6

// Activation is what the popup renders after reading the shared store.
type Activation struct {
	View    PopupView
	Session domain.Session
	// CountdownSeconds is non-zero when a persisted rate-limit window is
	// still running; the popup resumes at this value instead of restarting.
	CountdownSeconds int
}

// SessionController backs the popup. A fresh instance is created on every
// popup open; all durable state lives in the shared store, so the controller
// resynchronizes from it on activation.
type SessionController struct {
	sessions ports.SessionRepository
	limits   ports.RateLimitRepository
	api      ports.AnswerAPI
	clock    ports.Clock
	logger   *zap.Logger

	mu           sync.Mutex
	pendingEmail string
}

func NewSessionController(
	sessions ports.SessionRepository,
	limits ports.RateLimitRepository,
	api ports.AnswerAPI,
	clock ports.Clock,
	logger *zap.Logger,
) *SessionController {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionController{
		sessions: sessions,
		limits:   limits,
		api:      api,
		clock:    clock,
		logger:   logger,
	}
}

// Activate reads the persisted session and any running countdown. An
// authenticated session yields the main view; callers follow up with an
// asynchronous RefreshCredits. Otherwise the auth view opens on the login
// sub-form.
func (c *SessionController) Activate(ctx context.Context) (Activation, error) {
	session, err := c.sessions.Get(ctx)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return Activation{}, fmt.Errorf("read session: %w", err)
	}

	seconds, err := c.CountdownRemaining(ctx)
	if err != nil {
		return Activation{}, err
	}

	view := ViewLogin
	if session.Authenticated() {
		view = ViewMain
	}

	return Activation{View: view, Session: session, CountdownSeconds: seconds}, nil
}

// Login exchanges credentials for a session and persists token and user
// together. A 429 starts the countdown instead of surfacing an error
// message; the sentinel still propagates so the view switches to it.
func (c *SessionController) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Session{}, errors.New("email and password are required")
	}

	session, err := c.api.Login(ctx, ports.Credentials{Email: email, Password: password})
	if err != nil {
		c.countdownOnRateLimit(ctx, err)
		return domain.Session{}, err
	}

	if err := c.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("persist session: %w", err)
	}

	c.logger.Info("logged in", zap.String("user", session.User.Name))

	return session, nil
}

// Register submits a registration; success moves the popup to the OTP
// sub-state carrying the submitted email.
func (c *SessionController) Register(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return errors.New("name, email, and password are required")
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	if err := c.api.Register(ctx, ports.Registration{Name: name, Email: email, Password: password}); err != nil {
		c.countdownOnRateLimit(ctx, err)
		return err
	}

	c.mu.Lock()
	c.pendingEmail = email
	c.mu.Unlock()

	return nil
}

// PendingEmail is the address awaiting OTP verification, set by a
// successful Register in this popup instance.
func (c *SessionController) PendingEmail() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingEmail
}

// VerifyOTP completes registration. An empty email falls back to the
// pending one from Register.
func (c *SessionController) VerifyOTP(ctx context.Context, email, otp string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		email = c.PendingEmail()
	}
	if email == "" {
		return domain.Session{}, errors.New("email is required")
	}
	if strings.TrimSpace(otp) == "" {
		return domain.Session{}, errors.New("verification code is required")
	}

	session, err := c.api.VerifyOTP(ctx, email, otp)
	if err != nil {
		c.countdownOnRateLimit(ctx, err)
		return domain.Session{}, err
	}

	if err := c.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("persist session: %w", err)
	}

	c.mu.Lock()
	c.pendingEmail = ""
	c.mu.Unlock()

	return session, nil
}

// RefreshCredits fetches the balance and persists it as a known value. A
// 401 clears the whole session: both token and user, never one alone.
func (c *SessionController) RefreshCredits(ctx context.Context) (int, error) {
	session, err := c.sessions.Get(ctx)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return 0, fmt.Errorf("read session: %w", err)
	}
	if !session.Authenticated() {
		return 0, domain.ErrSessionNotFound
	}

	credits, err := c.api.GetCredits(ctx, session.AccessToken)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			if clearErr := c.sessions.Clear(ctx); clearErr != nil {
				c.logger.Warn("clear expired session", zap.Error(clearErr))
			}
		}
		c.countdownOnRateLimit(ctx, err)
		return 0, err
	}

	if err := c.sessions.Save(ctx, session.WithCredits(credits)); err != nil {
		return 0, fmt.Errorf("persist refreshed credits: %w", err)
	}

	return credits, nil
}

func (c *SessionController) Logout(ctx context.Context) error {
	if err := c.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// StartCountdown persists a new rate-limit window ending d from now,
// replacing any prior window. Because every tick recomputes from the single
// persisted end time, replacing the window is also what guarantees two
// timers never run concurrently.
func (c *SessionController) StartCountdown(ctx context.Context, d time.Duration) (int, error) {
	now := c.clock.Now()
	window := domain.NewRateLimitWindow(now, d)

	if err := c.limits.Save(ctx, window); err != nil {
		return 0, fmt.Errorf("persist rate limit window: %w", err)
	}

	return window.SecondsLeft(now), nil
}

// CountdownRemaining recomputes the remaining seconds from the persisted
// end time; expired windows are deleted on observation.
func (c *SessionController) CountdownRemaining(ctx context.Context) (int, error) {
	window, err := c.limits.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimitNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("read rate limit window: %w", err)
	}

	now := c.clock.Now()
	if window.Expired(now) {
		if err := c.limits.Clear(ctx); err != nil {
			c.logger.Warn("clear expired rate limit window", zap.Error(err))
		}
		return 0, nil
	}

	return window.SecondsLeft(now), nil
}

var _ ports.MessageHandler = (*SessionController)(nil)

// HandleMessage accepts orchestrator-announced timer updates: an external
// announcement replaces any locally started countdown.
func (c *SessionController) HandleMessage(ctx context.Context, msg protocol.Message) protocol.Response {
	switch m := msg.(type) {
	case protocol.Ping:
		return protocol.OKResponse()
	case protocol.UpdateRateLimitTimer:
		if m.SecondsLeft <= 0 {
			return protocol.ErrorResponse("timer update without remaining seconds")
		}
		if _, err := c.StartCountdown(ctx, time.Duration(m.SecondsLeft)*time.Second); err != nil {
			return protocol.ErrorResponse(err.Error())
		}
		return protocol.OKResponse()
	default:
		return protocol.ErrorResponse(fmt.Sprintf("unsupported message kind %q", msg.Kind()))
	}
}

func (c *SessionController) countdownOnRateLimit(ctx context.Context, err error) {
	if !errors.Is(err, domain.ErrRateLimited) {
		return
	}
	if _, cdErr := c.StartCountdown(ctx, domain.DefaultRateLimitDuration); cdErr != nil {
		c.logger.Warn("start rate limit countdown", zap.Error(cdErr))
	}
}
