package application

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/quizpilot/internal/domain"
	"github.com/bnema/quizpilot/internal/ports"
	"github.com/bnema/quizpilot/internal/protocol"
)

// In-memory test doubles for the ports. They are safe for concurrent use so
// debounce tests can fire from timer goroutines.

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeSessionRepo struct {
	mu      sync.Mutex
	session domain.Session
	ok      bool
	saveErr error
}

func (r *fakeSessionRepo) Get(context.Context) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return r.session, nil
}

func (r *fakeSessionRepo) Save(_ context.Context, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.session = session
	r.ok = true
	return nil
}

func (r *fakeSessionRepo) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = domain.Session{}
	r.ok = false
	return nil
}

func (r *fakeSessionRepo) current() (domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session, r.ok
}

type fakeRateLimitRepo struct {
	mu     sync.Mutex
	window domain.RateLimitWindow
	ok     bool
}

func (r *fakeRateLimitRepo) Get(context.Context) (domain.RateLimitWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ok {
		return domain.RateLimitWindow{}, domain.ErrRateLimitNotFound
	}
	return r.window, nil
}

func (r *fakeRateLimitRepo) Save(_ context.Context, window domain.RateLimitWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.window = window
	r.ok = true
	return nil
}

func (r *fakeRateLimitRepo) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.window = domain.RateLimitWindow{}
	r.ok = false
	return nil
}

func (r *fakeRateLimitRepo) current() (domain.RateLimitWindow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.window, r.ok
}

type fakeShortcutRepo struct {
	mu       sync.Mutex
	shortcut domain.Shortcut
	ok       bool
	getErr   error
}

func (r *fakeShortcutRepo) Get(context.Context) (domain.Shortcut, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return domain.Shortcut{}, r.getErr
	}
	if !r.ok {
		return domain.Shortcut{}, domain.ErrShortcutNotFound
	}
	return r.shortcut, nil
}

func (r *fakeShortcutRepo) Save(_ context.Context, shortcut domain.Shortcut) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shortcut = shortcut
	r.ok = true
	return nil
}

func (r *fakeShortcutRepo) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shortcut = domain.Shortcut{}
	r.ok = false
	return nil
}

type fakeAPI struct {
	loginFn      func(ctx context.Context, creds ports.Credentials) (domain.Session, error)
	registerFn   func(ctx context.Context, reg ports.Registration) error
	verifyOTPFn  func(ctx context.Context, email, otp string) (domain.Session, error)
	getCreditsFn func(ctx context.Context, accessToken string) (int, error)
	getAnswerFn  func(ctx context.Context, accessToken, text string) (domain.AnswerResult, error)

	mu          sync.Mutex
	answerCalls int
}

func (a *fakeAPI) Login(ctx context.Context, creds ports.Credentials) (domain.Session, error) {
	return a.loginFn(ctx, creds)
}

func (a *fakeAPI) Register(ctx context.Context, reg ports.Registration) error {
	return a.registerFn(ctx, reg)
}

func (a *fakeAPI) VerifyOTP(ctx context.Context, email, otp string) (domain.Session, error) {
	return a.verifyOTPFn(ctx, email, otp)
}

func (a *fakeAPI) GetCredits(ctx context.Context, accessToken string) (int, error) {
	return a.getCreditsFn(ctx, accessToken)
}

func (a *fakeAPI) GetAnswer(ctx context.Context, accessToken, text string) (domain.AnswerResult, error) {
	a.mu.Lock()
	a.answerCalls++
	a.mu.Unlock()
	return a.getAnswerFn(ctx, accessToken, text)
}

func (a *fakeAPI) answerCallCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.answerCalls
}

type notice struct {
	message string
	kind    ports.NoticeKind
}

type fakePresenter struct {
	mu              sync.Mutex
	loginPrompts    int
	noCreditPrompts int
	answers         []domain.AnswerResult
	notices         []notice
}

func (p *fakePresenter) ShowLoginPrompt(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loginPrompts++
	return nil
}

func (p *fakePresenter) ShowNoCreditsPrompt(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.noCreditPrompts++
	return nil
}

func (p *fakePresenter) ShowAnswer(_ context.Context, result domain.AnswerResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.answers = append(p.answers, result)
	return nil
}

func (p *fakePresenter) Notify(_ context.Context, message string, kind ports.NoticeKind) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, notice{message: message, kind: kind})
	return nil
}

func (p *fakePresenter) snapshot() fakePresenter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fakePresenter{
		loginPrompts:    p.loginPrompts,
		noCreditPrompts: p.noCreditPrompts,
		answers:         append([]domain.AnswerResult(nil), p.answers...),
		notices:         append([]notice(nil), p.notices...),
	}
}

type fakeMenuHost struct {
	mu         sync.Mutex
	entries    []domain.MenuEntry
	removeAlls int
}

func (h *fakeMenuHost) RemoveAll(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	h.removeAlls++
	return nil
}

func (h *fakeMenuHost) Create(_ context.Context, entry domain.MenuEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, existing := range h.entries {
		if existing.ID == entry.ID {
			return domain.ErrDuplicateMenuEntry
		}
	}
	h.entries = append(h.entries, entry)
	return nil
}

func (h *fakeMenuHost) entryIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.entries))
	for _, entry := range h.entries {
		ids = append(ids, entry.ID)
	}
	return ids
}

type fakeMessenger struct {
	mu       sync.Mutex
	sent     []protocol.Message
	response protocol.Response
	err      error
}

func (m *fakeMessenger) Send(_ context.Context, msg protocol.Message) (protocol.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return protocol.Response{}, m.err
	}
	m.sent = append(m.sent, msg)
	if m.response.OK || m.response.Error != "" {
		return m.response, nil
	}
	return protocol.OKResponse(), nil
}

func (m *fakeMessenger) messages() []protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]protocol.Message(nil), m.sent...)
}

type fakeSelection struct {
	mu   sync.Mutex
	text string
	err  error
}

func (s *fakeSelection) Current(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func (s *fakeSelection) set(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}
