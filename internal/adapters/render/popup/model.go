// Package popup is the interactive session UI: login, registration, OTP
// verification, and the authenticated credits view. It is instantiated
// fresh on every open and resynchronizes from the shared store through the
// SessionController, including any rate-limit countdown already running.
package popup

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/bnema/quizpilot/internal/adapters/state"
	"github.com/bnema/quizpilot/internal/application"
	"github.com/bnema/quizpilot/internal/domain"
)

const (
	loginFieldEmail = iota
	loginFieldPassword
)

const (
	registerFieldName = iota
	registerFieldEmail
	registerFieldPassword
)

type activatedMsg struct {
	activation application.Activation
	err        error
}

type authResultMsg struct {
	session domain.Session
	err     error
}

type registeredMsg struct {
	err error
}

type creditsMsg struct {
	credits int
	err     error
}

type tickMsg time.Time

type storeChangedMsg struct {
	open bool
}

type Model struct {
	controller *application.SessionController
	changes    <-chan state.ChangeEvent
	logger     *zap.Logger
	styles     styles

	view      application.PopupView
	session   domain.Session
	inputs    []textinput.Model
	focus     int
	status    string
	statusErr bool
	countdown int
	busy      bool
}

func NewModel(controller *application.SessionController, changes <-chan state.ChangeEvent, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := Model{
		controller: controller,
		changes:    changes,
		logger:     logger,
		styles:     newStyles(),
		view:       application.ViewLogin,
	}
	m.inputs = loginInputs()
	m.inputs[0].Focus()

	return m
}

func loginInputs() []textinput.Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	return []textinput.Model{email, password}
}

func registerInputs() []textinput.Model {
	name := textinput.New()
	name.Placeholder = "name"
	name.CharLimit = 64

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password (min 6 chars)"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	return []textinput.Model{name, email, password}
}

func otpInputs() []textinput.Model {
	otp := textinput.New()
	otp.Placeholder = "verification code"
	otp.CharLimit = 8

	return []textinput.Model{otp}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.activateCmd(), tickCmd(), m.waitForChangeCmd())
}

func (m Model) activateCmd() tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		activation, err := controller.Activate(context.Background())
		return activatedMsg{activation: activation, err: err}
	}
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		session, err := controller.Login(context.Background(), email, password)
		return authResultMsg{session: session, err: err}
	}
}

func (m Model) registerCmd(name, email, password string) tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		err := controller.Register(context.Background(), name, email, password)
		return registeredMsg{err: err}
	}
}

func (m Model) verifyOTPCmd(otp string) tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		session, err := controller.VerifyOTP(context.Background(), "", otp)
		return authResultMsg{session: session, err: err}
	}
}

func (m Model) refreshCreditsCmd() tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		credits, err := controller.RefreshCredits(context.Background())
		return creditsMsg{credits: credits, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) waitForChangeCmd() tea.Cmd {
	changes := m.changes
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		_, ok := <-changes
		return storeChangedMsg{open: ok}
	}
}
