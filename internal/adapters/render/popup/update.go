package popup

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/bnema/quizpilot/internal/application"
	"github.com/bnema/quizpilot/internal/domain"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activatedMsg:
		return m.onActivated(msg)
	case authResultMsg:
		return m.onAuthResult(msg)
	case registeredMsg:
		return m.onRegistered(msg)
	case creditsMsg:
		return m.onCredits(msg)
	case tickMsg:
		return m.onTick()
	case storeChangedMsg:
		return m.onStoreChanged(msg)
	case tea.KeyMsg:
		return m.onKey(msg)
	default:
		return m.updateInputs(msg)
	}
}

func (m Model) onActivated(msg activatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err.Error())
		return m, nil
	}

	m.countdown = msg.activation.CountdownSeconds
	m.session = msg.activation.Session

	if msg.activation.View == application.ViewMain {
		m.switchView(application.ViewMain)
		// Credits may be stale; refresh in the background.
		return m, m.refreshCreditsCmd()
	}

	m.switchView(application.ViewLogin)
	return m, nil
}

func (m Model) onAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	m.busy = false

	if msg.err != nil {
		if errors.Is(msg.err, domain.ErrRateLimited) {
			return m.beginCountdown()
		}
		m.setError(msg.err.Error())
		return m, nil
	}

	m.session = msg.session
	m.switchView(application.ViewMain)
	m.setInfo("Signed in as " + msg.session.User.Name)

	return m, nil
}

func (m Model) onRegistered(msg registeredMsg) (tea.Model, tea.Cmd) {
	m.busy = false

	if msg.err != nil {
		if errors.Is(msg.err, domain.ErrRateLimited) {
			return m.beginCountdown()
		}
		m.setError(msg.err.Error())
		return m, nil
	}

	m.switchView(application.ViewOTP)
	m.setInfo("Check " + m.controller.PendingEmail() + " for your verification code")

	return m, nil
}

func (m Model) onCredits(msg creditsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, domain.ErrUnauthorized) {
			// Session was cleared underneath us; back to the auth view.
			m.session = domain.Session{}
			m.switchView(application.ViewLogin)
			m.setError("Session expired. Please login again.")
			return m, nil
		}
		if errors.Is(msg.err, domain.ErrRateLimited) {
			return m.beginCountdown()
		}
		m.logger.Debug("credit refresh failed", zap.Error(msg.err))
		return m, nil
	}

	m.session = m.session.WithCredits(msg.credits)
	return m, nil
}

// onTick recomputes the countdown from the persisted end time each second;
// the popup never decrements a copy of its own.
func (m Model) onTick() (tea.Model, tea.Cmd) {
	seconds, err := m.controller.CountdownRemaining(context.Background())
	if err != nil {
		m.logger.Debug("countdown read failed", zap.Error(err))
	} else {
		m.countdown = seconds
	}

	return m, tickCmd()
}

func (m Model) onStoreChanged(msg storeChangedMsg) (tea.Model, tea.Cmd) {
	if !msg.open {
		return m, nil
	}

	// Another context wrote the store; resynchronize.
	return m, tea.Batch(m.activateCmd(), m.waitForChangeCmd())
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		return m.cycleFocus(msg.String() == "shift+tab" || msg.String() == "up"), nil
	case "enter":
		return m.submit()
	case "ctrl+s":
		return m.toggleAuthForm(), nil
	case "ctrl+r":
		if m.view == application.ViewMain {
			return m, m.refreshCreditsCmd()
		}
	case "ctrl+l":
		if m.view == application.ViewMain {
			return m.logout()
		}
	}

	return m.updateInputs(msg)
}

func (m Model) cycleFocus(backwards bool) Model {
	if len(m.inputs) == 0 {
		return m
	}

	m.inputs[m.focus].Blur()
	if backwards {
		m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	} else {
		m.focus = (m.focus + 1) % len(m.inputs)
	}
	m.inputs[m.focus].Focus()

	return m
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	if m.countdown > 0 {
		m.setError("Rate limited. Wait for the countdown to finish.")
		return m, nil
	}

	switch m.view {
	case application.ViewLogin:
		m.busy = true
		m.clearStatus()
		return m, m.loginCmd(m.inputs[loginFieldEmail].Value(), m.inputs[loginFieldPassword].Value())
	case application.ViewRegister:
		m.busy = true
		m.clearStatus()
		return m, m.registerCmd(
			m.inputs[registerFieldName].Value(),
			m.inputs[registerFieldEmail].Value(),
			m.inputs[registerFieldPassword].Value(),
		)
	case application.ViewOTP:
		m.busy = true
		m.clearStatus()
		return m, m.verifyOTPCmd(m.inputs[0].Value())
	default:
		return m, nil
	}
}

func (m Model) toggleAuthForm() Model {
	switch m.view {
	case application.ViewLogin:
		m.switchView(application.ViewRegister)
	case application.ViewRegister:
		m.switchView(application.ViewLogin)
	}

	return m
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	if err := m.controller.Logout(context.Background()); err != nil {
		m.setError(err.Error())
		return m, nil
	}

	m.session = domain.Session{}
	m.switchView(application.ViewLogin)
	m.setInfo("Signed out")

	return m, nil
}

func (m *Model) switchView(view application.PopupView) {
	m.view = view
	m.focus = 0
	m.clearStatus()

	switch view {
	case application.ViewLogin:
		m.inputs = loginInputs()
	case application.ViewRegister:
		m.inputs = registerInputs()
	case application.ViewOTP:
		m.inputs = otpInputs()
	default:
		m.inputs = nil
	}

	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

func (m Model) beginCountdown() (tea.Model, tea.Cmd) {
	seconds, err := m.controller.CountdownRemaining(context.Background())
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}

	m.countdown = seconds
	m.clearStatus()

	return m, nil
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setError(message string) {
	m.status = message
	m.statusErr = true
}

func (m *Model) setInfo(message string) {
	m.status = message
	m.statusErr = false
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}
