package popup

import (
	"fmt"
	"strings"

	"github.com/bnema/quizpilot/internal/application"
)

func (m Model) View() string {
	var b strings.Builder

	switch m.view {
	case application.ViewMain:
		b.WriteString(m.styles.title.Render("QuizPilot"))
		b.WriteString("\n\n")
		if m.session.User != nil {
			b.WriteString(m.styles.label.Render("Signed in as "))
			b.WriteString(m.styles.value.Render(m.session.User.Name))
			b.WriteString("\n")
			b.WriteString(m.styles.credits.Render(fmt.Sprintf("%d credits", m.session.Credits())))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.styles.help.Render("ctrl+r refresh credits · ctrl+l logout · esc quit"))
	case application.ViewLogin:
		b.WriteString(m.styles.title.Render("Sign in"))
		b.WriteString("\n\n")
		m.renderInputs(&b)
		b.WriteString(m.styles.help.Render("enter submit · ctrl+s register instead · esc quit"))
	case application.ViewRegister:
		b.WriteString(m.styles.title.Render("Create account"))
		b.WriteString("\n\n")
		m.renderInputs(&b)
		b.WriteString(m.styles.help.Render("enter submit · ctrl+s sign in instead · esc quit"))
	case application.ViewOTP:
		b.WriteString(m.styles.title.Render("Verify your email"))
		b.WriteString("\n\n")
		m.renderInputs(&b)
		b.WriteString(m.styles.help.Render("enter verify · esc quit"))
	}

	if m.countdown > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.styles.countdown.Render(fmt.Sprintf("Rate limited. Try again in %ds", m.countdown)))
	}

	if m.status != "" {
		b.WriteString("\n\n")
		if m.statusErr {
			b.WriteString(m.styles.err.Render(m.status))
		} else {
			b.WriteString(m.styles.info.Render(m.status))
		}
	}

	if m.busy {
		b.WriteString("\n\n")
		b.WriteString(m.styles.help.Render("working..."))
	}

	return m.styles.panel.Render(b.String()) + "\n"
}

func (m Model) renderInputs(b *strings.Builder) {
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
