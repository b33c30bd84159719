package answer

import (
	"fmt"
	"strings"

	"github.com/bnema/quizpilot/internal/domain"
)

func renderView(result domain.AnswerResult, st styles) string {
	var b strings.Builder

	b.WriteString(st.title.Render("AI Answer"))
	b.WriteString("\n\n")

	if result.Answer.CorrectOption != "" {
		b.WriteString(st.option.Render(result.Answer.Display()))
		if strings.TrimSpace(result.Answer.Text) != "" {
			b.WriteString("\n")
			b.WriteString(st.text.Render(result.Answer.Text))
		}
	} else {
		b.WriteString(st.text.Render(result.Answer.Display()))
	}

	if result.RemainingCredits != nil {
		b.WriteString("\n\n")
		b.WriteString(st.credits.Render(fmt.Sprintf("%d credits remaining", *result.RemainingCredits)))
	} else {
		b.WriteString("\n\n")
		b.WriteString(st.faint.Render("credit balance unchanged"))
	}

	return st.panel.Render(b.String())
}
