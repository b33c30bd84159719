package ports

import (
	"context"

	"github.com/bnema/quizpilot/internal/domain"
)

type NoticeKind string

const (
	NoticeInfo  NoticeKind = "info"
	NoticeError NoticeKind = "error"
)

// Presenter renders everything the user sees. The coordination core only
// hands it opaque payloads; markup and styling stay behind this boundary.
type Presenter interface {
	ShowLoginPrompt(ctx context.Context) error
	ShowNoCreditsPrompt(ctx context.Context) error
	ShowAnswer(ctx context.Context, result domain.AnswerResult) error
	Notify(ctx context.Context, message string, kind NoticeKind) error
}
