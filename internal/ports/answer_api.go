package ports

import (
	"context"

	"github.com/bnema/quizpilot/internal/domain"
)

type Credentials struct {
	Email    string
	Password string
}

type Registration struct {
	Name     string
	Email    string
	Password string
}

// AnswerAPI is the remote answer-generation service. Implementations map
// distinguished HTTP outcomes onto domain sentinels: 401 to
// domain.ErrUnauthorized, 429 to domain.ErrRateLimited, and 403 (or an error
// body mentioning credits) to domain.ErrNoCredits. Other failures carry the
// server-provided message.
type AnswerAPI interface {
	Login(ctx context.Context, creds Credentials) (domain.Session, error)
	Register(ctx context.Context, reg Registration) error
	VerifyOTP(ctx context.Context, email, otp string) (domain.Session, error)
	GetCredits(ctx context.Context, accessToken string) (int, error)
	GetAnswer(ctx context.Context, accessToken, text string) (domain.AnswerResult, error)
}
