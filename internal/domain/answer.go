package domain

import (
	"encoding/json"
	"strings"
)

const noAnswerFallback = "No answer found"

// Answer is the decoded result of one answer request. The remote service
// returns the answer field either as a plain string or as a JSON-encoded
// object with a correct option; both forms are valid.
type Answer struct {
	CorrectOption string
	Text          string
	Raw           string
}

type answerPayload struct {
	CorrectOption string `json:"correct_option"`
	Answer        string `json:"answer"`
}

// ParseAnswer attempts to decode raw as a JSON answer object and falls back
// to treating it as a plain string. It never fails.
func ParseAnswer(raw string) Answer {
	var payload answerPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Answer{Text: raw, Raw: raw}
	}
	if payload.CorrectOption == "" && payload.Answer == "" {
		return Answer{Text: raw, Raw: raw}
	}

	return Answer{
		CorrectOption: payload.CorrectOption,
		Text:          payload.Answer,
		Raw:           raw,
	}
}

func (a Answer) Display() string {
	if a.CorrectOption != "" {
		return strings.ToUpper(a.CorrectOption)
	}
	if strings.TrimSpace(a.Text) != "" {
		return a.Text
	}
	return noAnswerFallback
}

// AnswerResult carries the decoded answer plus the remaining credit balance
// when the service reported one.
type AnswerResult struct {
	Answer           Answer
	RemainingCredits *int
}
