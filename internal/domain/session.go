package domain

import "errors"

type User struct {
	ID      string
	Name    string
	Credits int
}

// Session is the persisted authentication state shared across contexts.
// AccessToken and User are set or cleared together; the zero Session means
// logged out.
type Session struct {
	AccessToken string
	User        *User
}

func NewSession(accessToken string, user User) (Session, error) {
	if accessToken == "" {
		return Session{}, errors.New("session access token is empty")
	}

	return Session{AccessToken: accessToken, User: &user}, nil
}

func (s Session) Authenticated() bool {
	return s.AccessToken != "" && s.User != nil
}

func (s Session) Credits() int {
	if s.User == nil {
		return 0
	}
	return s.User.Credits
}

// WithCredits returns a copy with the credit balance set to a known value.
// Credits are never incremented in place: concurrent writers re-applying the
// same value must stay idempotent.
func (s Session) WithCredits(credits int) Session {
	if s.User == nil {
		return s
	}

	user := *s.User
	user.Credits = credits
	return Session{AccessToken: s.AccessToken, User: &user}
}
