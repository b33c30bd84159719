// Package api implements the remote answer-service client over bearer-token
// authenticated JSON.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/quizpilot/internal/domain"
	"github.com/bnema/quizpilot/internal/ports"
)

const maxResponseBytes = 1 << 20

const (
	loginPath      = "/login"
	registerPath   = "/register"
	verifyOTPPath  = "/verify-otp"
	getCreditsPath = "/get-credits"
	getAnswerPath  = "/get-answer"
)

type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.AnswerAPI = (*Client)(nil)

type userPayload struct {
	ID      json.Number `json:"id"`
	Name    string      `json:"name"`
	Credits int         `json:"credits"`
}

type authResponse struct {
	AccessToken string      `json:"access_token"`
	User        userPayload `json:"user"`
	Error       string      `json:"error"`
}

type creditsResponse struct {
	Credits int    `json:"credits"`
	Error   string `json:"error"`
}

type answerResponse struct {
	Answer           string `json:"answer"`
	RemainingCredits *int   `json:"remaining_credits"`
	Error            string `json:"error"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) Login(ctx context.Context, creds ports.Credentials) (domain.Session, error) {
	body := map[string]string{"email": creds.Email, "password": creds.Password}

	var payload authResponse
	if err := c.call(ctx, http.MethodPost, loginPath, "", body, &payload); err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}

	return sessionFromAuthResponse(payload)
}

func (c *Client) Register(ctx context.Context, reg ports.Registration) error {
	body := map[string]string{"name": reg.Name, "email": reg.Email, "password": reg.Password}

	if err := c.call(ctx, http.MethodPost, registerPath, "", body, &errorResponse{}); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	return nil
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (domain.Session, error) {
	body := map[string]string{"email": email, "otp": otp}

	var payload authResponse
	if err := c.call(ctx, http.MethodPost, verifyOTPPath, "", body, &payload); err != nil {
		return domain.Session{}, fmt.Errorf("verify otp: %w", err)
	}

	return sessionFromAuthResponse(payload)
}

func (c *Client) GetCredits(ctx context.Context, accessToken string) (int, error) {
	var payload creditsResponse
	if err := c.call(ctx, http.MethodGet, getCreditsPath, accessToken, nil, &payload); err != nil {
		return 0, fmt.Errorf("get credits: %w", err)
	}

	return payload.Credits, nil
}

func (c *Client) GetAnswer(ctx context.Context, accessToken, text string) (domain.AnswerResult, error) {
	body := map[string]string{"text": text}

	var payload answerResponse
	if err := c.call(ctx, http.MethodPost, getAnswerPath, accessToken, body, &payload); err != nil {
		return domain.AnswerResult{}, fmt.Errorf("get answer: %w", err)
	}

	// A nominally successful body can still report a credit problem.
	if mentionsCredits(payload.Error) {
		return domain.AnswerResult{}, fmt.Errorf("get answer: %s: %w", payload.Error, domain.ErrNoCredits)
	}

	return domain.AnswerResult{
		Answer:           domain.ParseAnswer(payload.Answer),
		RemainingCredits: payload.RemainingCredits,
	}, nil
}

func sessionFromAuthResponse(payload authResponse) (domain.Session, error) {
	if payload.AccessToken == "" {
		return domain.Session{}, errors.New("auth response missing access token")
	}

	session, err := domain.NewSession(payload.AccessToken, domain.User{
		ID:      payload.User.ID.String(),
		Name:    payload.User.Name,
		Credits: payload.User.Credits,
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("build session: %w", err)
	}

	return session, nil
}

func (c *Client) call(ctx context.Context, method, path, accessToken string, body, out any) error {
	endpoint, err := buildAPIURL(c.BaseURL, path)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return classifyError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// classifyError maps distinguished statuses onto domain sentinels and keeps
// the server-provided message for everything else.
func classifyError(statusCode int, body []byte) error {
	var payload errorResponse
	_ = json.Unmarshal(body, &payload)

	message := payload.Error
	if message == "" {
		message = fmt.Sprintf("status %d", statusCode)
	}

	switch {
	case statusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", message, domain.ErrUnauthorized)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", message, domain.ErrRateLimited)
	case statusCode == http.StatusForbidden || mentionsCredits(payload.Error):
		return fmt.Errorf("%s: %w", message, domain.ErrNoCredits)
	default:
		return errors.New(message)
	}
}

func mentionsCredits(message string) bool {
	return strings.Contains(strings.ToLower(message), "credit")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	return strings.TrimRight(parsed.String(), "/") + path, nil
}
