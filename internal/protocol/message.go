// Package protocol defines the message shapes exchanged between the
// extension contexts. Kinds form a closed sum type: handlers switch over the
// concrete message types, so adding a kind is a compile-time visible change
// rather than a string falling through a default branch.
package protocol

type Kind string

const (
	KindPing                 Kind = "ping"
	KindTextSelected         Kind = "text_selected"
	KindAnswerRequested      Kind = "answer_requested"
	KindManualMenuRefresh    Kind = "manual_menu_refresh"
	KindOpenPopupRequested   Kind = "open_popup_requested"
	KindRefreshCredits       Kind = "refresh_credits"
	KindUpdateRateLimitTimer Kind = "update_rate_limit_timer"
)

type Message interface {
	Kind() Kind
}

// Ping verifies that the receiving context is alive.
type Ping struct{}

// TextSelected reports a selection state change from a page context.
type TextSelected struct {
	HasSelection bool
	Text         string
}

// AnswerRequested asks the orchestrator to run the answer flow for the
// given text. May be treated as fire-and-forget by the sender.
type AnswerRequested struct {
	Text string
}

// ManualMenuRefresh forces the context menu into its selection state,
// used as a recovery escape hatch when automatic detection misses one.
type ManualMenuRefresh struct{}

// OpenPopupRequested asks the host to surface the popup UI.
type OpenPopupRequested struct{}

// RefreshCreditsRequested asks the orchestrator to re-fetch the credit
// balance from the remote service.
type RefreshCreditsRequested struct{}

// UpdateRateLimitTimer announces a running rate-limit countdown to any open
// popup. Best-effort: no reply is required.
type UpdateRateLimitTimer struct {
	SecondsLeft int
}

func (Ping) Kind() Kind                 { return KindPing }
func (TextSelected) Kind() Kind         { return KindTextSelected }
func (AnswerRequested) Kind() Kind      { return KindAnswerRequested }
func (ManualMenuRefresh) Kind() Kind    { return KindManualMenuRefresh }
func (OpenPopupRequested) Kind() Kind   { return KindOpenPopupRequested }
func (RefreshCreditsRequested) Kind() Kind { return KindRefreshCredits }
func (UpdateRateLimitTimer) Kind() Kind { return KindUpdateRateLimitTimer }

// Response is the uniform reply shape for handled messages.
type Response struct {
	OK     bool
	Detail string
	Error  string
}

func OKResponse() Response {
	return Response{OK: true}
}

func ErrorResponse(message string) Response {
	return Response{OK: false, Error: message}
}
