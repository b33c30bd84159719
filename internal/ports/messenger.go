package ports

import (
	"context"

	"github.com/bnema/quizpilot/internal/protocol"
)

// Messenger sends a message to another context and waits for its reply.
// A send to a context that is no longer listening returns a non-OK response
// with a nil error: the receiver may have been torn down at any time and
// that is a normal outcome, not a failure.
type Messenger interface {
	Send(ctx context.Context, msg protocol.Message) (protocol.Response, error)
}

// MessageHandler is implemented by contexts that receive messages. Handlers
// run to completion: the transport never interleaves two messages for the
// same receiver.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg protocol.Message) protocol.Response
}
