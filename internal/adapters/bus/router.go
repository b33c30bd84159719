// Package bus is the in-process message channel between extension contexts.
package bus

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bnema/quizpilot/internal/ports"
	"github.com/bnema/quizpilot/internal/protocol"
)

// Router connects named contexts. Each registered handler owns a dispatch
// lock, so a receiving context handles one message at a time
// (run-to-completion) while different contexts stay independent.
type Router struct {
	logger *zap.Logger

	mu       sync.RWMutex
	handlers map[string]*registration
}

type registration struct {
	handler ports.MessageHandler
	// dispatchMu serializes deliveries to this context.
	dispatchMu sync.Mutex
}

func NewRouter(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Router{
		logger:   logger,
		handlers: map[string]*registration{},
	}
}

func (r *Router) Register(contextName string, handler ports.MessageHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[contextName] = &registration{handler: handler}
}

func (r *Router) Unregister(contextName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, contextName)
}

// To returns a messenger addressing one context. Sends to a context that is
// not (or no longer) registered return a non-OK response with a nil error:
// receivers are torn down at will and senders must tolerate that.
func (r *Router) To(contextName string) ports.Messenger {
	return endpoint{router: r, target: contextName}
}

type endpoint struct {
	router *Router
	target string
}

var _ ports.Messenger = endpoint{}

func (e endpoint) Send(ctx context.Context, msg protocol.Message) (protocol.Response, error) {
	if err := ctx.Err(); err != nil {
		return protocol.Response{}, err
	}

	id := uuid.NewString()

	e.router.mu.RLock()
	reg, ok := e.router.handlers[e.target]
	e.router.mu.RUnlock()

	if !ok {
		e.router.logger.Debug("message to absent context dropped",
			zap.String("id", id),
			zap.String("target", e.target),
			zap.String("kind", string(msg.Kind())))
		return protocol.Response{OK: false, Error: "no receiver"}, nil
	}

	e.router.logger.Debug("dispatching message",
		zap.String("id", id),
		zap.String("target", e.target),
		zap.String("kind", string(msg.Kind())))

	reg.dispatchMu.Lock()
	defer reg.dispatchMu.Unlock()

	return reg.handler.HandleMessage(ctx, msg), nil
}
