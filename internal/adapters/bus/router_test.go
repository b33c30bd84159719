package bus

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/quizpilot/internal/protocol"
)

type recordingHandler struct {
	mu       sync.Mutex
	inflight int
	maxSeen  int
	received []protocol.Message
}

func (h *recordingHandler) HandleMessage(_ context.Context, msg protocol.Message) protocol.Response {
	h.mu.Lock()
	h.inflight++
	if h.inflight > h.maxSeen {
		h.maxSeen = h.inflight
	}
	h.received = append(h.received, msg)
	h.mu.Unlock()

	h.mu.Lock()
	h.inflight--
	h.mu.Unlock()

	return protocol.OKResponse()
}

func TestSendToAbsentContextIsNotAnError(t *testing.T) {
	t.Parallel()

	router := NewRouter(nil)

	resp, err := router.To("background").Send(context.Background(), protocol.Ping{})
	require.NoError(t, err, "an absent receiver is a normal outcome")
	assert.False(t, resp.OK)
	assert.Equal(t, "no receiver", resp.Error)
}

func TestSendDispatchesToRegisteredContext(t *testing.T) {
	t.Parallel()

	router := NewRouter(nil)
	handler := &recordingHandler{}
	router.Register("background", handler)

	resp, err := router.To("background").Send(context.Background(), protocol.TextSelected{HasSelection: true, Text: "hello"})
	require.NoError(t, err)
	assert.True(t, resp.OK)

	require.Len(t, handler.received, 1)
	selected, ok := handler.received[0].(protocol.TextSelected)
	require.True(t, ok)
	assert.Equal(t, "hello", selected.Text)
}

func TestUnregisterStopsDelivery(t *testing.T) {
	t.Parallel()

	router := NewRouter(nil)
	handler := &recordingHandler{}
	router.Register("popup", handler)
	router.Unregister("popup")

	resp, err := router.To("popup").Send(context.Background(), protocol.Ping{})
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Empty(t, handler.received)
}

func TestSendHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	router := NewRouter(nil)
	router.Register("background", &recordingHandler{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := router.To("background").Send(ctx, protocol.Ping{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentSendsRunToCompletion(t *testing.T) {
	t.Parallel()

	router := NewRouter(nil)
	handler := &recordingHandler{}
	router.Register("background", handler)
	messenger := router.To("background")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := messenger.Send(context.Background(), protocol.Ping{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, handler.received, 16)
	assert.Equal(t, 1, handler.maxSeen, "deliveries to one context never interleave")
}
