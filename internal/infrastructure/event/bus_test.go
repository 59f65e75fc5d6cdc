package event

import (
	"context"
	"errors"
	"testing"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []string
	fail     error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.received = append(h.received, ev.EventType())
	return h.fail
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func makeEvent(eventType string) shared.DomainEvent {
	ev := shared.NewBaseDomainEvent(eventType, "Refund", uuid.New())
	return &ev
}

func TestBusRoutesByEventType(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryBus(zap.NewNop())
	require.NoError(t, bus.Start(ctx))

	completed := &recordingHandler{types: []string{"RefundCompleted"}}
	all := &recordingHandler{}
	bus.Subscribe(completed)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(ctx, makeEvent("RefundCompleted"), makeEvent("RefundFailed")))

	assert.Equal(t, []string{"RefundCompleted"}, completed.received)
	assert.Equal(t, []string{"RefundCompleted", "RefundFailed"}, all.received)
}

func TestBusSurvivesFailingAndPanickingHandlers(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryBus(zap.NewNop())
	require.NoError(t, bus.Start(ctx))

	failing := &recordingHandler{types: []string{"RefundCompleted"}, fail: errors.New("handler error")}
	panicking := &recordingHandler{types: []string{"RefundCompleted"}, panics: true}
	healthy := &recordingHandler{types: []string{"RefundCompleted"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(ctx, makeEvent("RefundCompleted")))
	assert.Equal(t, []string{"RefundCompleted"}, healthy.received)
}

func TestBusUnsubscribe(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryBus(zap.NewNop())
	require.NoError(t, bus.Start(ctx))

	h := &recordingHandler{types: []string{"RefundCompleted"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(ctx, makeEvent("RefundCompleted")))
	assert.Empty(t, h.received)
}
