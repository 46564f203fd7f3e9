package messaging

import (
	"context"
	"testing"
	"time"

	"aimarket/contexts/asset-exchange/model-marketplace/ports"

	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToTopicSubscribers(t *testing.T) {
	bus, err := NewKafka([]string{"localhost:9092"}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	require.NoError(t, bus.Subscribe(ctx, ports.EventTypeTokenMinted, "test-cg", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, ports.EventTypeTokenListed, ports.EventEnvelope{EventID: "other"}))
	require.NoError(t, bus.Publish(ctx, ports.EventTypeTokenMinted, ports.EventEnvelope{EventID: "evt-1"}))

	select {
	case event := <-received:
		require.Equal(t, "evt-1", event.EventID)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestSubscriberRemovedOnCancel(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Subscribe(ctx, "topic", "cg", func(context.Context, ports.EventEnvelope) error { return nil }))
	cancel()

	require.Eventually(t, func() bool {
		bus.mu.RLock()
		defer bus.mu.RUnlock()
		return len(bus.subscribers["topic"]) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
