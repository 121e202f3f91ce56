package messaging

import (
	"context"
	"testing"
	"time"

	"decentralfund/internal/shared/events"
)

func envelope(id string, eventType string) events.Envelope {
	return events.Envelope{
		EventID:   id,
		EventType: eventType,
		EntityID:  "acct-1",
	}
}

func receive(t *testing.T, ch chan events.Envelope) events.Envelope {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event delivery")
		return events.Envelope{}
	}
}

func TestPublishReachesTopicSubscriber(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := NewBus(nil)

	got := make(chan events.Envelope, 4)
	if err := bus.Subscribe(ctx, "ledger.minted", "test", func(_ context.Context, event events.Envelope) error {
		got <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "ledger.minted", envelope("evt-1", "ledger.minted")); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := bus.Publish(ctx, "sip.plan_created", envelope("evt-2", "sip.plan_created")); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if event := receive(t, got); event.EventID != "evt-1" {
		t.Fatalf("event id = %s, want evt-1", event.EventID)
	}
	select {
	case event := <-got:
		t.Fatalf("subscriber received foreign topic event: %+v", event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscribeAllReceivesEveryTopic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := NewBus(nil)

	got := make(chan events.Envelope, 4)
	if err := bus.SubscribeAll(ctx, "event-archive", func(_ context.Context, event events.Envelope) error {
		got <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "ledger.minted", envelope("evt-1", "ledger.minted")); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := bus.Publish(ctx, "governance.finalized", envelope("evt-2", "governance.finalized")); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if event := receive(t, got); event.EventID != "evt-1" {
		t.Fatalf("event id = %s, want evt-1", event.EventID)
	}
	if event := receive(t, got); event.EventID != "evt-2" {
		t.Fatalf("event id = %s, want evt-2", event.EventID)
	}
}
