package specedit

import "testing"

func TestEventBus_DeliversToSubscriber(t *testing.T) {
	b := NewEventBus(4)
	ch := b.Subscribe()

	b.Publish(AlignerEvent{Kind: EventChunkProposed, Request: "r1", Cursor: 3})

	select {
	case ev := <-ch:
		if ev.Request != "r1" || ev.Cursor != 3 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected event to be delivered")
	}
}

func TestEventBus_DropsOnFullBufferWithoutBlocking(t *testing.T) {
	b := NewEventBus(1)
	ch := b.Subscribe()

	b.Publish(AlignerEvent{Kind: EventChunkProposed})
	b.Publish(AlignerEvent{Kind: EventChunkProposed}) // must not block

	<-ch
	select {
	case <-ch:
		t.Fatal("second event should have been dropped")
	default:
	}
}
