package memorybus

import "testing"

func TestBus_PublishReachesSubscribers(t *testing.T) {
	b := New()
	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel1()
	defer cancel2()

	b.Publish("run.started", []byte(`{"runId":"x"}`))

	e1 := <-ch1
	e2 := <-ch2
	if e1.Topic != "run.started" || e2.Topic != "run.started" {
		t.Fatalf("topic: want %q, got %q / %q", "run.started", e1.Topic, e2.Topic)
	}
	if string(e1.Payload) != `{"runId":"x"}` {
		t.Fatalf("payload: want %s, got %s", `{"runId":"x"}`, e1.Payload)
	}
}

func TestBus_CancelClosesChannel(t *testing.T) {
	b := New()
	ch, cancel := b.Subscribe()
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after cancel")
	}
	if got := b.Subscribers(); got != 0 {
		t.Fatalf("subscribers: want 0, got %d", got)
	}
	b.Publish("run.started", nil)
}

func TestBus_SlowSubscriberDropsEvents(t *testing.T) {
	b := New()
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		b.Publish("watcher.seeded", nil)
	}
	if got := len(ch); got != subscriberBuffer {
		t.Fatalf("buffered events: want %d, got %d", subscriberBuffer, got)
	}
}

func TestBus_Close(t *testing.T) {
	b := New()
	ch, cancel := b.Subscribe()
	b.Close()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after Close")
	}
	late, _ := b.Subscribe()
	if _, ok := <-late; ok {
		t.Fatalf("subscribe after Close should return a closed channel")
	}
}
