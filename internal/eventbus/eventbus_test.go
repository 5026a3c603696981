package eventbus

import "testing"

func TestPublishSubscribe(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Publish("hello")
	if got := <-sub; got != "hello" {
		t.Fatalf("got %v", got)
	}
	b.Close()
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Close()
	b.Publish("late")
	if _, ok := <-sub; ok {
		t.Fatalf("expected closed channel")
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Unsubscribe(sub)
	b.Publish("x")
	if _, ok := <-sub; ok {
		t.Fatalf("expected closed channel after unsubscribe")
	}
	b.Close()
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	b := New()
	_ = b.Subscribe()
	// Buffer is 8; publishing more must not deadlock.
	for i := 0; i < 20; i++ {
		b.Publish(i)
	}
	b.Close()
}
