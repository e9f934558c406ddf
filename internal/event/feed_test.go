package event

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed unexpectedly")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestFeed_DeliversInOrder(t *testing.T) {
	var f Feed[int]
	ch, cancel := f.Subscribe(context.Background())
	defer cancel()

	// Send without reading: the queue must hold everything.
	for i := 0; i < 100; i++ {
		f.Send(i)
	}
	for i := 0; i < 100; i++ {
		if got := receive(t, ch); got != i {
			t.Fatalf("value %d: got %d", i, got)
		}
	}
}

func TestFeed_FanOut(t *testing.T) {
	var f Feed[string]
	a, cancelA := f.Subscribe(context.Background())
	defer cancelA()
	b, cancelB := f.Subscribe(context.Background())
	defer cancelB()

	f.Send("x")
	f.Send("y")

	for _, ch := range []<-chan string{a, b} {
		if got := receive(t, ch); got != "x" {
			t.Errorf("first = %q, want x", got)
		}
		if got := receive(t, ch); got != "y" {
			t.Errorf("second = %q, want y", got)
		}
	}
}

func TestFeed_InitialValuesFirst(t *testing.T) {
	var f Feed[int]
	ch, cancel := f.Subscribe(context.Background(), 1, 2)
	defer cancel()
	f.Send(3)

	for want := 1; want <= 3; want++ {
		if got := receive(t, ch); got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}
}

func TestFeed_CancelClosesChannel(t *testing.T) {
	var f Feed[int]
	ctx, stop := context.WithCancel(context.Background())
	ch, cancel := f.Subscribe(ctx)
	defer cancel()

	stop()
	select {
	case _, ok := <-ch:
		if ok {
			// A value may not be pending; any receive must be a close.
			t.Fatal("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}

	deadline := time.Now().Add(2 * time.Second)
	for f.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber not removed, have %d", f.Subscribers())
		}
		time.Sleep(5 * time.Millisecond)
	}
	f.Send(1) // must not block or panic
}
