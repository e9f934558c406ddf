// Package event provides an ordered, unbounded fan-out feed. Every value
// sent is delivered to each subscriber exactly once and in send order; slow
// subscribers never block senders and never lose values.
package event

import (
	"context"
	"sync"
)

// Feed fans values out to subscribers. The zero value is ready to use.
type Feed[T any] struct {
	mu   sync.Mutex
	subs map[*subscription[T]]struct{}
}

type subscription[T any] struct {
	mu    sync.Mutex
	queue []T
	wake  chan struct{}
	out   chan T
}

// Send enqueues v for every current subscriber. Concurrent Sends are
// serialized, so all subscribers observe the same order.
func (f *Feed[T]) Send(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for s := range f.subs {
		s.push(v)
	}
}

// Subscribe registers a subscriber and returns its channel along with a
// cancel func. The initial values are queued ahead of anything sent after
// Subscribe returns. The channel is closed once ctx is done or cancel is
// called.
func (f *Feed[T]) Subscribe(ctx context.Context, initial ...T) (<-chan T, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	s := &subscription[T]{
		wake: make(chan struct{}, 1),
		out:  make(chan T),
	}

	f.mu.Lock()
	if f.subs == nil {
		f.subs = make(map[*subscription[T]]struct{})
	}
	for _, v := range initial {
		s.push(v)
	}
	f.subs[s] = struct{}{}
	f.mu.Unlock()

	go s.pump(ctx, func() { f.remove(s) })
	return s.out, cancel
}

// Subscribers returns the number of active subscribers.
func (f *Feed[T]) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *Feed[T]) remove(s *subscription[T]) {
	f.mu.Lock()
	delete(f.subs, s)
	f.mu.Unlock()
}

func (s *subscription[T]) push(v T) {
	s.mu.Lock()
	s.queue = append(s.queue, v)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription[T]) pump(ctx context.Context, detach func()) {
	defer close(s.out)
	defer detach()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-ctx.Done():
				return
			}
		}
		v := s.queue[0]
		var zero T
		s.queue[0] = zero
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-ctx.Done():
			return
		}
	}
}
