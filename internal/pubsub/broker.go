package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 64

// Broker is a generic pub/sub event broker.
// It allows multiple subscribers to receive events published by publishers.
//
// A broker created with NewLatestBroker conflates events: each subscriber
// holds at most one pending event, a newer publish replaces an undelivered
// older one, and new subscribers immediately receive the most recent event.
type Broker[T any] struct {
	subs       map[chan Event[T]]struct{}
	mu         sync.RWMutex
	done       chan struct{}
	bufferSize int
	latest     bool
	last       *Event[T]
}

// NewBroker creates a new broker with the default buffer size (64).
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a new broker with a custom buffer size.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:       make(map[chan Event[T]]struct{}),
		done:       make(chan struct{}),
		bufferSize: size,
	}
}

// NewLatestBroker creates a broker with latest-value semantics.
// Slow subscribers only ever see the newest event, never a backlog.
func NewLatestBroker[T any]() *Broker[T] {
	b := NewBrokerWithBuffer[T](1)
	b.latest = true
	return b
}

// Subscribe creates a new subscription channel.
// The channel is automatically closed when ctx is cancelled.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		ch := make(chan Event[T], 1)
		if b.latest && b.last != nil {
			ch <- *b.last
		}
		close(ch)
		return ch
	default:
	}

	sub := make(chan Event[T], b.bufferSize)
	if b.latest && b.last != nil {
		sub <- *b.last
	}
	b.subs[sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()

		if _, ok := b.subs[sub]; !ok {
			return
		}
		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

// Publish sends an event to all subscribers.
// Non-blocking: a full subscriber channel drops the event, or, for a latest
// broker, has its pending event replaced.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	// Write lock: latest brokers mutate b.last and drain subscriber buffers.
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		return
	default:
	}

	event := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	if b.latest {
		b.last = &event
	}

	for sub := range b.subs {
		select {
		case sub <- event:
			continue
		default:
		}
		if !b.latest {
			continue
		}
		// Replace the stale pending event.
		select {
		case <-sub:
		default:
		}
		select {
		case sub <- event:
		default:
		}
	}
}

// Last returns the most recently published event of a latest broker.
func (b *Broker[T]) Last() (Event[T], bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.last == nil {
		return Event[T]{}, false
	}
	return *b.last, true
}

// Close shuts down the broker and all subscriber channels.
// Pending events stay readable until each channel is drained.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		return
	default:
	}

	close(b.done)
	for sub := range b.subs {
		close(sub)
	}
	b.subs = make(map[chan Event[T]]struct{})
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
