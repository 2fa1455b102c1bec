package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// DefaultQueueSize is how many droppable events a subscriber may have pending
const DefaultQueueSize = 256

// ErrBusClosed is returned when publishing to a closed bus
var ErrBusClosed = errors.New("event bus is closed")

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

type delivery struct {
	ctx   context.Context
	event Event
}

// subscriber owns an ordered queue drained by its own goroutine, so a slow
// handler only ever delays itself.
type subscriber struct {
	id        uint64
	types     map[EventType]bool
	handler   Handler
	queueSize int

	mu     sync.Mutex
	queue  []delivery
	signal chan struct{}
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once
	onExit func()
}

func (s *subscriber) wants(t EventType) bool {
	return s.types == nil || s.types[t]
}

// offer enqueues without blocking. It returns false when a droppable event
// was discarded because the subscriber is behind.
func (s *subscriber) offer(d delivery) bool {
	s.mu.Lock()
	if Droppable(d.event.Type()) && len(s.queue) >= s.queueSize {
		s.mu.Unlock()
		return false
	}
	s.queue = append(s.queue, d)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
	return true
}

func (s *subscriber) run() {
	defer close(s.done)
	if s.onExit != nil {
		defer s.onExit()
	}
	for {
		select {
		case <-s.quit:
			return
		case <-s.signal:
		}

		s.mu.Lock()
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()

		for i, d := range batch {
			select {
			case <-s.quit:
				return
			default:
			}
			s.invoke(d, i)
		}
	}
}

func (s *subscriber) invoke(d delivery, index int) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"eventType":    d.event.Type(),
				"subscriberID": s.id,
				"batchIndex":   index,
				"panic":        r,
			}).Error("Event handler panicked")
		}
	}()
	s.handler(d.ctx, d.event)
}

func (s *subscriber) stop() {
	s.once.Do(func() {
		close(s.quit)
	})
}

// Bus manages event subscriptions and dispatching. Publishing never blocks:
// each subscriber has its own queue and goroutine.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[uint64]*subscriber
	nextID      uint64
	queueSize   int
	closed      bool
	dropped     atomic.Int64
}

// BusOption customises a Bus
type BusOption func(*Bus)

// WithQueueSize sets how many droppable events a subscriber may have pending
func WithQueueSize(n int) BusOption {
	return func(b *Bus) {
		if n > 0 {
			b.queueSize = n
		}
	}
}

// NewBus creates a new event bus
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subscribers: make(map[uint64]*subscriber),
		queueSize:   DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe adds a handler for the given event types, or for every event when
// none are given. The returned func unsubscribes and waits for an in-flight
// handler call to return, so it must not be called from inside the handler.
func (b *Bus) Subscribe(handler Handler, eventTypes ...EventType) func() {
	sub := b.newSubscriber(eventTypes)
	sub.handler = handler
	b.register(sub)
	return b.unsubscribeFunc(sub)
}

// Stream delivers matching events on a channel that the caller drains on
// its own schedule. The channel is closed after the returned func is called.
func (b *Bus) Stream(buffer int, eventTypes ...EventType) (<-chan Event, func()) {
	out := make(chan Event, buffer)
	sub := b.newSubscriber(eventTypes)
	sub.handler = func(ctx context.Context, event Event) {
		select {
		case out <- event:
		case <-sub.quit:
		}
	}
	sub.onExit = func() { close(out) }
	b.register(sub)
	return out, b.unsubscribeFunc(sub)
}

func (b *Bus) newSubscriber(eventTypes []EventType) *subscriber {
	sub := &subscriber{
		queueSize: b.queueSize,
		signal:    make(chan struct{}, 1),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	if len(eventTypes) > 0 {
		sub.types = make(map[EventType]bool, len(eventTypes))
		for _, t := range eventTypes {
			sub.types[t] = true
		}
	}
	return sub
}

func (b *Bus) register(sub *subscriber) {
	b.mu.Lock()
	b.nextID++
	sub.id = b.nextID
	if b.closed {
		b.mu.Unlock()
		sub.stop()
		go sub.run()
		return
	}
	b.subscribers[sub.id] = sub
	count := len(b.subscribers)
	b.mu.Unlock()

	go sub.run()

	log.WithFields(log.Fields{
		"subscriberID":    sub.id,
		"subscriberCount": count,
	}).Debug("Subscribed handler on event bus")
}

func (b *Bus) unsubscribeFunc(sub *subscriber) func() {
	return func() {
		b.mu.Lock()
		delete(b.subscribers, sub.id)
		b.mu.Unlock()
		sub.stop()
		<-sub.done
	}
}

// Emit hands an event to every interested subscriber without blocking
func (b *Bus) Emit(ctx context.Context, event Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	targets := make([]*subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		if sub.wants(event.Type()) {
			targets = append(targets, sub)
		}
	}
	b.mu.RUnlock()

	d := delivery{ctx: ctx, event: event}
	for _, sub := range targets {
		if !sub.offer(d) {
			n := b.dropped.Add(1)
			if n%1000 == 1 {
				log.WithFields(log.Fields{
					"eventType":    event.Type(),
					"subscriberID": sub.id,
					"totalDropped": n,
				}).Warn("Subscriber is behind, dropping progress events")
			}
		}
	}
	return nil
}

// Publish emits with a background context
func (b *Bus) Publish(event Event) error {
	return b.Emit(context.Background(), event)
}

// Dropped returns how many deliveries were discarded for slow subscribers
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Close stops every subscriber and rejects further events
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.subscribers = make(map[uint64]*subscriber)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
		<-sub.done
	}
	log.WithField("subscriberCount", len(subs)).Debug("Event bus closed")
}
