package testhelpers

import (
	"errors"
	"sync"

	"lottosim/domain/entities"
	"lottosim/events"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockDrawGenerator is a mock implementation of DrawGenerator
type MockDrawGenerator struct {
	mock.Mock
}

func (m *MockDrawGenerator) Generate() (entities.Draw, error) {
	args := m.Called()
	return args.Get(0).(entities.Draw), args.Error(1)
}

// RecordingPublisher keeps every published event in order
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	notify chan events.Event
}

// NewRecordingPublisher creates a recorder that also forwards events to
// Notifications, dropping them if nobody is listening.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{notify: make(chan events.Event, 1024)}
}

func (p *RecordingPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
	select {
	case p.notify <- event:
	default:
	}
	return nil
}

// Notifications streams published events
func (p *RecordingPublisher) Notifications() <-chan events.Event {
	return p.notify
}

// Events returns a copy of everything published so far
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}

// OfType returns the published events of type t
func (p *RecordingPublisher) OfType(t events.EventType) []events.Event {
	var out []events.Event
	for _, ev := range p.Events() {
		if ev.Type() == t {
			out = append(out, ev)
		}
	}
	return out
}

// Count returns how many events of type t were published
func (p *RecordingPublisher) Count(t events.EventType) int {
	return len(p.OfType(t))
}

// ErrScriptExhausted is returned by a ScriptedDrawGenerator with no fallback
var ErrScriptExhausted = errors.New("scripted draws exhausted")

// ScriptedDrawGenerator replays fixed draws, then defers to Fallback
type ScriptedDrawGenerator struct {
	mu       sync.Mutex
	draws    []entities.Draw
	Fallback func() (entities.Draw, error)
	calls    int
}

// NewScriptedDrawGenerator builds draws from number lists, panicking on invalid input
func NewScriptedDrawGenerator(draws ...[]int) *ScriptedDrawGenerator {
	g := &ScriptedDrawGenerator{}
	for _, numbers := range draws {
		d, err := entities.NewDraw(numbers)
		if err != nil {
			panic(err)
		}
		g.draws = append(g.draws, d)
	}
	return g
}

// Repeat makes the generator return the same draw forever once the script ends
func (g *ScriptedDrawGenerator) Repeat(numbers []int) *ScriptedDrawGenerator {
	d, err := entities.NewDraw(numbers)
	if err != nil {
		panic(err)
	}
	g.Fallback = func() (entities.Draw, error) { return d, nil }
	return g
}

func (g *ScriptedDrawGenerator) Generate() (entities.Draw, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if len(g.draws) > 0 {
		d := g.draws[0]
		g.draws = g.draws[1:]
		return d, nil
	}
	if g.Fallback != nil {
		return g.Fallback()
	}
	return entities.Draw{}, ErrScriptExhausted
}

// Calls returns how many draws were requested
func (g *ScriptedDrawGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// MustTicket builds a ticket or panics
func MustTicket(numbers ...int) *entities.Ticket {
	t, err := entities.NewTicket(numbers)
	if err != nil {
		panic(err)
	}
	return t
}

// DisjointTickets returns the ten six-number tickets that partition 1..60
func DisjointTickets() []*entities.Ticket {
	tickets := make([]*entities.Ticket, 0, 10)
	for start := 1; start <= 55; start += 6 {
		tickets = append(tickets, MustTicket(start, start+1, start+2, start+3, start+4, start+5))
	}
	return tickets
}

// GatedPublisher records events but holds the first event of one type until
// Release is called
type GatedPublisher struct {
	*RecordingPublisher
	gate     events.EventType
	held     chan struct{}
	release  chan struct{}
	heldOnce sync.Once
	openOnce sync.Once
}

// NewGatedPublisher creates a publisher that blocks on the first gate event
func NewGatedPublisher(gate events.EventType) *GatedPublisher {
	return &GatedPublisher{
		RecordingPublisher: NewRecordingPublisher(),
		gate:               gate,
		held:               make(chan struct{}),
		release:            make(chan struct{}),
	}
}

func (p *GatedPublisher) Publish(event events.Event) error {
	if event.Type() == p.gate {
		p.heldOnce.Do(func() { close(p.held) })
		<-p.release
	}
	return p.RecordingPublisher.Publish(event)
}

// Held is closed once a gate event is waiting
func (p *GatedPublisher) Held() <-chan struct{} {
	return p.held
}

// Release lets every held and future gate event through
func (p *GatedPublisher) Release() {
	p.openOnce.Do(func() { close(p.release) })
}
