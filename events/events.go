package events

import (
	"github.com/shopspring/decimal"

	"lottosim/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeTicketAdded        EventType = "ticket_added"
	EventTypePortfolioCleared   EventType = "portfolio_cleared"
	EventTypeDrawStarted        EventType = "draw_started"
	EventTypeDrawNumberRevealed EventType = "draw_number_revealed"
	EventTypeDrawCompleted      EventType = "draw_completed"
	EventTypeDrawCancelled      EventType = "draw_cancelled"
	EventTypeSimulationStarted  EventType = "simulation_started"
	EventTypeSimulationProgress EventType = "simulation_progress"
	EventTypeSimulationFinished EventType = "simulation_finished"
)

// AllEventTypes lists every event type the application emits
var AllEventTypes = []EventType{
	EventTypeTicketAdded,
	EventTypePortfolioCleared,
	EventTypeDrawStarted,
	EventTypeDrawNumberRevealed,
	EventTypeDrawCompleted,
	EventTypeDrawCancelled,
	EventTypeSimulationStarted,
	EventTypeSimulationProgress,
	EventTypeSimulationFinished,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// Droppable events may be discarded when a subscriber falls behind; a newer
// one of the same kind supersedes them.
func Droppable(t EventType) bool {
	return t == EventTypeSimulationProgress
}

// PortfolioKind tells the manual draw portfolio from the simulation one
type PortfolioKind string

const (
	PortfolioDraw       PortfolioKind = "draw"
	PortfolioSimulation PortfolioKind = "simulation"
)

// TicketAddedEvent is emitted when a ticket joins a portfolio
type TicketAddedEvent struct {
	SessionID   string          `json:"session_id"`
	Portfolio   PortfolioKind   `json:"portfolio"`
	Position    int             `json:"position"`
	Numbers     []int           `json:"numbers"`
	Price       decimal.Decimal `json:"price"`
	Probability float64         `json:"probability"`
}

func (e TicketAddedEvent) Type() EventType {
	return EventTypeTicketAdded
}

// PortfolioClearedEvent is emitted when a portfolio is emptied
type PortfolioClearedEvent struct {
	SessionID string        `json:"session_id"`
	Portfolio PortfolioKind `json:"portfolio"`
	Removed   int           `json:"removed"`
}

func (e PortfolioClearedEvent) Type() EventType {
	return EventTypePortfolioCleared
}

// DrawStartedEvent marks the beginning of an animated draw
type DrawStartedEvent struct {
	SessionID   string `json:"session_id"`
	RunID       string `json:"run_id"`
	TicketCount int    `json:"ticket_count"`
}

func (e DrawStartedEvent) Type() EventType {
	return EventTypeDrawStarted
}

// DrawNumberRevealedEvent carries one revealed number. Results stay empty
// and Waiting is set until at least four numbers are out.
type DrawNumberRevealedEvent struct {
	SessionID   string                  `json:"session_id"`
	RunID       string                  `json:"run_id"`
	Index       int                     `json:"index"`
	Number      int                     `json:"number"`
	SortedSoFar []int                   `json:"sorted_so_far"`
	Waiting     bool                    `json:"waiting"`
	Results     []entities.TicketResult `json:"results,omitempty"`
}

func (e DrawNumberRevealedEvent) Type() EventType {
	return EventTypeDrawNumberRevealed
}

// DrawCompletedEvent carries the final draw report
type DrawCompletedEvent struct {
	SessionID string              `json:"session_id"`
	Result    entities.DrawResult `json:"result"`
}

func (e DrawCompletedEvent) Type() EventType {
	return EventTypeDrawCompleted
}

// DrawCancelledEvent is emitted instead of a completion when a draw is stopped
type DrawCancelledEvent struct {
	SessionID string `json:"session_id"`
	RunID     string `json:"run_id"`
	Revealed  []int  `json:"revealed"`
}

func (e DrawCancelledEvent) Type() EventType {
	return EventTypeDrawCancelled
}

// SimulationStartedEvent marks the beginning of a Monte-Carlo run
type SimulationStartedEvent struct {
	SessionID string                    `json:"session_id"`
	RunID     string                    `json:"run_id"`
	Config    entities.SimulationConfig `json:"config"`
	Portfolio entities.PortfolioTotals  `json:"portfolio"`
}

func (e SimulationStartedEvent) Type() EventType {
	return EventTypeSimulationStarted
}

// SimulationProgressEvent is emitted after every trial
type SimulationProgressEvent struct {
	SessionID string                      `json:"session_id"`
	Snapshot  entities.SimulationSnapshot `json:"snapshot"`
}

func (e SimulationProgressEvent) Type() EventType {
	return EventTypeSimulationProgress
}

// SimulationFinishedEvent is emitted once per run whatever the reason it stopped
type SimulationFinishedEvent struct {
	SessionID string                     `json:"session_id"`
	Summary   entities.SimulationSummary `json:"summary"`
}

func (e SimulationFinishedEvent) Type() EventType {
	return EventTypeSimulationFinished
}
