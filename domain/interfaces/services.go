package interfaces

import (
	"context"

	"lottosim/domain/entities"
	"lottosim/events"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// DrawGenerator produces draws for the controller and the engine
type DrawGenerator interface {
	Generate() (entities.Draw, error)
}

// DrawController runs one animated draw at a time
type DrawController interface {
	// Start snapshots the tickets and begins revealing numbers in the background
	Start(ctx context.Context, tickets []*entities.Ticket) (runID string, err error)

	// Cancel stops the running draw; it reports false when nothing was running
	Cancel() bool

	// State returns the current lifecycle state
	State() entities.DrawState

	// Wait blocks until the current run ends or ctx is done
	Wait(ctx context.Context) error

	// LastResult returns the result of the last completed draw, if any
	LastResult() *entities.DrawResult
}

// SimulationEngine runs one Monte-Carlo simulation at a time
type SimulationEngine interface {
	// Start snapshots the tickets and runs trials in the background
	Start(ctx context.Context, tickets []*entities.Ticket, cfg entities.SimulationConfig) (runID string, err error)

	// Cancel stops the running simulation at the next trial boundary
	Cancel() bool

	// State returns the current lifecycle state
	State() entities.SimulationState

	// Snapshot returns the aggregates of the current or last run
	Snapshot() entities.SimulationSnapshot

	// History returns up to limit of the most recent trials, oldest first
	History(limit int) []entities.TrialRecord

	// ClearHistory drops the kept trials and zeroes the counters
	ClearHistory() error

	// Wait blocks until the current run ends and returns its summary
	Wait(ctx context.Context) (*entities.SimulationSummary, error)

	// LastSummary returns the summary of the last finished run, if any
	LastSummary() *entities.SimulationSummary
}
