package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"lottosim/domain/entities"
	"lottosim/domain/interfaces"
	"lottosim/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultRevealDelay is the pause before each number of a single draw
	DefaultRevealDelay = 5 * time.Second

	// matchesShownFrom is how many numbers must be out before match counts are shown
	matchesShownFrom = 4
)

// drawController reveals a draw one number at a time
type drawController struct {
	sessionID   string
	generator   interfaces.DrawGenerator
	publisher   interfaces.EventPublisher
	revealDelay time.Duration

	mu              sync.Mutex
	state           entities.DrawState
	runID           string
	cancel          context.CancelFunc
	cancelRequested bool
	finishing       bool
	done            chan struct{}
	last            *entities.DrawResult
}

// NewDrawController creates a single-draw controller for a session. A
// non-positive revealDelay reveals numbers back to back.
func NewDrawController(
	sessionID string,
	generator interfaces.DrawGenerator,
	publisher interfaces.EventPublisher,
	revealDelay time.Duration,
) interfaces.DrawController {
	return &drawController{
		sessionID:   sessionID,
		generator:   generator,
		publisher:   publisher,
		revealDelay: revealDelay,
		state:       entities.DrawIdle,
	}
}

// Start validates the portfolio, generates the draw and starts revealing it
func (c *drawController) Start(ctx context.Context, tickets []*entities.Ticket) (string, error) {
	if len(tickets) == 0 {
		return "", fmt.Errorf("failed to start draw: %w", entities.ErrEmptyPortfolio)
	}

	c.mu.Lock()
	if c.state == entities.DrawRunning {
		c.mu.Unlock()
		return "", fmt.Errorf("failed to start draw: %w", entities.ErrAlreadyRunning)
	}

	draw, err := c.generator.Generate()
	if err != nil {
		c.mu.Unlock()
		return "", fmt.Errorf("failed to generate draw: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	runID := uuid.New().String()
	done := make(chan struct{})
	c.state = entities.DrawRunning
	c.runID = runID
	c.cancel = cancel
	c.cancelRequested = false
	c.finishing = false
	c.done = done
	c.last = nil
	c.mu.Unlock()

	snapshot := slices.Clone(tickets)

	log.WithFields(log.Fields{
		"session_id":   c.sessionID,
		"run_id":       runID,
		"ticket_count": len(snapshot),
		"reveal_delay": c.revealDelay,
	}).Info("Single draw started")

	c.publish(events.DrawStartedEvent{
		SessionID:   c.sessionID,
		RunID:       runID,
		TicketCount: len(snapshot),
	})

	go c.run(runCtx, cancel, done, runID, draw, snapshot)
	return runID, nil
}

func (c *drawController) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}, runID string, draw entities.Draw, tickets []*entities.Ticket) {
	defer close(done)
	defer cancel()

	revealed := make([]int, 0, len(draw.Numbers()))
	for i, number := range draw.Numbers() {
		if !c.wait(ctx) {
			c.finish(runID, draw, tickets, revealed)
			return
		}

		revealed = append(revealed, number)
		sorted := slices.Clone(revealed)
		slices.Sort(sorted)

		ev := events.DrawNumberRevealedEvent{
			SessionID:   c.sessionID,
			RunID:       runID,
			Index:       i + 1,
			Number:      number,
			SortedSoFar: sorted,
			Waiting:     len(revealed) < matchesShownFrom,
		}
		if !ev.Waiting {
			ev.Results = entities.EvaluatePartial(tickets, revealed)
		}

		log.WithFields(log.Fields{
			"session_id": c.sessionID,
			"run_id":     runID,
			"index":      i + 1,
			"number":     number,
		}).Debug("Draw number revealed")
		c.publish(ev)
	}

	c.finish(runID, draw, tickets, revealed)
}

// wait sleeps for the reveal delay and reports false if the run was cancelled
func (c *drawController) wait(ctx context.Context) bool {
	if c.revealDelay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(c.revealDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return ctx.Err() == nil
	}
}

// finish decides the outcome under the lock so a completion can never follow
// a successful Cancel. The run stays Running until its terminal event is
// published, so a new run's events always come after it.
func (c *drawController) finish(runID string, draw entities.Draw, tickets []*entities.Ticket, revealed []int) {
	c.mu.Lock()
	cancelled := c.cancelRequested || len(revealed) < len(draw.Numbers())
	c.finishing = true
	var result *entities.DrawResult
	final := entities.DrawCancelled
	if !cancelled {
		final = entities.DrawCompleted
		result = &entities.DrawResult{
			RunID:   runID,
			Order:   draw.Numbers(),
			Sorted:  draw.Sorted(),
			Tickets: entities.EvaluateTickets(tickets, draw),
		}
		c.last = result
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.state = final
		c.finishing = false
		c.mu.Unlock()
	}()

	if cancelled {
		log.WithFields(log.Fields{
			"session_id": c.sessionID,
			"run_id":     runID,
			"revealed":   len(revealed),
		}).Info("Single draw cancelled")
		c.publish(events.DrawCancelledEvent{
			SessionID: c.sessionID,
			RunID:     runID,
			Revealed:  slices.Clone(revealed),
		})
		return
	}

	log.WithFields(log.Fields{
		"session_id": c.sessionID,
		"run_id":     runID,
		"draw":       draw.String(),
		"winners":    len(result.Winners()),
	}).Info("Single draw completed")
	c.publish(events.DrawCompletedEvent{
		SessionID: c.sessionID,
		Result:    *result,
	})
}

// Cancel asks the running draw to stop. It reports false once the outcome
// has been decided.
func (c *drawController) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != entities.DrawRunning || c.finishing {
		return false
	}
	c.cancelRequested = true
	c.cancel()
	return true
}

func (c *drawController) State() entities.DrawState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *drawController) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *drawController) LastResult() *entities.DrawResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *drawController) publish(ev events.Event) {
	if err := c.publisher.Publish(ev); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"session_id": c.sessionID,
			"event_type": ev.Type(),
		}).Warn("Failed to publish draw event")
	}
}
