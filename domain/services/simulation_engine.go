package services

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"lottosim/domain/entities"
	"lottosim/domain/interfaces"
	"lottosim/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// DefaultTrialPause is the cooperative pause between simulated draws
const DefaultTrialPause = time.Millisecond

// SimulationOptions tunes a simulation engine
type SimulationOptions struct {
	// TrialPause is slept between trials; zero only yields the processor
	TrialPause time.Duration
	// HistoryLimit caps the kept trials, DefaultHistoryLimit when zero
	HistoryLimit int
}

// simulationEngine draws repeatedly against a fixed portfolio
type simulationEngine struct {
	sessionID string
	generator interfaces.DrawGenerator
	publisher interfaces.EventPublisher
	pause     time.Duration

	mu        sync.Mutex
	state     entities.SimulationState
	finishing bool
	cancel    context.CancelFunc
	done      chan struct{}
	snapshot  entities.SimulationSnapshot
	history   *History
	last      *entities.SimulationSummary
}

// NewSimulationEngine creates a Monte-Carlo engine for a session
func NewSimulationEngine(
	sessionID string,
	generator interfaces.DrawGenerator,
	publisher interfaces.EventPublisher,
	opts SimulationOptions,
) interfaces.SimulationEngine {
	return &simulationEngine{
		sessionID: sessionID,
		generator: generator,
		publisher: publisher,
		pause:     opts.TrialPause,
		state:     entities.SimulationIdle,
		history:   NewHistory(opts.HistoryLimit),
		snapshot:  entities.SimulationSnapshot{CostPerTrial: decimal.Zero, TotalCost: decimal.Zero},
	}
}

// Start validates the request, resets the aggregates and runs trials in the background
func (e *simulationEngine) Start(ctx context.Context, tickets []*entities.Ticket, cfg entities.SimulationConfig) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("failed to start simulation: %w", err)
	}
	if len(tickets) == 0 {
		return "", fmt.Errorf("failed to start simulation: %w", entities.ErrEmptyPortfolio)
	}

	snapshot := slices.Clone(tickets)
	totals := entities.TotalsOf(snapshot)

	e.mu.Lock()
	if e.state == entities.SimulationRunning {
		e.mu.Unlock()
		return "", fmt.Errorf("failed to start simulation: %w", entities.ErrAlreadyRunning)
	}

	runCtx, cancel := context.WithCancel(ctx)
	runID := uuid.New().String()
	done := make(chan struct{})
	e.state = entities.SimulationRunning
	e.finishing = false
	e.cancel = cancel
	e.done = done
	e.last = nil
	e.history.Reset()
	e.snapshot = entities.SimulationSnapshot{
		RunID:        runID,
		State:        entities.SimulationRunning,
		CostPerTrial: totals.Price,
		TotalCost:    decimal.Zero,
	}
	e.mu.Unlock()

	log.WithFields(log.Fields{
		"session_id":     e.sessionID,
		"run_id":         runID,
		"ticket_count":   totals.Count,
		"cost_per_trial": totals.Price.StringFixed(2),
		"max_trials":     cfg.MaxTrials,
		"stop_tiers":     cfg.StopTiers.String(),
	}).Info("Simulation started")

	e.publish(events.SimulationStartedEvent{
		SessionID: e.sessionID,
		RunID:     runID,
		Config:    cfg,
		Portfolio: totals,
	})

	go e.run(runCtx, cancel, done, runID, snapshot, totals, cfg)
	return runID, nil
}

func (e *simulationEngine) run(
	ctx context.Context,
	cancel context.CancelFunc,
	done chan struct{},
	runID string,
	tickets []*entities.Ticket,
	totals entities.PortfolioTotals,
	cfg entities.SimulationConfig,
) {
	defer close(done)
	defer cancel()

	started := time.Now()
	var (
		trials    int64
		best      int
		counts    entities.TierCounts
		histogram [7]int64
	)

	for {
		if ctx.Err() != nil {
			e.finish(entities.SimulationCancelled, entities.TierNone, cfg, totals, nil)
			return
		}

		draw, err := e.generator.Generate()
		if err != nil {
			e.finish(entities.SimulationFailed, entities.TierNone, cfg, totals, fmt.Errorf("failed to generate draw: %w", err))
			return
		}
		trials++

		matches := make([]int, len(tickets))
		trialBest := 0
		trigger := entities.TierNone
		for i, t := range tickets {
			m := t.Matches(draw)
			matches[i] = m
			histogram[m]++
			tier := entities.TierFor(m)
			counts.Inc(tier)
			if m > trialBest {
				trialBest = m
			}
			if cfg.StopTiers.Has(tier) && tier > trigger {
				trigger = tier
			}
		}
		if trialBest > best {
			best = trialBest
		}

		record := entities.TrialRecord{
			Index:   trials,
			Draw:    draw.Sorted(),
			Matches: matches,
			Best:    trialBest,
			Tier:    entities.TierFor(trialBest),
		}
		snap := entities.SimulationSnapshot{
			RunID:           runID,
			State:           entities.SimulationRunning,
			TrialsCompleted: trials,
			BestMatchEver:   best,
			TierCounts:      counts,
			MatchHistogram:  histogram,
			CostPerTrial:    totals.Price,
			TotalCost:       totals.Price.Mul(decimal.NewFromInt(trials)),
			Elapsed:         time.Since(started),
			LastTrial:       &record,
		}

		e.mu.Lock()
		e.snapshot = snap
		e.history.Add(record)
		e.mu.Unlock()

		e.publish(events.SimulationProgressEvent{SessionID: e.sessionID, Snapshot: snap})

		if trigger != entities.TierNone {
			e.finish(entities.SimulationStoppedByCondition, trigger, cfg, totals, nil)
			return
		}
		if cfg.MaxTrials > 0 && trials >= cfg.MaxTrials {
			e.finish(entities.SimulationStoppedByBudget, entities.TierNone, cfg, totals, nil)
			return
		}

		e.yield(ctx)
	}
}

func (e *simulationEngine) yield(ctx context.Context) {
	if e.pause <= 0 {
		runtime.Gosched()
		return
	}
	timer := time.NewTimer(e.pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// finish publishes the summary while the engine still reports Running, so a
// new run cannot start until the old run's terminal event is out.
func (e *simulationEngine) finish(state entities.SimulationState, trigger entities.Tier, cfg entities.SimulationConfig, totals entities.PortfolioTotals, runErr error) {
	e.mu.Lock()
	e.finishing = true
	e.snapshot.State = state
	summary := entities.Summarize(e.snapshot, cfg, trigger, totals)
	if runErr != nil {
		summary.Error = runErr.Error()
	}
	e.last = &summary
	e.mu.Unlock()

	fields := log.Fields{
		"session_id":   e.sessionID,
		"run_id":       summary.RunID,
		"state":        state.String(),
		"trials":       summary.TrialsCompleted,
		"best_match":   summary.BestMatchEver,
		"quadras":      summary.TierCounts.Quadra,
		"quinas":       summary.TierCounts.Quina,
		"senas":        summary.TierCounts.Sena,
		"total_cost":   summary.TotalCost.StringFixed(2),
		"trigger_tier": trigger.String(),
	}
	if runErr != nil {
		log.WithError(runErr).WithFields(fields).Error("Simulation failed")
	} else {
		log.WithFields(fields).Info("Simulation finished")
	}

	e.publish(events.SimulationFinishedEvent{SessionID: e.sessionID, Summary: summary})

	e.mu.Lock()
	e.state = state
	e.finishing = false
	e.mu.Unlock()
}

// Cancel asks the running simulation to stop at the next trial boundary
func (e *simulationEngine) Cancel() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != entities.SimulationRunning || e.finishing {
		return false
	}
	e.cancel()
	return true
}

func (e *simulationEngine) State() entities.SimulationState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *simulationEngine) Snapshot() entities.SimulationSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

func (e *simulationEngine) History(limit int) []entities.TrialRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Recent(limit)
}

// ClearHistory drops kept trials and zeroes the counters of the last run
func (e *simulationEngine) ClearHistory() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == entities.SimulationRunning {
		return fmt.Errorf("failed to clear history: %w", entities.ErrAlreadyRunning)
	}
	e.history.Reset()
	e.snapshot = entities.SimulationSnapshot{
		State:        e.state,
		CostPerTrial: decimal.Zero,
		TotalCost:    decimal.Zero,
	}
	e.last = nil
	return nil
}

func (e *simulationEngine) Wait(ctx context.Context) (*entities.SimulationSummary, error) {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return e.LastSummary(), nil
}

func (e *simulationEngine) LastSummary() *entities.SimulationSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

func (e *simulationEngine) publish(ev events.Event) {
	if err := e.publisher.Publish(ev); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"session_id": e.sessionID,
			"event_type": ev.Type(),
		}).Warn("Failed to publish simulation event")
	}
}
