package application

import (
	"context"
	"strings"
	"sync"

	"lottosim/events"
	"lottosim/report"

	log "github.com/sirupsen/logrus"
)

// DefaultProgressInterval is how many trials pass between progress log lines
const DefaultProgressInterval = 100

// ConsoleReporter writes session activity to the log
type ConsoleReporter struct {
	bus      *events.Bus
	interval int64
	logger   log.FieldLogger

	mu         sync.Mutex
	lastBucket map[string]int64
}

// NewConsoleReporter creates a reporter logging progress every interval trials
func NewConsoleReporter(bus *events.Bus, interval int64, logger log.FieldLogger) *ConsoleReporter {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &ConsoleReporter{
		bus:        bus,
		interval:   interval,
		logger:     logger,
		lastBucket: make(map[string]int64),
	}
}

// Start subscribes to the bus and returns the cleanup function
func (r *ConsoleReporter) Start(ctx context.Context) func() {
	unsubscribe := r.bus.Subscribe(func(ctx context.Context, event events.Event) {
		r.Handle(event)
	})
	r.logger.Debug("Console reporter started")
	return unsubscribe
}

// Handle logs a single event
func (r *ConsoleReporter) Handle(event events.Event) {
	switch ev := event.(type) {
	case events.TicketAddedEvent:
		r.logger.WithFields(log.Fields{
			"session_id":  ev.SessionID,
			"portfolio":   ev.Portfolio,
			"position":    ev.Position,
			"numbers":     formatInts(ev.Numbers),
			"price":       report.FormatMoney(ev.Price),
			"probability": report.FormatProbability(ev.Probability),
		}).Info("Ticket added")

	case events.PortfolioClearedEvent:
		r.logger.WithFields(log.Fields{
			"session_id": ev.SessionID,
			"portfolio":  ev.Portfolio,
			"removed":    ev.Removed,
		}).Info("Portfolio cleared")

	case events.DrawNumberRevealedEvent:
		entry := r.logger.WithFields(log.Fields{
			"session_id": ev.SessionID,
			"index":      ev.Index,
			"number":     ev.Number,
			"so_far":     formatInts(ev.SortedSoFar),
		})
		if ev.Waiting {
			entry.Info("Number drawn, waiting for more numbers")
			return
		}
		for _, result := range ev.Results {
			entry = entry.WithField(ticketKey(result.Position), result.Matches)
		}
		entry.Info("Number drawn")

	case events.DrawCompletedEvent:
		r.logger.WithFields(log.Fields{
			"session_id": ev.SessionID,
			"draw":       formatInts(ev.Result.Sorted),
		}).Info("Draw result")
		for _, result := range ev.Result.Tickets {
			r.logger.WithFields(log.Fields{
				"session_id": ev.SessionID,
				"ticket":     result.Position,
				"numbers":    formatInts(result.Numbers),
			}).Info(report.MatchLabel(result.Matches))
		}

	case events.DrawCancelledEvent:
		r.logger.WithFields(log.Fields{
			"session_id": ev.SessionID,
			"revealed":   formatInts(ev.Revealed),
		}).Info("Draw stopped")

	case events.SimulationStartedEvent:
		r.mu.Lock()
		r.lastBucket[ev.SessionID] = 0
		r.mu.Unlock()
		r.logger.WithFields(log.Fields{
			"session_id":    ev.SessionID,
			"tickets":       ev.Portfolio.Count,
			"cost_per_draw": report.FormatMoney(ev.Portfolio.Price),
			"probability":   report.FormatProbability(ev.Portfolio.Probability),
			"stop_tiers":    ev.Config.StopTiers.String(),
			"max_draws":     ev.Config.MaxTrials,
		}).Info("Simulation started")

	case events.SimulationProgressEvent:
		bucket := ev.Snapshot.TrialsCompleted / r.interval
		r.mu.Lock()
		due := bucket > r.lastBucket[ev.SessionID]
		if due {
			r.lastBucket[ev.SessionID] = bucket
		}
		r.mu.Unlock()
		if !due {
			return
		}
		r.logger.WithFields(log.Fields{
			"session_id": ev.SessionID,
			"draws":      report.FormatCount(ev.Snapshot.TrialsCompleted),
			"best":       ev.Snapshot.BestMatchEver,
			"quadras":    ev.Snapshot.TierCounts.Quadra,
			"quinas":     ev.Snapshot.TierCounts.Quina,
			"senas":      ev.Snapshot.TierCounts.Sena,
			"spent":      report.FormatMoney(ev.Snapshot.TotalCost),
		}).Info("Simulation progress")

	case events.SimulationFinishedEvent:
		r.mu.Lock()
		delete(r.lastBucket, ev.SessionID)
		r.mu.Unlock()
		for _, line := range report.SummaryLines(ev.Summary) {
			r.logger.WithField("session_id", ev.SessionID).Info(line)
		}
	}
}

func formatInts(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = report.FormatCount(int64(n))
	}
	return strings.Join(parts, ",")
}

func ticketKey(position int) string {
	return "ticket_" + report.FormatCount(int64(position))
}
