package application

import (
	"context"
	"testing"
	"time"

	"lottosim/domain/entities"
	"lottosim/events"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReporter(interval int64) (*ConsoleReporter, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return NewConsoleReporter(events.NewBus(), interval, logger), hook
}

func TestConsoleReporter_ProgressEveryInterval(t *testing.T) {
	t.Parallel()

	r, hook := newTestReporter(100)
	r.Handle(events.SimulationStartedEvent{SessionID: "s"})
	hook.Reset()

	for trial := int64(1); trial <= 350; trial++ {
		r.Handle(events.SimulationProgressEvent{
			SessionID: "s",
			Snapshot:  entities.SimulationSnapshot{TrialsCompleted: trial, TotalCost: decimal.NewFromInt(trial * 6)},
		})
	}

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "Simulation progress", entries[0].Message)
	assert.Equal(t, "100", entries[0].Data["draws"])
	assert.Equal(t, "300", entries[2].Data["draws"])
}

func TestConsoleReporter_ProgressSurvivesDroppedEvents(t *testing.T) {
	t.Parallel()

	r, hook := newTestReporter(100)
	for _, trial := range []int64{99, 205, 250, 301} {
		r.Handle(events.SimulationProgressEvent{
			SessionID: "s",
			Snapshot:  entities.SimulationSnapshot{TrialsCompleted: trial, TotalCost: decimal.Zero},
		})
	}
	assert.Len(t, hook.AllEntries(), 2)
}

func TestConsoleReporter_DrawReveal(t *testing.T) {
	t.Parallel()

	r, hook := newTestReporter(0)
	r.Handle(events.DrawNumberRevealedEvent{SessionID: "s", Index: 2, Number: 7, SortedSoFar: []int{7, 8}, Waiting: true})
	r.Handle(events.DrawNumberRevealedEvent{
		SessionID:   "s",
		Index:       4,
		Number:      3,
		SortedSoFar: []int{3, 4, 7, 8},
		Results:     []entities.TicketResult{{Position: 1, Matches: 2}},
	})

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Number drawn, waiting for more numbers", entries[0].Message)
	assert.Equal(t, "Number drawn", entries[1].Message)
	assert.Equal(t, 2, entries[1].Data["ticket_1"])
	assert.Equal(t, "3,4,7,8", entries[1].Data["so_far"])
}

func TestConsoleReporter_Summary(t *testing.T) {
	t.Parallel()

	r, hook := newTestReporter(0)
	r.Handle(events.SimulationFinishedEvent{
		SessionID: "s",
		Summary: entities.SimulationSummary{
			SimulationSnapshot: entities.SimulationSnapshot{
				State:        entities.SimulationCancelled,
				CostPerTrial: decimal.NewFromInt(6),
				TotalCost:    decimal.NewFromInt(600),
			},
		},
	})

	entries := hook.AllEntries()
	require.NotEmpty(t, entries)
	assert.Equal(t, "Result: stopped by user", entries[0].Message)
	assert.Equal(t, log.InfoLevel, entries[0].Level)
}

func TestConsoleReporter_StartSubscribes(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()
	bus := events.NewBus()
	defer bus.Close()
	r := NewConsoleReporter(bus, 0, logger)

	stop := r.Start(context.Background())
	defer stop()

	require.NoError(t, bus.Publish(events.PortfolioClearedEvent{SessionID: "s", Portfolio: events.PortfolioDraw, Removed: 3}))
	require.Eventually(t, func() bool {
		last := hook.LastEntry()
		return last != nil && last.Message == "Portfolio cleared"
	}, 2*time.Second, 5*time.Millisecond)
}
