package application

import (
	"context"
	"testing"
	"time"

	"lottosim/domain/entities"
	"lottosim/domain/random"
	"lottosim/domain/testhelpers"
	"lottosim/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(publisher *testhelpers.RecordingPublisher) *Session {
	return NewSession("channel-1", random.NewSeeded(1), publisher, SessionConfig{})
}

func TestSession_AddTicket(t *testing.T) {
	t.Parallel()

	publisher := testhelpers.NewRecordingPublisher()
	s := newTestSession(publisher)

	ticket, position, err := s.AddTicket(events.PortfolioDraw, []int{6, 5, 4, 3, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, position)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ticket.Numbers())

	_, _, err = s.AddTicket(events.PortfolioDraw, []int{1, 2, 3})
	assert.ErrorIs(t, err, entities.ErrInvalidTicketSize)

	_, _, err = s.AddTicket(events.PortfolioKind("other"), []int{1, 2, 3, 4, 5, 6})
	assert.Error(t, err)

	draws, err := s.Portfolio(events.PortfolioDraw)
	require.NoError(t, err)
	sims, err := s.Portfolio(events.PortfolioSimulation)
	require.NoError(t, err)
	assert.Equal(t, 1, draws.Len())
	assert.Equal(t, 0, sims.Len())

	added := publisher.OfType(events.EventTypeTicketAdded)
	require.Len(t, added, 1)
	ev := added[0].(events.TicketAddedEvent)
	assert.Equal(t, "channel-1", ev.SessionID)
	assert.True(t, decimal.NewFromInt(6).Equal(ev.Price))
}

func TestSession_AddRandomTicket(t *testing.T) {
	t.Parallel()

	s := newTestSession(testhelpers.NewRecordingPublisher())

	ticket, _, err := s.AddRandomTicket(events.PortfolioSimulation, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ticket.Size(), 6)
	assert.LessOrEqual(t, ticket.Size(), 15)

	ticket, position, err := s.AddRandomTicket(events.PortfolioSimulation, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, ticket.Size())
	assert.Equal(t, 2, position)

	_, _, err = s.AddRandomTicket(events.PortfolioSimulation, 21)
	assert.ErrorIs(t, err, entities.ErrInvalidTicketSize)
}

func TestSession_ClearTickets(t *testing.T) {
	t.Parallel()

	publisher := testhelpers.NewRecordingPublisher()
	s := newTestSession(publisher)
	_, _, err := s.AddTicket(events.PortfolioSimulation, []int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	removed, err := s.ClearTickets(events.PortfolioSimulation)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.StartSimulation(context.Background(), entities.DefaultSimulationConfig())
	assert.ErrorIs(t, err, entities.ErrEmptyPortfolio)

	cleared := publisher.OfType(events.EventTypePortfolioCleared)
	require.Len(t, cleared, 1)
	assert.Equal(t, 1, cleared[0].(events.PortfolioClearedEvent).Removed)
}

func TestSession_DrawAndSimulationUseOwnPortfolios(t *testing.T) {
	t.Parallel()

	s := newTestSession(testhelpers.NewRecordingPublisher())
	_, _, err := s.AddTicket(events.PortfolioSimulation, []int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	_, err = s.StartDraw(context.Background())
	assert.ErrorIs(t, err, entities.ErrEmptyPortfolio)

	_, err = s.StartSimulation(context.Background(), entities.SimulationConfig{MaxTrials: 50})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	summary, err := s.Simulation().Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, int64(50), summary.TrialsCompleted)
	assert.Equal(t, 1, summary.Portfolio.Count)
}

func TestSession_Close(t *testing.T) {
	t.Parallel()

	s := NewSession("c", random.NewSeeded(2), testhelpers.NewRecordingPublisher(), SessionConfig{
		RevealDelay: time.Hour,
		TrialPause:  time.Millisecond,
	})
	_, _, err := s.AddTicket(events.PortfolioDraw, []int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	_, _, err = s.AddTicket(events.PortfolioSimulation, []int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	_, err = s.StartDraw(context.Background())
	require.NoError(t, err)
	_, err = s.StartSimulation(context.Background(), entities.SimulationConfig{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Close(ctx))

	assert.Equal(t, entities.DrawCancelled, s.Draws().State())
	assert.Equal(t, entities.SimulationCancelled, s.Simulation().State())
}

func TestSessionManager(t *testing.T) {
	t.Parallel()

	m := NewSessionManager(random.NewSeeded(3), testhelpers.NewRecordingPublisher(), SessionConfig{})

	_, ok := m.Lookup("a")
	assert.False(t, ok)

	a := m.Get("a")
	assert.Same(t, a, m.Get("a"))
	assert.NotSame(t, a, m.Get("b"))
	assert.Equal(t, 2, m.Len())

	found, ok := m.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, "b", found.ID())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m.CloseAll(ctx)
}
