package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"lottosim/domain/entities"
	"lottosim/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

// capturePublisher records published messages for assertions
type capturePublisher struct {
	mu       sync.Mutex
	subjects []string
	messages [][]byte
}

func (c *capturePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subjects = append(c.subjects, subject)
	c.messages = append(c.messages, data)
	return nil
}

func (c *capturePublisher) Subjects() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.subjects...)
}

func TestNATSEventPublisher_Envelope(t *testing.T) {
	t.Parallel()

	transport := &capturePublisher{}
	publisher := NewNATSEventPublisher(transport, NewEventSubjectMapper(), 100)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	publisher.now = func() time.Time { return fixed }

	event := events.DrawCancelledEvent{SessionID: "chan-1", RunID: "run-1", Revealed: []int{5, 17}}
	require.NoError(t, publisher.Publish(event))

	require.Equal(t, []string{"lottery.draw.cancelled"}, transport.Subjects())

	envelope, err := DecodeEnvelope(transport.messages[0])
	require.NoError(t, err)
	assert.Equal(t, "draw_cancelled", envelope.EventType)
	assert.Equal(t, SourceService, envelope.SourceService)
	assert.True(t, fixed.Equal(envelope.Timestamp))
	_, err = uuid.Parse(envelope.EventID)
	assert.NoError(t, err)

	var payload events.DrawCancelledEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, event, payload)
}

func TestNATSEventPublisher_ProgressSampling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		every         int64
		trials        []int64
		wantForwarded int
	}{
		{name: "disabled", every: 0, trials: []int64{1, 100, 200}, wantForwarded: 0},
		{name: "every hundred", every: 100, trials: []int64{1, 99, 100, 150, 200}, wantForwarded: 2},
		{name: "every trial", every: 1, trials: []int64{1, 2, 3}, wantForwarded: 3},
		{name: "missed boundary is made up", every: 100, trials: []int64{1, 99, 101, 150, 230, 260}, wantForwarded: 2},
		{name: "skipped buckets forward once", every: 10, trials: []int64{5, 47, 48, 51}, wantForwarded: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := &capturePublisher{}
			publisher := NewNATSEventPublisher(transport, NewEventSubjectMapper(), tt.every)
			for _, n := range tt.trials {
				event := events.SimulationProgressEvent{
					SessionID: "s",
					Snapshot:  entities.SimulationSnapshot{TrialsCompleted: n},
				}
				require.NoError(t, publisher.Publish(event))
			}
			assert.Len(t, transport.Subjects(), tt.wantForwarded)
		})
	}
}

func TestNATSEventPublisher_ProgressSamplingPerRun(t *testing.T) {
	t.Parallel()

	transport := &capturePublisher{}
	publisher := NewNATSEventPublisher(transport, NewEventSubjectMapper(), 100)
	progress := func(session string, n int64) events.SimulationProgressEvent {
		return events.SimulationProgressEvent{SessionID: session, Snapshot: entities.SimulationSnapshot{TrialsCompleted: n}}
	}

	require.NoError(t, publisher.Publish(events.SimulationStartedEvent{SessionID: "a"}))
	require.NoError(t, publisher.Publish(progress("a", 250)))
	require.NoError(t, publisher.Publish(progress("b", 120)))
	require.NoError(t, publisher.Publish(progress("a", 260)))
	require.NoError(t, publisher.Publish(events.SimulationFinishedEvent{SessionID: "a"}))
	assert.Len(t, transport.Subjects(), 4)

	// a new run starts counting from zero again
	require.NoError(t, publisher.Publish(events.SimulationStartedEvent{SessionID: "a"}))
	require.NoError(t, publisher.Publish(progress("a", 110)))
	assert.Len(t, transport.Subjects(), 6)
}

func TestNATSEventPublisher_TransportErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "generic failure", err: errors.New("connection refused"), wantErr: true},
		{name: "stream missing is ignored", err: errors.New("nats: no response from stream"), wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := new(MockMessagePublisher)
			transport.On("Publish", mock.Anything, "lottery.tickets.cleared", mock.Anything).Return(tt.err)

			publisher := NewNATSEventPublisher(transport, NewEventSubjectMapper(), 0)
			err := publisher.Publish(events.PortfolioClearedEvent{SessionID: "s", Portfolio: events.PortfolioDraw})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			transport.AssertExpectations(t)
		})
	}
}

func TestNATSEventPublisher_ForwardFromBus(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()
	defer bus.Close()

	transport := &capturePublisher{}
	publisher := NewNATSEventPublisher(transport, NewEventSubjectMapper(), 0)
	unsubscribe := Forward(bus, publisher)

	require.NoError(t, bus.Publish(events.DrawStartedEvent{SessionID: "s", RunID: "r", TicketCount: 2}))
	require.NoError(t, bus.Publish(events.SimulationProgressEvent{SessionID: "s"}))
	require.NoError(t, bus.Publish(events.DrawCancelledEvent{SessionID: "s", RunID: "r"}))

	assert.Eventually(t, func() bool {
		return len(transport.Subjects()) == 2
	}, time.Second, 5*time.Millisecond)

	unsubscribe()
	assert.Equal(t, []string{"lottery.draw.started", "lottery.draw.cancelled"}, transport.Subjects())
}

func TestForward_NoopPublisher(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()
	defer bus.Close()

	unsubscribe := Forward(bus, NewNoopEventPublisher())
	require.NoError(t, bus.Publish(events.TicketAddedEvent{SessionID: "s"}))
	unsubscribe()
	assert.Zero(t, bus.Dropped())
}

func TestDecodeEnvelope_Invalid(t *testing.T) {
	t.Parallel()

	_, err := DecodeEnvelope([]byte("not json"))
	assert.Error(t, err)

	_, err = DecodeEnvelope([]byte(`{"event_id":"x"}`))
	assert.Error(t, err)
}
