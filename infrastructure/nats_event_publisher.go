package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"lottosim/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// SourceService identifies this process in published envelopes
const SourceService = "lottosim"

// EventEnvelope wraps every event published to NATS
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventPublisher implements the EventPublisher interface using NATS
type NATSEventPublisher struct {
	transport     MessagePublisher
	subjectMapper *EventSubjectMapper
	// progressEvery forwards one progress event per this many trials; 0 forwards none
	progressEvery int64
	now           func() time.Time

	mu         sync.Mutex
	lastBucket map[string]int64
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(transport MessagePublisher, subjectMapper *EventSubjectMapper, progressEvery int64) *NATSEventPublisher {
	return &NATSEventPublisher{
		transport:     transport,
		subjectMapper: subjectMapper,
		progressEvery: progressEvery,
		now:           time.Now,
		lastBucket:    make(map[string]int64),
	}
}

// Publish publishes an event to NATS using the appropriate subject
func (p *NATSEventPublisher) Publish(event events.Event) error {
	if !p.shouldForward(event) {
		return nil
	}

	subject := p.subjectMapper.MapEventToSubject(event)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     p.now().UTC(),
		SourceService: SourceService,
		Payload:       payload,
	}

	envelopeData, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := p.transport.Publish(context.Background(), subject, envelopeData); err != nil {
		if strings.Contains(err.Error(), "no response from stream") {
			return nil
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")

	return nil
}

// shouldForward samples progress by trial bucket, so a dropped boundary event
// is made up by the next one that crosses into a new bucket
func (p *NATSEventPublisher) shouldForward(event events.Event) bool {
	switch ev := event.(type) {
	case events.SimulationStartedEvent:
		p.mu.Lock()
		p.lastBucket[ev.SessionID] = 0
		p.mu.Unlock()
	case events.SimulationFinishedEvent:
		p.mu.Lock()
		delete(p.lastBucket, ev.SessionID)
		p.mu.Unlock()
	case events.SimulationProgressEvent:
		if p.progressEvery <= 0 {
			return false
		}
		bucket := ev.Snapshot.TrialsCompleted / p.progressEvery
		p.mu.Lock()
		defer p.mu.Unlock()
		if bucket <= p.lastBucket[ev.SessionID] {
			return false
		}
		p.lastBucket[ev.SessionID] = bucket
	}
	return true
}

// EnsureLotteryEventStream ensures the lottery event stream exists with the correct subjects
func EnsureLotteryEventStream(client *NATSClient, subjectMapper *EventSubjectMapper) error {
	return client.EnsureStream(LotteryStreamName, subjectMapper.GetAllSubjects())
}

// DecodeEnvelope parses an envelope received from NATS
func DecodeEnvelope(data []byte) (*EventEnvelope, error) {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}
	if envelope.EventType == "" {
		return nil, fmt.Errorf("event envelope has no event type")
	}
	return &envelope, nil
}
