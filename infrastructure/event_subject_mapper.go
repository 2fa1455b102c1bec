package infrastructure

import (
	"fmt"
	"strings"

	"lottosim/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct {
	subjects map[events.EventType]string
}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{
		subjects: map[events.EventType]string{
			events.EventTypeTicketAdded:        "lottery.tickets.added",
			events.EventTypePortfolioCleared:   "lottery.tickets.cleared",
			events.EventTypeDrawStarted:        "lottery.draw.started",
			events.EventTypeDrawNumberRevealed: "lottery.draw.revealed",
			events.EventTypeDrawCompleted:      "lottery.draw.completed",
			events.EventTypeDrawCancelled:      "lottery.draw.cancelled",
			events.EventTypeSimulationStarted:  "lottery.simulation.started",
			events.EventTypeSimulationProgress: "lottery.simulation.progress",
			events.EventTypeSimulationFinished: "lottery.simulation.finished",
		},
	}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := m.subjects[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("lottery.unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range m.subjects {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(strings.TrimPrefix(subject, "lottery.unknown."))
}

// GetAllSubjects returns the wildcard covering every published subject
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{"lottery.>"}
}
