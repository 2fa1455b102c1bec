package infrastructure

import (
	"strings"
	"testing"

	"lottosim/events"

	"github.com/stretchr/testify/assert"
)

type unknownEvent struct{}

func (unknownEvent) Type() events.EventType { return "mystery" }

func TestEventSubjectMapper_RoundTrip(t *testing.T) {
	t.Parallel()

	mapper := NewEventSubjectMapper()
	seen := make(map[string]bool)
	for _, eventType := range events.AllEventTypes {
		subject, ok := mapper.subjects[eventType]
		if !assert.True(t, ok, "no subject for %s", eventType) {
			continue
		}
		assert.True(t, strings.HasPrefix(subject, "lottery."))
		assert.False(t, seen[subject], "duplicate subject %s", subject)
		seen[subject] = true
		assert.Equal(t, eventType, mapper.MapSubjectToEventType(subject))
	}
}

func TestEventSubjectMapper_Unknown(t *testing.T) {
	t.Parallel()

	mapper := NewEventSubjectMapper()
	subject := mapper.MapEventToSubject(unknownEvent{})
	assert.Equal(t, "lottery.unknown.mystery", subject)
	assert.Equal(t, events.EventType("mystery"), mapper.MapSubjectToEventType(subject))
	assert.Equal(t, []string{"lottery.>"}, mapper.GetAllSubjects())
}
