package infrastructure

import (
	"context"

	"lottosim/domain/interfaces"
	"lottosim/events"

	log "github.com/sirupsen/logrus"
)

// Forward subscribes publisher to every event on the bus and returns the
// unsubscribe function. Publish failures are logged and never reach the
// session that emitted the event.
func Forward(bus *events.Bus, publisher interfaces.EventPublisher) func() {
	return bus.Subscribe(func(ctx context.Context, event events.Event) {
		if err := publisher.Publish(event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to forward event")
		}
	})
}
