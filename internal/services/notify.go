package services

import (
	"github.com/workbridge/workbridge/internal/logger"
	"github.com/workbridge/workbridge/internal/notifications"
)

// publishEvent hands an event to the dispatcher. Delivery is
// best-effort: the state transition the event describes has already
// committed, so nothing here may reach the caller as an error.
func publishEvent(d notifications.Dispatcher, event notifications.Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("notification dispatch panicked: %v", r)
		}
	}()
	d.Publish(event)
}
