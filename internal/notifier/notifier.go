package notifier

import (
	"github.com/envisionperdido/perdido-events/internal/event"
)

// Notifier defines the interface for posting event announcements
type Notifier interface {
	// Announce posts announcements for the given events
	Announce(events []*event.Event) error
}
