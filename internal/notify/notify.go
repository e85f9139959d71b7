// Package notify is the user surface for synchronization failures.
package notify

import (
	"github.com/rs/zerolog/log"
)

// Notifier delivers a failure message to the user
type Notifier interface {
	Notify(title, message string)
}

// LogNotifier reports notifications through the application log.
// Desktop environments can plug in their own Notifier instead.
type LogNotifier struct{}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the notification at warn level
func (n *LogNotifier) Notify(title, message string) {
	log.Warn().Str("title", title).Msg(message)
}
