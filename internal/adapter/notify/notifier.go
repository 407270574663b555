// Package notify delivers formatted execution results to the OS
// notification facility, honoring the per-command opt-out with an always-on
// error override.
package notify

import "context"

// Notification is one delivery to the OS facility. The body is already
// formatted and capped by the formatter.
type Notification struct {
	Title string
	Body  string
}

// Notifier abstracts a notification delivery mechanism.
type Notifier interface {
	// Send delivers the notification, returning any delivery error.
	Send(ctx context.Context, n Notification) error
	// Name returns the backend identifier (e.g. "beeep").
	Name() string
}
