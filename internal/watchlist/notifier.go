package watchlist

import "context"

// NotificationKind classifies an event for the presentation layer.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
	NotificationInfo    NotificationKind = "info"
)

// Notification is a user-facing event: an account was added or removed, an
// operation failed, or a watched account's balance changed. How it is
// rendered (toast, push, log line) is entirely up to the sink.
type Notification struct {
	Kind    NotificationKind
	Title   string
	Message string
}

// Notifier delivers notifications to whatever sink the application wired in.
// Delivery failures never fail the operation that produced the event; they
// are logged and dropped.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// nopNotifier is the default sink when none is configured.
type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) error { return nil }
