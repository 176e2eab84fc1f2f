package library

import "fmt"

// NotificationKind distinguishes the user-visible outcome of a mutation.
type NotificationKind string

const (
	NotifyAdded   NotificationKind = "added"
	NotifyUpdated NotificationKind = "updated"
	NotifyRemoved NotificationKind = "removed"
)

// Notification describes one completed library mutation.
type Notification struct {
	Kind    NotificationKind
	PaperID string
	Title   string
	Status  Status
	// Missing is set when a remove targeted an id that was not stored.
	Missing bool
}

// Message renders the notification the way front ends display it.
func (n Notification) Message() string {
	name := n.Title
	if name == "" {
		name = n.PaperID
	}
	switch n.Kind {
	case NotifyAdded:
		return fmt.Sprintf("Added %q to %s.", name, n.Status.Label())
	case NotifyUpdated:
		return fmt.Sprintf("Updated %q: now in %s.", name, n.Status.Label())
	case NotifyRemoved:
		if n.Missing {
			return fmt.Sprintf("%s is not in your library.", n.PaperID)
		}
		return fmt.Sprintf("Removed %q from your library.", name)
	default:
		return string(n.Kind)
	}
}

// Notifier receives library mutation notifications.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

// NopNotifier drops every notification.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(Notification) {}

// Notifiers fans a notification out in order.
type Notifiers []Notifier

// Notify forwards n to every notifier.
func (ns Notifiers) Notify(n Notification) {
	for _, notifier := range ns {
		notifier.Notify(n)
	}
}
