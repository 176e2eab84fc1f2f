package tui

import "github.com/csheth/paperlib/internal/library"

// Notifier forwards library notifications into the running program. Notify
// never blocks: the store calls it from inside the event loop, so a full
// buffer drops the notification.
type Notifier struct {
	ch chan library.Notification
}

// NewNotifier returns a Notifier buffering up to size notifications.
func NewNotifier(size int) *Notifier {
	if size < 1 {
		size = 1
	}
	return &Notifier{ch: make(chan library.Notification, size)}
}

func (n *Notifier) Notify(note library.Notification) {
	select {
	case n.ch <- note:
	default:
	}
}

// C is the channel to pass as Config.Notifications.
func (n *Notifier) C() <-chan library.Notification {
	return n.ch
}
