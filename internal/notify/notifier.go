// Package notify delivers approval notifications to the approver set.
// Delivery is best-effort by design: the lifecycle transition that
// triggers a notification is the durable fact, so senders log failures
// and never propagate them.
package notify

// Notifier sends a structured message to the configured approvers.
type Notifier interface {
	Notify(subject, body string) error
}

// Nop is a Notifier that discards everything. Used when email is
// disabled and as the default in tests.
type Nop struct{}

func (Nop) Notify(subject, body string) error { return nil }
