// Package events fans committed store changes out to listeners outside the
// process.
package events

import (
	"context"

	applog "budgettracker/internal/log"
	"budgettracker/internal/state"
)

// Publisher delivers state change messages.
type Publisher interface {
	PublishStateChanged(ctx context.Context, msg *StateChangedMessage) error
	Close() error
}

// Notifier forwards store changes to a Publisher. Delivery failures are
// logged and never reach the caller of the mutation.
type Notifier struct {
	pub    Publisher
	logger *applog.Logger
}

func NewNotifier(pub Publisher, logger *applog.Logger) *Notifier {
	if logger == nil {
		logger = applog.Nop()
	}
	return &Notifier{pub: pub, logger: logger.WithComponent(applog.ComponentEvents)}
}

// Observe is a state.Observer.
func (n *Notifier) Observe(ctx context.Context, c state.Change) {
	if n.pub == nil {
		return
	}
	msg := NewStateChangedMessage(c)
	if err := n.pub.PublishStateChanged(ctx, msg); err != nil {
		n.logger.ErrorContext(ctx, "Failed to publish state change",
			applog.FieldOperation, msg.Operation,
			applog.FieldExpenseID, msg.ExpenseID,
			applog.FieldError, err)
	}
}

// Attach subscribes the notifier to store and returns the unsubscribe func.
func (n *Notifier) Attach(store interface {
	Subscribe(state.Observer) func()
}) func() {
	return store.Subscribe(n.Observe)
}
