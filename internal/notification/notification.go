package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	// KindAccountOpened is emitted after an account is created.
	KindAccountOpened = "account_opened"
	// KindDeposit is emitted after a deposit is applied.
	KindDeposit = "account_deposit"
	// KindWithdrawal is emitted after a withdrawal is applied.
	KindWithdrawal = "account_withdrawal"
	// KindAccountClosed is emitted after an account is closed.
	KindAccountClosed = "account_closed"
)

// Event describes an account lifecycle change. Amount and Balance are decimal
// strings so NaN and infinite values survive encoding; empty means absent.
type Event struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	AccountNumber int64     `json:"account_number"`
	Amount        string    `json:"amount,omitempty"`
	Balance       string    `json:"balance,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Notifier delivers account events to downstream systems.
type Notifier interface {
	Send(ctx context.Context, event Event) error
}

// stamp fills the identifier and timestamp when the producer left them empty.
func stamp(event Event) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	return event
}

// LoggerNotifier writes events to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the event to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, event Event) error {
	if n == nil || n.logger == nil {
		return nil
	}
	event = stamp(event)
	n.logger.Info("account event",
		"event_id", event.ID,
		"kind", event.Kind,
		"account_number", event.AccountNumber,
		"amount", event.Amount,
		"balance", event.Balance,
	)
	return nil
}

// Fanout sends every event to each notifier and returns the first error seen.
type Fanout []Notifier

// Send delivers the event to all notifiers.
func (f Fanout) Send(ctx context.Context, event Event) error {
	event = stamp(event)
	var firstErr error
	for _, n := range f {
		if err := n.Send(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
