package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers a text message to the single configured recipient.
// Delivery is best-effort: failures are logged and never returned.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Warner is implemented by channels that can mark a message as a warning.
// Callers fall back to Notify when the channel does not implement it.
type Warner interface {
	Warn(ctx context.Context, message string)
}

// Nop only logs the message. Used for dry runs.
type Nop struct{}

func (Nop) Notify(_ context.Context, message string) {
	slog.Info("dry run, notification not sent", slog.String("message", message))
}
