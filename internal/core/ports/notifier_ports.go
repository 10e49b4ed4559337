package ports

import (
	"context"

	"github.com/google/uuid"
)

// Notification is one message for the transport to deliver.
type Notification struct {
	ID      uuid.UUID `json:"id"`
	ChatID  int64     `json:"chat_id"`
	Kind    string    `json:"kind"`
	Text    string    `json:"text,omitempty"`
	Options []string  `json:"options,omitempty"`
}

// DeliveryFailure names one recipient a notification could not reach.
type DeliveryFailure struct {
	Recipient int64
	Err       error
}

// Broadcaster delivers a notification to each recipient independently. A
// failure for one recipient never aborts delivery to the rest; every failure
// is returned to the caller instead of being swallowed.
type Broadcaster interface {
	Broadcast(ctx context.Context, recipients []int64, n Notification) []DeliveryFailure
}
