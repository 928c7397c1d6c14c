package domain

import "time"

// OrderOutcomeEvent is published after every persisted order, success and
// rejection alike, for downstream consumers (notifications, audit).
type OrderOutcomeEvent struct {
	EventID    string    `json:"eventId"`
	OrderID    uint      `json:"orderId"`
	Product    string    `json:"product"`
	Quantity   int       `json:"quantity"`
	Status     Status    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
