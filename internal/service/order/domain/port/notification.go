package port

import (
	"context"

	"orderflow/internal/service/order/domain"
)

// OrderEventPublisher emits order outcome events. Publishing is
// best-effort: a failure must not fail the order flow.
type OrderEventPublisher interface {
	PublishOrderOutcome(ctx context.Context, event *domain.OrderOutcomeEvent) error
}
