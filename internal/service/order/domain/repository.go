package domain

import "context"

// OrderRepository is the outbound port to the order store. The store
// assigns IDs on first insert.
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindAll(ctx context.Context) ([]Order, error)
}
