package infrastructure

import (
	"context"
	"sync"

	"orderflow/internal/service/order/domain"
)

// MemoryOrderRepository keeps orders in an append-only slice. Used by
// tests and as the fallback store when no MySQL DSN is configured.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []domain.Order
	nextID uint
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{nextID: 1}
}

func (r *MemoryOrderRepository) Save(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = r.nextID
	r.nextID++
	r.orders = append(r.orders, *order)
	return nil
}

func (r *MemoryOrderRepository) FindAll(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]domain.Order, len(r.orders))
	copy(orders, r.orders)
	return orders, nil
}
