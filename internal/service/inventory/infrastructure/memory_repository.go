package infrastructure

import (
	"context"
	"sync"

	"orderflow/internal/service/inventory/domain"
)

// MemoryProductRepository keeps products in a map, insertion-ordered.
// Used by tests and as the fallback store when no MySQL DSN is configured.
type MemoryProductRepository struct {
	mu     sync.RWMutex
	byName map[string]*domain.Product
	order  []string
	nextID uint
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		byName: make(map[string]*domain.Product),
		nextID: 1,
	}
}

func (r *MemoryProductRepository) FindByName(_ context.Context, name string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byName[name]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *MemoryProductRepository) Save(_ context.Context, product *domain.Product) error {
	if product.Name == "" {
		return domain.ErrNameRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byName[product.Name]
	if !ok {
		product.ID = r.nextID
		r.nextID++
		copied := *product
		r.byName[product.Name] = &copied
		r.order = append(r.order, product.Name)
		return nil
	}

	product.ID = existing.ID
	copied := *product
	r.byName[product.Name] = &copied
	return nil
}

func (r *MemoryProductRepository) FindAll(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, 0, len(r.order))
	for _, name := range r.order {
		products = append(products, *r.byName[name])
	}
	return products, nil
}
