package domain

import "context"

// ProductRepository is the outbound port to the product store.
type ProductRepository interface {
	// FindByName returns (nil, nil) when no product has that name.
	// Absence is not an error anywhere in this service.
	FindByName(ctx context.Context, name string) (*Product, error)
	Save(ctx context.Context, product *Product) error
	// FindAll returns every product in primary-key order.
	FindAll(ctx context.Context) ([]Product, error)
}
