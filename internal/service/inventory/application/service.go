package application

import (
	"context"

	"orderflow/internal/pkg/logger"
	"orderflow/internal/service/inventory/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StockCache is an advisory read cache of stock quantities. The store
// stays the source of truth; reservation decisions never trust the cache.
type StockCache interface {
	GetQuantity(ctx context.Context, product string) (int, bool)
	SetQuantity(ctx context.Context, product string, quantity int)
	Invalidate(ctx context.Context, product string)
}

// InventoryService owns the stock counters: it answers availability
// queries and performs reservations. It is the only writer of stock.
type InventoryService struct {
	repo   domain.ProductRepository
	locker ProductLocker
	cache  StockCache // optional
	tracer trace.Tracer
}

func NewInventoryService(repo domain.ProductRepository, locker ProductLocker, cache StockCache, tracer trace.Tracer) *InventoryService {
	if locker == nil {
		locker = NewLocalKeyedLocker()
	}
	return &InventoryService{repo: repo, locker: locker, cache: cache, tracer: tracer}
}

// CheckStock reports whether a product with that name exists and currently
// holds at least quantity units. It never mutates stock, and an unknown
// product is simply "not available", not an error.
func (s *InventoryService) CheckStock(ctx context.Context, product string, quantity int) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.CheckStock")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.name", product),
		attribute.Int("product.quantity", quantity),
	)

	if s.cache != nil {
		if stock, ok := s.cache.GetQuantity(ctx, product); ok {
			span.AddEvent("stock served from cache")
			return stock >= quantity, nil
		}
	}

	p, err := s.repo.FindByName(ctx, product)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stock lookup failed")
		return false, err
	}
	if p == nil {
		return false, nil
	}

	if s.cache != nil {
		s.cache.SetQuantity(ctx, product, p.StockQuantity)
	}
	return p.StockQuantity >= quantity, nil
}

// UpdateStock is the reservation: decrement-if-sufficient as one atomic
// step per product. Concurrent reservations against the same product
// serialize on the locker, so two callers can never both win the last
// unit. Returns false (no error) when stock is insufficient or the
// product does not exist.
func (s *InventoryService) UpdateStock(ctx context.Context, product string, quantity int) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.UpdateStock")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.name", product),
		attribute.Int("product.quantity", quantity),
	)

	release, err := s.locker.Acquire(product)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to acquire product lock")
		return false, err
	}
	defer release()

	p, err := s.repo.FindByName(ctx, product)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if p == nil || p.StockQuantity < quantity {
		span.AddEvent("reservation refused: insufficient stock")
		return false, nil
	}

	p.StockQuantity -= quantity
	if err := s.repo.Save(ctx, p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist decremented stock")
		// The store state is now uncertain; drop the cached quantity.
		if s.cache != nil {
			s.cache.Invalidate(ctx, product)
		}
		return false, err
	}

	if s.cache != nil {
		s.cache.SetQuantity(ctx, product, p.StockQuantity)
	}

	logger.Ctx(ctx).Info().
		Str("product", product).
		Int("reserved", quantity).
		Int("remaining", p.StockQuantity).
		Msg("stock reserved")
	return true, nil
}

// GetProductByName returns the current record, or (nil, nil) when absent.
func (s *InventoryService) GetProductByName(ctx context.Context, product string) (*domain.Product, error) {
	return s.repo.FindByName(ctx, product)
}

// ListProducts returns every product in store order.
func (s *InventoryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.FindAll(ctx)
}
