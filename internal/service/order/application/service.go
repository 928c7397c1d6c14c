package application

import (
	"context"
	"time"

	"orderflow/internal/pkg/logger"
	"orderflow/internal/service/order/domain"
	"orderflow/internal/service/order/domain/port"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OrderApplicationService drives the order placement workflow: validate,
// check stock, reserve stock, persist the outcome. Every exit path
// persists exactly one order row, rejections included.
//
// Check and reserve are two separate remote calls with no shared
// transaction, so two concurrent orders can both pass their check and
// race for the same stock; the ledger re-validates at decrement time and
// the loser surfaces ErrStockUpdateFailed. That window is a property of
// the protocol, not a bug in this service.
type OrderApplicationService struct {
	orderRepo domain.OrderRepository
	inventory port.InventoryGateway
	publisher port.OrderEventPublisher // optional
	tracer    trace.Tracer
}

func NewOrderApplicationService(orderRepo domain.OrderRepository, inventory port.InventoryGateway, publisher port.OrderEventPublisher, tracer trace.Tracer) *OrderApplicationService {
	return &OrderApplicationService{
		orderRepo: orderRepo,
		inventory: inventory,
		publisher: publisher,
		tracer:    tracer,
	}
}

// CreateOrder runs one placement attempt to a terminal status.
//
// Returned errors: ErrInvalidOrder for a malformed candidate,
// ErrInventoryUnavailable when a remote call failed in transport,
// ErrStockUpdateFailed when the reservation lost the race. Insufficient
// stock is NOT an error: the caller receives the persisted REJECTED order
// and a nil error. No call is ever retried here.
func (s *OrderApplicationService) CreateOrder(ctx context.Context, candidate *domain.Order) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateOrder")
	defer span.End()

	if !candidate.Valid() {
		// Nothing safe can be derived from the invalid input, so the
		// audit row carries only the status.
		rejected := &domain.Order{Status: domain.StatusRejected, CreatedAt: time.Now()}
		s.persistOutcome(ctx, rejected, "invalid order details")
		span.SetStatus(codes.Error, "invalid order details")
		return nil, domain.ErrInvalidOrder
	}

	span.SetAttributes(
		attribute.String("order.product", candidate.Product),
		attribute.Int("order.quantity", candidate.Quantity),
	)

	check, err := s.inventory.CheckStock(ctx, candidate.Product, int32(candidate.Quantity))
	if err != nil {
		candidate.MarkRejected()
		s.persistOutcome(ctx, candidate, err.Error())
		span.RecordError(err)
		span.SetStatus(codes.Error, "stock check call failed")
		return nil, errors.WithMessage(domain.ErrInventoryUnavailable, err.Error())
	}
	if !check.Available {
		candidate.MarkRejected()
		if err := s.persistOutcome(ctx, candidate, check.Message); err != nil {
			return nil, err
		}
		span.AddEvent("order rejected: insufficient stock")
		logger.Ctx(ctx).Info().
			Str("product", candidate.Product).
			Int("quantity", candidate.Quantity).
			Msg("order rejected, insufficient stock")
		return candidate, nil
	}

	update, err := s.inventory.UpdateStock(ctx, candidate.Product, int32(candidate.Quantity))
	if err != nil {
		candidate.MarkRejected()
		s.persistOutcome(ctx, candidate, err.Error())
		span.RecordError(err)
		span.SetStatus(codes.Error, "stock update call failed")
		return nil, errors.WithMessage(domain.ErrInventoryUnavailable, err.Error())
	}
	if !update.Available {
		// The check said yes moments ago; someone else got there first.
		candidate.MarkRejected()
		s.persistOutcome(ctx, candidate, update.Message)
		span.AddEvent("order rejected: reservation lost the race")
		span.SetStatus(codes.Error, "stock update refused")
		return nil, errors.WithMessage(domain.ErrStockUpdateFailed, update.Message)
	}

	candidate.MarkCreated()
	if err := s.persistOutcome(ctx, candidate, update.Message); err != nil {
		return nil, err
	}
	span.AddEvent("order created")
	logger.Ctx(ctx).Info().
		Uint("order_id", candidate.ID).
		Str("product", candidate.Product).
		Int("quantity", candidate.Quantity).
		Msg("order created")
	return candidate, nil
}

// GetAllOrders returns every persisted order in store order. A store
// failure is an error, not an empty result.
func (s *OrderApplicationService) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetAllOrders")
	defer span.End()

	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return orders, nil
}

// persistOutcome writes the single order row for this invocation and
// emits the outcome event. Called exactly once per CreateOrder exit path.
func (s *OrderApplicationService) persistOutcome(ctx context.Context, order *domain.Order, reason string) error {
	if err := s.orderRepo.Save(ctx, order); err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("status", string(order.Status)).
			Msg("failed to persist order outcome")
		return err
	}
	s.publishOutcome(ctx, order, reason)
	return nil
}

func (s *OrderApplicationService) publishOutcome(ctx context.Context, order *domain.Order, reason string) {
	if s.publisher == nil {
		return
	}
	event := &domain.OrderOutcomeEvent{
		EventID:    uuid.New().String(),
		OrderID:    order.ID,
		Product:    order.Product,
		Quantity:   order.Quantity,
		Status:     order.Status,
		Reason:     reason,
		OccurredAt: time.Now(),
	}
	// Best effort only; the order row is already durable.
	if err := s.publisher.PublishOrderOutcome(ctx, event); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Uint("order_id", order.ID).Msg("failed to publish order outcome event")
	}
}
