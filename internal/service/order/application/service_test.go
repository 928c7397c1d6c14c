package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"orderflow/internal/service/order/domain"
	"orderflow/internal/service/order/domain/port"
	"orderflow/internal/service/order/infrastructure"

	invapp "orderflow/internal/service/inventory/application"
	invdomain "orderflow/internal/service/inventory/domain"
	invinfra "orderflow/internal/service/inventory/infrastructure"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// fakeInventoryGateway scripts gateway answers per call.
type fakeInventoryGateway struct {
	checkFn  func(ctx context.Context, product string, quantity int32) (port.StockResult, error)
	updateFn func(ctx context.Context, product string, quantity int32) (port.StockResult, error)
}

func (g *fakeInventoryGateway) CheckStock(ctx context.Context, product string, quantity int32) (port.StockResult, error) {
	return g.checkFn(ctx, product, quantity)
}

func (g *fakeInventoryGateway) UpdateStock(ctx context.Context, product string, quantity int32) (port.StockResult, error) {
	return g.updateFn(ctx, product, quantity)
}

// ledgerGateway wires the orchestrator to a real in-process inventory
// service, answering with the same messages the HTTP surface uses.
type ledgerGateway struct {
	inv *invapp.InventoryService
}

func (g ledgerGateway) CheckStock(ctx context.Context, product string, quantity int32) (port.StockResult, error) {
	available, err := g.inv.CheckStock(ctx, product, int(quantity))
	if err != nil {
		return port.StockResult{}, err
	}
	if !available {
		return port.StockResult{Available: false, Message: "Insufficient stock"}, nil
	}
	return port.StockResult{Available: true, Message: "Stock available"}, nil
}

func (g ledgerGateway) UpdateStock(ctx context.Context, product string, quantity int32) (port.StockResult, error) {
	updated, err := g.inv.UpdateStock(ctx, product, int(quantity))
	if err != nil {
		return port.StockResult{}, err
	}
	if !updated {
		return port.StockResult{Available: false, Message: "Failed to update stock"}, nil
	}
	return port.StockResult{Available: true, Message: "Stock updated successfully"}, nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []*domain.OrderOutcomeEvent
	err    error
}

func (p *capturingPublisher) PublishOrderOutcome(ctx context.Context, event *domain.OrderOutcomeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func newLedgerFixture(t *testing.T, product string, stock int) (*OrderApplicationService, *invapp.InventoryService, invdomain.ProductRepository, domain.OrderRepository) {
	t.Helper()
	invRepo := invinfra.NewMemoryProductRepository()
	if err := invRepo.Save(context.Background(), &invdomain.Product{Name: product, StockQuantity: stock}); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	inv := invapp.NewInventoryService(invRepo, nil, nil, otel.Tracer("test"))
	orderRepo := infrastructure.NewMemoryOrderRepository()
	svc := NewOrderApplicationService(orderRepo, ledgerGateway{inv: inv}, nil, otel.Tracer("test"))
	return svc, inv, invRepo, orderRepo
}

func mustStock(t *testing.T, repo invdomain.ProductRepository, product string) int {
	t.Helper()
	p, err := repo.FindByName(context.Background(), product)
	if err != nil {
		t.Fatalf("FindByName returned error: %v", err)
	}
	if p == nil {
		t.Fatalf("product %s not found", product)
	}
	return p.StockQuantity
}

func TestCreateOrderSufficientStock(t *testing.T) {
	svc, _, invRepo, orderRepo := newLedgerFixture(t, "Widget", 10)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, domain.NewOrder("Widget", 5))
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if order.Status != domain.StatusCreated {
		t.Errorf("order status = %s, want %s", order.Status, domain.StatusCreated)
	}
	if got := mustStock(t, invRepo, "Widget"); got != 5 {
		t.Errorf("remaining stock = %d, want 5", got)
	}

	orders, err := orderRepo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("persisted %d orders, want 1", len(orders))
	}
	if orders[0].Status != domain.StatusCreated {
		t.Errorf("persisted status = %s, want %s", orders[0].Status, domain.StatusCreated)
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, _, invRepo, orderRepo := newLedgerFixture(t, "Widget", 10)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, domain.NewOrder("Widget", 100))
	if err != nil {
		t.Fatalf("insufficient stock must not be an error, got: %v", err)
	}
	if order.Status != domain.StatusRejected {
		t.Errorf("order status = %s, want %s", order.Status, domain.StatusRejected)
	}
	if got := mustStock(t, invRepo, "Widget"); got != 10 {
		t.Errorf("stock mutated by rejected order: got %d, want 10", got)
	}

	orders, err := orderRepo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(orders) != 1 || orders[0].Status != domain.StatusRejected {
		t.Errorf("want exactly one persisted REJECTED order, got %+v", orders)
	}
}

func TestCreateOrderInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		candidate *domain.Order
	}{
		{"nil candidate", nil},
		{"empty product", domain.NewOrder("", 5)},
		{"zero quantity", domain.NewOrder("Widget", 0)},
		{"negative quantity", domain.NewOrder("Widget", -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, orderRepo := newLedgerFixture(t, "Widget", 10)

			order, err := svc.CreateOrder(context.Background(), tt.candidate)
			if !errors.Is(err, domain.ErrInvalidOrder) {
				t.Fatalf("err = %v, want ErrInvalidOrder", err)
			}
			if order != nil {
				t.Errorf("expected nil order on invalid input, got %+v", order)
			}

			orders, err := orderRepo.FindAll(context.Background())
			if err != nil {
				t.Fatalf("FindAll returned error: %v", err)
			}
			if len(orders) != 1 || orders[0].Status != domain.StatusRejected {
				t.Errorf("invalid input must still persist one REJECTED row, got %+v", orders)
			}
		})
	}
}

func TestCreateOrderInventoryUnavailable(t *testing.T) {
	transportErr := fmt.Errorf("inventory-service is unavailable: connection refused")

	tests := []struct {
		name    string
		gateway *fakeInventoryGateway
	}{
		{
			"check call fails",
			&fakeInventoryGateway{
				checkFn: func(ctx context.Context, product string, quantity int32) (port.StockResult, error) {
					return port.StockResult{}, transportErr
				},
			},
		},
		{
			"update call fails",
			&fakeInventoryGateway{
				checkFn: func(ctx context.Context, product string, quantity int32) (port.StockResult, error) {
					return port.StockResult{Available: true, Message: "Stock available"}, nil
				},
				updateFn: func(ctx context.Context, product string, quantity int32) (port.StockResult, error) {
					return port.StockResult{}, transportErr
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := infrastructure.NewMemoryOrderRepository()
			svc := NewOrderApplicationService(orderRepo, tt.gateway, nil, otel.Tracer("test"))

			order, err := svc.CreateOrder(context.Background(), domain.NewOrder("Widget", 5))
			if !errors.Is(err, domain.ErrInventoryUnavailable) {
				t.Fatalf("err = %v, want ErrInventoryUnavailable", err)
			}
			if !strings.Contains(err.Error(), "unavailable") {
				t.Errorf("error %q does not mention unavailability", err.Error())
			}
			if order != nil {
				t.Errorf("expected nil order on transport failure, got %+v", order)
			}

			orders, ferr := orderRepo.FindAll(context.Background())
			if ferr != nil {
				t.Fatalf("FindAll returned error: %v", ferr)
			}
			if len(orders) != 1 || orders[0].Status != domain.StatusRejected {
				t.Errorf("transport failure must persist one REJECTED row, got %+v", orders)
			}
		})
	}
}

func TestCreateOrderLostReservationRace(t *testing.T) {
	// The check says yes, the reservation says no: the window between
	// the two calls was taken by a competing order.
	gateway := &fakeInventoryGateway{
		checkFn: func(ctx context.Context, product string, quantity int32) (port.StockResult, error) {
			return port.StockResult{Available: true, StockQuantity: 5, Message: "Stock available"}, nil
		},
		updateFn: func(ctx context.Context, product string, quantity int32) (port.StockResult, error) {
			return port.StockResult{Available: false, StockQuantity: 0, Message: "Failed to update stock"}, nil
		},
	}
	orderRepo := infrastructure.NewMemoryOrderRepository()
	svc := NewOrderApplicationService(orderRepo, gateway, nil, otel.Tracer("test"))

	order, err := svc.CreateOrder(context.Background(), domain.NewOrder("Widget", 5))
	if !errors.Is(err, domain.ErrStockUpdateFailed) {
		t.Fatalf("err = %v, want ErrStockUpdateFailed", err)
	}
	if order != nil {
		t.Errorf("expected nil order on refused reservation, got %+v", order)
	}

	orders, ferr := orderRepo.FindAll(context.Background())
	if ferr != nil {
		t.Fatalf("FindAll returned error: %v", ferr)
	}
	if len(orders) != 1 || orders[0].Status != domain.StatusRejected {
		t.Errorf("lost race must persist one REJECTED row, got %+v", orders)
	}
}

func TestCreateOrderNotIdempotent(t *testing.T) {
	svc, _, invRepo, _ := newLedgerFixture(t, "Widget", 10)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.CreateOrder(ctx, domain.NewOrder("Widget", 4)); err != nil {
			t.Fatalf("CreateOrder #%d returned error: %v", i+1, err)
		}
	}

	// Two identical requests are two reservations.
	if got := mustStock(t, invRepo, "Widget"); got != 2 {
		t.Errorf("stock after two identical orders = %d, want 2", got)
	}
}

func TestCreateOrderThenListRoundTrip(t *testing.T) {
	svc, _, _, _ := newLedgerFixture(t, "Widget", 10)
	ctx := context.Background()

	attempts := []struct {
		quantity int
		want     domain.Status
	}{
		{3, domain.StatusCreated},
		{100, domain.StatusRejected},
		{7, domain.StatusCreated},
		{1, domain.StatusRejected}, // stock exhausted by now
	}
	for _, a := range attempts {
		order, err := svc.CreateOrder(ctx, domain.NewOrder("Widget", a.quantity))
		if err != nil {
			t.Fatalf("CreateOrder(%d) returned error: %v", a.quantity, err)
		}
		if order.Status != a.want {
			t.Errorf("CreateOrder(%d) status = %s, want %s", a.quantity, order.Status, a.want)
		}
	}

	orders, err := svc.GetAllOrders(ctx)
	if err != nil {
		t.Fatalf("GetAllOrders returned error: %v", err)
	}
	if len(orders) != len(attempts) {
		t.Fatalf("listed %d orders, want %d", len(orders), len(attempts))
	}
	for i, a := range attempts {
		if orders[i].Status != a.want {
			t.Errorf("orders[%d].Status = %s, want %s", i, orders[i].Status, a.want)
		}
		if orders[i].Quantity != a.quantity {
			t.Errorf("orders[%d].Quantity = %d, want %d", i, orders[i].Quantity, a.quantity)
		}
	}
}

// With S units and N>S concurrent single-unit orders, exactly S end up
// CREATED and all N leave a persisted row. Which N-S lose is timing
// dependent; the count is not.
func TestCreateOrderConcurrentOverStock(t *testing.T) {
	const stock = 10
	const attempts = 25

	svc, _, invRepo, orderRepo := newLedgerFixture(t, "Widget", stock)
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			_, err := svc.CreateOrder(ctx, domain.NewOrder("Widget", 1))
			if err != nil && !errors.Is(err, domain.ErrStockUpdateFailed) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent CreateOrder returned unexpected error: %v", err)
	}

	orders, err := orderRepo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(orders) != attempts {
		t.Fatalf("persisted %d orders, want %d", len(orders), attempts)
	}

	created := 0
	for _, o := range orders {
		if o.Status == domain.StatusCreated {
			created++
		}
	}
	if created != stock {
		t.Errorf("%d orders CREATED, want exactly %d", created, stock)
	}
	if got := mustStock(t, invRepo, "Widget"); got != 0 {
		t.Errorf("final stock = %d, want 0", got)
	}
}

func TestCreateOrderPublishesOutcome(t *testing.T) {
	publisher := &capturingPublisher{}
	invRepo := invinfra.NewMemoryProductRepository()
	if err := invRepo.Save(context.Background(), &invdomain.Product{Name: "Widget", StockQuantity: 10}); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	inv := invapp.NewInventoryService(invRepo, nil, nil, otel.Tracer("test"))
	svc := NewOrderApplicationService(infrastructure.NewMemoryOrderRepository(), ledgerGateway{inv: inv}, publisher, otel.Tracer("test"))
	ctx := context.Background()

	if _, err := svc.CreateOrder(ctx, domain.NewOrder("Widget", 5)); err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if _, err := svc.CreateOrder(ctx, domain.NewOrder("Widget", 100)); err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}

	if len(publisher.events) != 2 {
		t.Fatalf("published %d events, want 2", len(publisher.events))
	}
	if publisher.events[0].Status != domain.StatusCreated {
		t.Errorf("first event status = %s, want %s", publisher.events[0].Status, domain.StatusCreated)
	}
	if publisher.events[1].Status != domain.StatusRejected {
		t.Errorf("second event status = %s, want %s", publisher.events[1].Status, domain.StatusRejected)
	}
	if publisher.events[0].EventID == publisher.events[1].EventID {
		t.Error("event IDs must be unique per publication")
	}
}

func TestCreateOrderPublishFailureDoesNotFailOrder(t *testing.T) {
	publisher := &capturingPublisher{err: fmt.Errorf("broker down")}
	invRepo := invinfra.NewMemoryProductRepository()
	if err := invRepo.Save(context.Background(), &invdomain.Product{Name: "Widget", StockQuantity: 10}); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	inv := invapp.NewInventoryService(invRepo, nil, nil, otel.Tracer("test"))
	orderRepo := infrastructure.NewMemoryOrderRepository()
	svc := NewOrderApplicationService(orderRepo, ledgerGateway{inv: inv}, publisher, otel.Tracer("test"))

	order, err := svc.CreateOrder(context.Background(), domain.NewOrder("Widget", 5))
	if err != nil {
		t.Fatalf("publish failure leaked into CreateOrder: %v", err)
	}
	if order.Status != domain.StatusCreated {
		t.Errorf("order status = %s, want %s", order.Status, domain.StatusCreated)
	}
}
