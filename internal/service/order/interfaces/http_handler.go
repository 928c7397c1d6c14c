package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"orderflow/internal/pkg/logger"
	"orderflow/internal/service/order/application"
	"orderflow/internal/service/order/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "order-service"

var ordersProcessed = func() *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderflow",
		Subsystem: "order",
		Name:      "orders_processed_total",
		Help:      "Order placement attempts by terminal outcome.",
	}, []string{"outcome"})
	prometheus.MustRegister(c)
	return c
}()

// OrderHandler exposes the order workflow over HTTP.
type OrderHandler struct {
	service *application.OrderApplicationService
}

func NewOrderHandler(service *application.OrderApplicationService) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/orders", h.ordersHandler)
	mux.HandleFunc("/create_order", h.createOrderRPCHandler)
}

func (h *OrderHandler) ordersHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createOrderHandler(w, r)
	case http.MethodGet:
		h.listOrdersHandler(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *OrderHandler) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "order-service.CreateOrder")
	defer span.End()

	var req application.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.service.CreateOrder(ctx, req.ToOrder())
	if err != nil {
		// Every error kind maps to a client error; the body carries the
		// reason (invalid input, lost race, or upstream failure).
		span.RecordError(err)
		ordersProcessed.WithLabelValues(string(domain.StatusRejected)).Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// A REJECTED order with no error (insufficient stock) is a normal
	// response; the payload communicates the rejection.
	ordersProcessed.WithLabelValues(string(order.Status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

func (h *OrderHandler) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "order-service.ListOrders")
	defer span.End()

	orders, err := h.service.GetAllOrders(ctx)
	if err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to list orders")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// createOrderRPCHandler is the alternate entry point that takes the order
// fields as query parameters and reports only the terminal status.
func (h *OrderHandler) createOrderRPCHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "order-service.CreateOrderRPC")
	defer span.End()

	quantity, _ := strconv.Atoi(r.URL.Query().Get("quantity"))
	candidate := domain.NewOrder(r.URL.Query().Get("product"), quantity)

	order, err := h.service.CreateOrder(ctx, candidate)
	if err != nil {
		span.RecordError(err)
		ordersProcessed.WithLabelValues(string(domain.StatusRejected)).Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ordersProcessed.WithLabelValues(string(order.Status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(application.CreateOrderStatusResponse{Status: string(order.Status)})
}

func startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	tracer := otel.Tracer(serviceName)
	return tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindServer))
}
