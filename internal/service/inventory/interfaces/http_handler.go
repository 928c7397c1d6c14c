package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"orderflow/internal/pkg/logger"
	"orderflow/internal/service/inventory/application"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "inventory-service"

// StockResponse is the wire shape of both stock operations. available
// means "check passed" on /check_stock and "reservation succeeded" on
// /update_stock; stockQuantity is always the post-operation value.
type StockResponse struct {
	Available     bool   `json:"available"`
	StockQuantity int32  `json:"stockQuantity"`
	Message       string `json:"message"`
}

// InventoryHandler exposes the stock ledger over HTTP.
type InventoryHandler struct {
	service *application.InventoryService
}

func NewInventoryHandler(service *application.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/check_stock", h.checkStockHandler)
	mux.HandleFunc("/update_stock", h.updateStockHandler)
	mux.HandleFunc("/products", h.listProductsHandler)
}

func (h *InventoryHandler) checkStockHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "inventory-service.CheckStock")
	defer span.End()

	product, quantity := stockParams(r)
	span.SetAttributes(
		attribute.String("product.name", product),
		attribute.Int("product.quantity", quantity),
	)

	available, err := h.service.CheckStock(ctx, product, quantity)
	if err != nil {
		span.RecordError(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	message := "Stock available"
	if !available {
		message = "Insufficient stock"
	}
	h.writeStockResponse(ctx, w, product, available, message)
}

func (h *InventoryHandler) updateStockHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "inventory-service.UpdateStock")
	defer span.End()

	product, quantity := stockParams(r)
	span.SetAttributes(
		attribute.String("product.name", product),
		attribute.Int("product.quantity", quantity),
	)

	updated, err := h.service.UpdateStock(ctx, product, quantity)
	if err != nil {
		span.RecordError(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	message := "Stock updated successfully"
	if !updated {
		message = "Failed to update stock"
	}
	h.writeStockResponse(ctx, w, product, updated, message)
}

func (h *InventoryHandler) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "inventory-service.ListProducts")
	defer span.End()

	products, err := h.service.ListProducts(ctx)
	if err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to list products")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

// writeStockResponse looks up the post-operation quantity so callers see
// the remaining stock alongside the verdict. An absent product reports 0.
func (h *InventoryHandler) writeStockResponse(ctx context.Context, w http.ResponseWriter, product string, available bool, message string) {
	var stockQuantity int32
	if p, err := h.service.GetProductByName(ctx, product); err == nil && p != nil {
		stockQuantity = int32(p.StockQuantity)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StockResponse{
		Available:     available,
		StockQuantity: stockQuantity,
		Message:       message,
	})
}

func stockParams(r *http.Request) (string, int) {
	product := r.URL.Query().Get("product")
	quantity, _ := strconv.Atoi(r.URL.Query().Get("quantity"))
	return product, quantity
}

// startSpan rebuilds the caller's trace context from the request headers
// and opens a server span.
func startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	tracer := otel.Tracer(serviceName)
	return tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindServer))
}
