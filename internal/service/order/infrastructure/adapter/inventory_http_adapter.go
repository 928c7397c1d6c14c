package adapter

import (
	"context"
	"net/url"
	"strconv"

	"orderflow/internal/pkg/httpclient"
	"orderflow/internal/service/order/domain/port"
)

const (
	inventoryServiceName = "inventory-service"
	checkStockPath       = "/check_stock"
	updateStockPath      = "/update_stock"
)

// stockResponse mirrors the inventory service's wire shape.
type stockResponse struct {
	Available     bool   `json:"available"`
	StockQuantity int32  `json:"stockQuantity"`
	Message       string `json:"message"`
}

// InventoryHTTPAdapter implements port.InventoryGateway over HTTP.
type InventoryHTTPAdapter struct {
	client *httpclient.Client
}

func NewInventoryHTTPAdapter(client *httpclient.Client) *InventoryHTTPAdapter {
	return &InventoryHTTPAdapter{client: client}
}

func (a *InventoryHTTPAdapter) CheckStock(ctx context.Context, product string, quantity int32) (port.StockResult, error) {
	return a.call(ctx, checkStockPath, product, quantity)
}

func (a *InventoryHTTPAdapter) UpdateStock(ctx context.Context, product string, quantity int32) (port.StockResult, error) {
	return a.call(ctx, updateStockPath, product, quantity)
}

func (a *InventoryHTTPAdapter) call(ctx context.Context, path, product string, quantity int32) (port.StockResult, error) {
	params := url.Values{}
	params.Set("product", product)
	params.Set("quantity", strconv.Itoa(int(quantity)))

	var resp stockResponse
	if err := a.client.CallService(ctx, inventoryServiceName, path, params, &resp); err != nil {
		return port.StockResult{}, err
	}
	return port.StockResult{
		Available:     resp.Available,
		StockQuantity: resp.StockQuantity,
		Message:       resp.Message,
	}, nil
}
