package port

import "context"

// StockResult is the inventory service's answer to either stock
// operation. Available means "check passed" for CheckStock and
// "reservation succeeded" for UpdateStock.
type StockResult struct {
	Available     bool
	StockQuantity int32
	Message       string
}

// InventoryGateway is the outbound port to the stock ledger. Both calls
// block until a response or transport error; a transport failure is the
// returned error, a business "no" travels inside StockResult.
type InventoryGateway interface {
	CheckStock(ctx context.Context, product string, quantity int32) (StockResult, error)
	UpdateStock(ctx context.Context, product string, quantity int32) (StockResult, error)
}
