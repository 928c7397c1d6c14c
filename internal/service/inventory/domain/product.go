package domain

import "errors"

// Product is the per-name stock counter owned by the inventory service.
// StockQuantity may go negative only through degenerate seed data; the
// reservation path never drives it below zero.
type Product struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stockQuantity"`
}

// ErrNameRequired is returned by stores when persisting a product without
// a name. Name is the business key.
var ErrNameRequired = errors.New("product name is required")
