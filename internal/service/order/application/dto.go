package application

import "orderflow/internal/service/order/domain"

// CreateOrderRequest is the inbound DTO for order placement.
type CreateOrderRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// ToOrder converts the DTO into a candidate order.
func (r *CreateOrderRequest) ToOrder() *domain.Order {
	return domain.NewOrder(r.Product, r.Quantity)
}

// CreateOrderStatusResponse is the reply of the RPC-style /create_order
// entry point, which reports only the terminal status.
type CreateOrderStatusResponse struct {
	Status string `json:"status"`
}
