package domain

import "time"

// Status is the terminal outcome recorded on an order.
type Status string

const (
	// StatusPending is the initial value, before any orchestration
	// decision has been recorded.
	StatusPending Status = "PENDING"
	// StatusCreated means the reservation succeeded.
	StatusCreated Status = "CREATED"
	// StatusRejected covers every failure: invalid input, insufficient
	// stock, a lost reservation race, or an unreachable inventory service.
	StatusRejected Status = "REJECTED"
)

// Order is the durable record of one placement attempt. Rows are written
// exactly once per CreateOrder invocation and never updated afterwards.
type Order struct {
	ID        uint      `json:"id"`
	Product   string    `json:"product"`
	Quantity  int       `json:"quantity"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewOrder builds a candidate order in its initial state.
func NewOrder(product string, quantity int) *Order {
	return &Order{
		Product:   product,
		Quantity:  quantity,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}

// Valid reports whether the candidate can even be attempted: a product
// name and a positive quantity.
func (o *Order) Valid() bool {
	return o != nil && o.Product != "" && o.Quantity > 0
}

func (o *Order) MarkCreated() {
	o.Status = StatusCreated
}

func (o *Order) MarkRejected() {
	o.Status = StatusRejected
}
