package infrastructure

import (
	"time"

	"orderflow/internal/service/order/domain"
)

// OrderModel maps to the orders table. Rows are insert-only.
type OrderModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Product   string `gorm:"index"`
	Quantity  int
	Status    string `gorm:"not null"`
	CreatedAt time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

func toDomainOrder(m *OrderModel) *domain.Order {
	return &domain.Order{
		ID:        m.ID,
		Product:   m.Product,
		Quantity:  m.Quantity,
		Status:    domain.Status(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

func toOrderModel(o *domain.Order) *OrderModel {
	return &OrderModel{
		ID:        o.ID,
		Product:   o.Product,
		Quantity:  o.Quantity,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
}
