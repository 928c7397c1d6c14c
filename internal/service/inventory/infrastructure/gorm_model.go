package infrastructure

import "orderflow/internal/service/inventory/domain"

// ProductModel maps to the products table.
type ProductModel struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	Name          string `gorm:"uniqueIndex;not null"`
	StockQuantity int
}

func (ProductModel) TableName() string {
	return "products"
}

func toDomainProduct(m *ProductModel) *domain.Product {
	return &domain.Product{
		ID:            m.ID,
		Name:          m.Name,
		StockQuantity: m.StockQuantity,
	}
}

func toProductModel(p *domain.Product) *ProductModel {
	return &ProductModel{
		ID:            p.ID,
		Name:          p.Name,
		StockQuantity: p.StockQuantity,
	}
}
