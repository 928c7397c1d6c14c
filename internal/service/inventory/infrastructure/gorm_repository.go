package infrastructure

import (
	"context"
	"errors"

	"orderflow/internal/service/inventory/domain"

	"gorm.io/gorm"
)

// GormProductRepository is the MySQL-backed ProductRepository.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// AutoMigrate creates or updates the products table.
func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&ProductModel{})
}

func (r *GormProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainProduct(&model), nil
}

func (r *GormProductRepository) Save(ctx context.Context, product *domain.Product) error {
	if product.Name == "" {
		return domain.ErrNameRequired
	}
	model := toProductModel(product)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	product.ID = model.ID
	return nil
}

func (r *GormProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	var models []ProductModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(models))
	for i := range models {
		products = append(products, *toDomainProduct(&models[i]))
	}
	return products, nil
}
