package repository

import (
	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
	"github.com/shopspring/decimal"
)

type ProductEntity struct {
	pg.Model
	StoreID       string          `gorm:"column:store_id;type:varchar(128);not null;index"`
	Name          string          `gorm:"column:name;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(18,2);not null"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0"`
	Unit          string          `gorm:"column:unit;not null;default:''"`
}

func (ProductEntity) TableName() string {
	return "products"
}

func toProductEntity(m *model.Product) *ProductEntity {
	if m == nil {
		return nil
	}
	return &ProductEntity{
		Model:         pg.Model{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		StoreID:       m.StoreID,
		Name:          m.Name,
		Price:         m.Price,
		StockQuantity: m.StockQuantity,
		Unit:          m.Unit,
	}
}

func toProductModel(e *ProductEntity) *model.Product {
	if e == nil {
		return nil
	}
	return &model.Product{
		ID:            e.ID,
		StoreID:       e.StoreID,
		Name:          e.Name,
		Price:         e.Price,
		StockQuantity: e.StockQuantity,
		Unit:          e.Unit,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func toProductModels(entities []*ProductEntity) []*model.Product {
	models := make([]*model.Product, len(entities))
	for i, e := range entities {
		models[i] = toProductModel(e)
	}
	return models
}
