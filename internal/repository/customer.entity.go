package repository

import (
	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
	"github.com/shopspring/decimal"
)

type CustomerEntity struct {
	pg.Model
	StoreID   string          `gorm:"column:store_id;type:varchar(128);not null;index"`
	Name      string          `gorm:"column:name;not null"`
	Phone     string          `gorm:"column:phone;not null;default:''"`
	TotalDebt decimal.Decimal `gorm:"column:total_debt;type:decimal(18,2);not null;default:0"`
	Version   int64           `gorm:"column:version;not null;default:0"`
}

func (CustomerEntity) TableName() string {
	return "customers"
}

func toCustomerEntity(m *model.Customer) *CustomerEntity {
	if m == nil {
		return nil
	}
	return &CustomerEntity{
		Model:     pg.Model{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		StoreID:   m.StoreID,
		Name:      m.Name,
		Phone:     m.Phone,
		TotalDebt: m.TotalDebt,
		Version:   m.Version,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:        e.ID,
		StoreID:   e.StoreID,
		Name:      e.Name,
		Phone:     e.Phone,
		TotalDebt: e.TotalDebt,
		Version:   e.Version,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toCustomerModels(entities []*CustomerEntity) []*model.Customer {
	models := make([]*model.Customer, len(entities))
	for i, e := range entities {
		models[i] = toCustomerModel(e)
	}
	return models
}
