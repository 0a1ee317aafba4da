package repository

import (
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
)

type StoreEntity struct {
	ID        string    `gorm:"primaryKey;type:varchar(128);column:id"`
	Name      string    `gorm:"column:name;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (StoreEntity) TableName() string {
	return "stores"
}

func toStoreModel(e *StoreEntity) *model.Store {
	if e == nil {
		return nil
	}
	return &model.Store{
		ID:        e.ID,
		Name:      e.Name,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
