package repository

import (
	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
	"github.com/shopspring/decimal"
)

type NotificationEntity struct {
	pg.Model
	StoreID      string          `gorm:"column:store_id;type:varchar(128);not null;index"`
	CustomerID   string          `gorm:"column:customer_id;type:varchar(36);not null;index"`
	CustomerName string          `gorm:"column:customer_name;not null"`
	DebtAmount   decimal.Decimal `gorm:"column:debt_amount;type:decimal(18,2);not null"`
	Message      string          `gorm:"column:message;not null"`
	Read         bool            `gorm:"column:read;not null;default:false"`
	Dismissed    bool            `gorm:"column:dismissed;not null;default:false"`
}

func (NotificationEntity) TableName() string {
	return "notifications"
}

func toNotificationEntity(m *model.Notification) *NotificationEntity {
	if m == nil {
		return nil
	}
	return &NotificationEntity{
		Model:        pg.Model{ID: m.ID, CreatedAt: m.CreatedAt},
		StoreID:      m.StoreID,
		CustomerID:   m.CustomerID,
		CustomerName: m.CustomerName,
		DebtAmount:   m.DebtAmount,
		Message:      m.Message,
		Read:         m.Read,
		Dismissed:    m.Dismissed,
	}
}

func toNotificationModel(e *NotificationEntity) *model.Notification {
	if e == nil {
		return nil
	}
	return &model.Notification{
		ID:           e.ID,
		StoreID:      e.StoreID,
		CustomerID:   e.CustomerID,
		CustomerName: e.CustomerName,
		DebtAmount:   e.DebtAmount,
		Message:      e.Message,
		Read:         e.Read,
		Dismissed:    e.Dismissed,
		CreatedAt:    e.CreatedAt,
	}
}

func toNotificationModels(entities []*NotificationEntity) []*model.Notification {
	models := make([]*model.Notification, len(entities))
	for i, e := range entities {
		models[i] = toNotificationModel(e)
	}
	return models
}
