package repository

import (
	"database/sql"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
	"github.com/shopspring/decimal"
)

type TransactionEntity struct {
	pg.Model
	StoreID      string              `gorm:"column:store_id;type:varchar(128);not null;index"`
	CustomerID   string              `gorm:"column:customer_id;type:varchar(36);not null;index"`
	CustomerName string              `gorm:"column:customer_name;not null"`
	ProductID    sql.NullString      `gorm:"column:product_id;type:varchar(36)"`
	ProductName  string              `gorm:"column:product_name;not null;default:''"`
	Quantity     sql.NullInt64       `gorm:"column:quantity"`
	Price        decimal.NullDecimal `gorm:"column:price;type:decimal(18,2)"`
	TotalAmount  decimal.Decimal     `gorm:"column:total_amount;type:decimal(18,2);not null"`
	Type         string              `gorm:"column:type;type:varchar(16);not null"`
	Notes        string              `gorm:"column:notes;not null;default:''"`
}

func (TransactionEntity) TableName() string {
	return "transactions"
}

func toTransactionEntity(m *model.Transaction) *TransactionEntity {
	if m == nil {
		return nil
	}
	e := &TransactionEntity{
		Model:        pg.Model{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		StoreID:      m.StoreID,
		CustomerID:   m.CustomerID,
		CustomerName: m.CustomerName,
		ProductID:    sql.NullString{String: m.ProductID, Valid: m.ProductID != ""},
		ProductName:  m.ProductName,
		TotalAmount:  m.TotalAmount,
		Type:         string(m.Type),
		Notes:        m.Notes,
	}
	if m.Quantity != nil {
		e.Quantity = sql.NullInt64{Int64: int64(*m.Quantity), Valid: true}
	}
	if m.Price != nil {
		e.Price = decimal.NewNullDecimal(*m.Price)
	}
	return e
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	m := &model.Transaction{
		ID:           e.ID,
		StoreID:      e.StoreID,
		CustomerID:   e.CustomerID,
		CustomerName: e.CustomerName,
		ProductID:    e.ProductID.String,
		ProductName:  e.ProductName,
		TotalAmount:  e.TotalAmount,
		Type:         model.TransactionType(e.Type),
		Notes:        e.Notes,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.Quantity.Valid {
		q := int(e.Quantity.Int64)
		m.Quantity = &q
	}
	if e.Price.Valid {
		p := e.Price.Decimal
		m.Price = &p
	}
	return m
}

func toTransactionModels(entities []*TransactionEntity) []*model.Transaction {
	models := make([]*model.Transaction, len(entities))
	for i, e := range entities {
		models[i] = toTransactionModel(e)
	}
	return models
}
