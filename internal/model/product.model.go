package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string          `json:"id"`
	StoreID       string          `json:"store_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Unit          string          `json:"unit,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ProductCreateRequest struct {
	Name          string
	Price         decimal.Decimal
	StockQuantity int
	Unit          string
}

func (p *ProductCreateRequest) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Unit = strings.TrimSpace(p.Unit)
	if p.Name == "" {
		return Validation("product name is required")
	}
	if p.Price.IsNegative() {
		return Validation("product price must be a non-negative number")
	}
	if !inCents(p.Price) {
		return Validation("product price must have at most %d decimal places", moneyScale)
	}
	if p.StockQuantity < 0 {
		return Validation("stock quantity must be a non-negative number")
	}
	return nil
}

// ProductUpdateRequest is a partial update; nil fields are left untouched.
type ProductUpdateRequest struct {
	Name          *string
	Price         *decimal.Decimal
	StockQuantity *int
	Unit          *string
}

func (p *ProductUpdateRequest) Validate() error {
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		if n == "" {
			return Validation("product name is required")
		}
		p.Name = &n
	}
	if p.Price != nil && p.Price.IsNegative() {
		return Validation("product price must be a non-negative number")
	}
	if p.Price != nil && !inCents(*p.Price) {
		return Validation("product price must have at most %d decimal places", moneyScale)
	}
	if p.StockQuantity != nil && *p.StockQuantity < 0 {
		return Validation("stock quantity must be a non-negative number")
	}
	if p.Unit != nil {
		u := strings.TrimSpace(*p.Unit)
		p.Unit = &u
	}
	return nil
}

func (p *ProductUpdateRequest) Empty() bool {
	return p.Name == nil && p.Price == nil && p.StockQuantity == nil && p.Unit == nil
}

type ProductFilter struct {
	Search string
	Limit  int // default 50
	Offset int
}
