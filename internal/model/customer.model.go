package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store_id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	TotalDebt decimal.Decimal `json:"total_debt"`
	Version   int64           `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CustomerCreateRequest struct {
	Name        string
	Phone       string
	InitialDebt decimal.Decimal
}

func (p *CustomerCreateRequest) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.Name == "" {
		return Validation("customer name is required")
	}
	if p.InitialDebt.IsNegative() {
		return Validation("initial debt must be a non-negative number")
	}
	if !inCents(p.InitialDebt) {
		return Validation("initial debt must have at most %d decimal places", moneyScale)
	}
	return nil
}

// CustomerUpdateRequest never carries the debt: it only moves through the
// ledger.
type CustomerUpdateRequest struct {
	Name  *string
	Phone *string
}

func (p *CustomerUpdateRequest) Validate() error {
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		if n == "" {
			return Validation("customer name cannot be empty")
		}
		p.Name = &n
	}
	if p.Phone != nil {
		ph := strings.TrimSpace(*p.Phone)
		p.Phone = &ph
	}
	return nil
}

type CustomerOrder string

const (
	CustomerOrderName    CustomerOrder = "name"
	CustomerOrderDebt    CustomerOrder = "debt"
	CustomerOrderCreated CustomerOrder = "created"
)

// CustomerFilter controls List queries.
type CustomerFilter struct {
	Search  string           // case-insensitive name substring
	MinDebt *decimal.Decimal // total_debt > MinDebt
	OrderBy CustomerOrder
	Desc    bool
	Limit   int // default 50
	Offset  int
}
