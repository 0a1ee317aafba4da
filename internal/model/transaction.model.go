package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionCredit  TransactionType = "credit"
	TransactionPayment TransactionType = "payment"
)

func (t TransactionType) Valid() bool {
	return t == TransactionCredit || t == TransactionPayment
}

// moneyScale is the number of decimals every amount column stores.
const moneyScale = 2

// inCents reports whether d fits a money column without rounding.
func inCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(moneyScale))
}

// Transaction is an immutable ledger entry. CustomerName and ProductName are
// snapshots taken when the entry was recorded.
type Transaction struct {
	ID           string           `json:"id"`
	StoreID      string           `json:"store_id"`
	CustomerID   string           `json:"customer_id"`
	CustomerName string           `json:"customer_name"`
	ProductID    string           `json:"product_id,omitempty"`
	ProductName  string           `json:"product_name,omitempty"`
	Quantity     *int             `json:"quantity,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	TotalAmount  decimal.Decimal  `json:"total_amount"`
	Type         TransactionType  `json:"type"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Delta is the signed effect of the entry on the customer's debt.
func (t *Transaction) Delta() decimal.Decimal {
	if t.Type == TransactionPayment {
		return t.TotalAmount.Neg()
	}
	return t.TotalAmount
}

// TransactionCreateRequest is the input of the recorder.
type TransactionCreateRequest struct {
	CustomerID  string
	Type        TransactionType
	TotalAmount decimal.Decimal
	ProductID   string
	ProductName string
	Quantity    *int
	Price       *decimal.Decimal
	Notes       string
}

func (p *TransactionCreateRequest) Validate() error {
	p.CustomerID = strings.TrimSpace(p.CustomerID)
	p.ProductID = strings.TrimSpace(p.ProductID)
	p.ProductName = strings.TrimSpace(p.ProductName)
	p.Notes = strings.TrimSpace(p.Notes)

	if !p.TotalAmount.IsPositive() {
		return Validation("total amount must be greater than zero")
	}
	if !inCents(p.TotalAmount) {
		return Validation("total amount must have at most %d decimal places", moneyScale)
	}
	if !p.Type.Valid() {
		return Validation("transaction type must be %q or %q", TransactionCredit, TransactionPayment)
	}
	if p.CustomerID == "" {
		return Validation("customer_id is required")
	}
	if p.Type == TransactionPayment && (p.ProductID != "" || p.ProductName != "" || p.Quantity != nil || p.Price != nil) {
		return Validation("a payment cannot reference a product")
	}
	if p.Quantity != nil && *p.Quantity <= 0 {
		return Validation("quantity must be greater than zero")
	}
	if p.Price != nil && p.Price.IsNegative() {
		return Validation("price must be a non-negative number")
	}
	if p.Price != nil && !inCents(*p.Price) {
		return Validation("price must have at most %d decimal places", moneyScale)
	}
	return nil
}

// TransactionFilter controls List queries.
type TransactionFilter struct {
	CustomerID string
	Type       TransactionType
	From       *time.Time
	To         *time.Time
	Limit      int // default 50
	Offset     int
	Desc       bool // order by created_at
}

// BalanceEntry pairs a ledger entry with the debt that stood right after it.
type BalanceEntry struct {
	Transaction  *Transaction    `json:"transaction"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

type CustomerStatement struct {
	Customer       *Customer       `json:"customer"`
	Entries        []BalanceEntry  `json:"entries"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// LedgerCheck is the result of replaying a customer's ledger against the
// stored debt.
type LedgerCheck struct {
	CustomerID   string          `json:"customer_id"`
	TotalDebt    decimal.Decimal `json:"total_debt"`
	LedgerDebt   decimal.Decimal `json:"ledger_debt"`
	Transactions int             `json:"transactions"`
	Consistent   bool            `json:"consistent"`
}
