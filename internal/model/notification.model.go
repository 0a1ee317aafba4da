package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Notification struct {
	ID           string          `json:"id"`
	StoreID      string          `json:"store_id"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	DebtAmount   decimal.Decimal `json:"debt_amount"`
	Message      string          `json:"message"`
	Read         bool            `json:"read"`
	Dismissed    bool            `json:"dismissed"`
	CreatedAt    time.Time       `json:"created_at"`
}

// OverdueMessage is the text of the notification raised for a customer that
// still owes money.
func OverdueMessage(customerName string, debt decimal.Decimal) string {
	return fmt.Sprintf("%s has an outstanding balance of $%s", customerName, debt.StringFixed(2))
}
