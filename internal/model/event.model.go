package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const EventTransactionRecorded = "transaction.recorded"

// LedgerEvent is published to the ledger stream after a transaction commits.
type LedgerEvent struct {
	Type            string          `json:"type"`
	StoreID         string          `json:"store_id"`
	CustomerID      string          `json:"customer_id"`
	TransactionID   string          `json:"transaction_id"`
	TransactionType TransactionType `json:"transaction_type"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TotalDebt       decimal.Decimal `json:"total_debt"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

func NewTransactionRecordedEvent(tx *Transaction, totalDebt decimal.Decimal) *LedgerEvent {
	return &LedgerEvent{
		Type:            EventTransactionRecorded,
		StoreID:         tx.StoreID,
		CustomerID:      tx.CustomerID,
		TransactionID:   tx.ID,
		TransactionType: tx.Type,
		TotalAmount:     tx.TotalAmount,
		TotalDebt:       totalDebt,
		OccurredAt:      tx.CreatedAt,
	}
}
