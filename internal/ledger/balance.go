// Package ledger holds the pure arithmetic of the credit ledger: how an entry
// moves a customer's debt and how past balances are rebuilt from the current
// one.
package ledger

import (
	"slices"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/shopspring/decimal"
)

// Apply returns the debt after an entry of the given type and amount. A
// payment larger than the current debt is rejected with a balance_exceeded
// error; a payment never drives the debt below zero.
func Apply(current decimal.Decimal, typ model.TransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	switch typ {
	case model.TransactionCredit:
		return current.Add(amount), nil
	case model.TransactionPayment:
		if amount.GreaterThan(current) {
			return current, model.BalanceExceeded(amount, current)
		}
		next := current.Sub(amount)
		if next.IsNegative() {
			next = decimal.Zero
		}
		return next, nil
	}
	return current, model.Validation("transaction type must be %q or %q", model.TransactionCredit, model.TransactionPayment)
}

// ReconstructBalances walks the history newest first starting from the
// current debt and reports the balance that stood right after each entry.
// Entries with equal timestamps keep their input order. The input slice is
// not modified.
func ReconstructBalances(current decimal.Decimal, txns []*model.Transaction) []model.BalanceEntry {
	sorted := newestFirst(txns)
	entries := make([]model.BalanceEntry, 0, len(sorted))

	running := current
	for _, tx := range sorted {
		entries = append(entries, model.BalanceEntry{Transaction: tx, BalanceAfter: running})
		running = undo(running, tx)
	}
	return entries
}

// OpeningBalance is the debt before the oldest entry of txns.
func OpeningBalance(current decimal.Decimal, txns []*model.Transaction) decimal.Decimal {
	running := current
	for _, tx := range txns {
		running = undo(running, tx)
	}
	return running
}

// Replay sums the history forward from zero: credits minus payments.
func Replay(txns []*model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txns {
		total = total.Add(tx.Delta())
	}
	return total
}

func undo(running decimal.Decimal, tx *model.Transaction) decimal.Decimal {
	return running.Sub(tx.Delta())
}

func newestFirst(txns []*model.Transaction) []*model.Transaction {
	sorted := slices.Clone(txns)
	slices.SortStableFunc(sorted, func(a, b *model.Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return sorted
}
