package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/ledger"
	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
	"github.com/OrtegaGeovanny/tiendex/pkg/prom"
	"github.com/shopspring/decimal"
)

const publishTimeout = 2 * time.Second

type LedgerService struct {
	tx           Transactor
	customers    CustomerRepository
	transactions TransactionRepository
	products     ProductRepository
	events       EventPublisher
	maxRetries   int
}

// NewLedgerService wires the recorder. events may be nil, in which case no
// ledger events are published.
func NewLedgerService(tx Transactor, customers CustomerRepository, transactions TransactionRepository, products ProductRepository, events EventPublisher, maxRetries int) *LedgerService {
	if maxRetries < 0 {
		maxRetries = pg.DefaultMaxRetries
	}
	return &LedgerService{
		tx:           tx,
		customers:    customers,
		transactions: transactions,
		products:     products,
		events:       events,
		maxRetries:   maxRetries,
	}
}

// RecordTransaction appends a ledger entry and moves the customer's debt in
// the same commit. Nothing is written when validation fails, the customer
// or product is unknown, or a payment exceeds the outstanding balance.
func (s *LedgerService) RecordTransaction(ctx context.Context, storeID string, req model.TransactionCreateRequest) (*model.Transaction, error) {
	start := time.Now()
	txType := string(req.Type)

	if err := requireStore(storeID); err != nil {
		prom.RecordTransaction(txType, prom.OutcomeRejected, 0)
		return nil, err
	}
	if err := req.Validate(); err != nil {
		logger.Warn("[ledger] transaction rejected", "store_id", storeID, "customer_id", req.CustomerID, "error", err)
		prom.RecordTransaction(txType, prom.OutcomeRejected, 0)
		return nil, err
	}

	var (
		created *model.Transaction
		debt    decimal.Decimal
	)
	err := s.tx.WithinTransactionRetry(ctx, s.maxRetries, func(ctx context.Context) error {
		var err error
		created, debt, err = s.record(ctx, storeID, req)
		return err
	})
	if err != nil {
		err = s.finalizeError(err)
		outcome := outcomeOf(err)
		logger.Warn("[ledger] transaction not recorded",
			"store_id", storeID,
			"customer_id", req.CustomerID,
			"type", txType,
			"amount", req.TotalAmount.String(),
			"outcome", outcome,
			"error", err)
		prom.RecordTransaction(txType, outcome, time.Since(start).Seconds())
		return nil, err
	}

	logger.Info("[ledger] transaction recorded",
		"store_id", storeID,
		"customer_id", created.CustomerID,
		"transaction_id", created.ID,
		"type", txType,
		"amount", created.TotalAmount.String(),
		"total_debt", debt.String())
	prom.RecordTransaction(txType, prom.OutcomeRecorded, time.Since(start).Seconds())

	s.publish(ctx, created, debt)
	return created, nil
}

// RecordPayment is the shorthand used by the payment screen.
func (s *LedgerService) RecordPayment(ctx context.Context, storeID, customerID string, amount decimal.Decimal, notes string) (*model.Transaction, error) {
	return s.RecordTransaction(ctx, storeID, model.TransactionCreateRequest{
		CustomerID:  customerID,
		Type:        model.TransactionPayment,
		TotalAmount: amount,
		Notes:       notes,
	})
}

// record runs inside an open transaction. It locks the customer row, appends
// the entry and compare-and-sets the new debt.
func (s *LedgerService) record(ctx context.Context, storeID string, req model.TransactionCreateRequest) (*model.Transaction, decimal.Decimal, error) {
	customer, err := s.customers.GetForUpdate(ctx, storeID, req.CustomerID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	txn := &model.Transaction{
		StoreID:      storeID,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		ProductName:  req.ProductName,
		Quantity:     req.Quantity,
		Price:        req.Price,
		TotalAmount:  req.TotalAmount,
		Type:         req.Type,
		Notes:        req.Notes,
	}

	if req.ProductID != "" {
		product, err := s.products.Get(ctx, storeID, req.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		txn.ProductID = product.ID
		txn.ProductName = product.Name
		if txn.Price == nil {
			price := product.Price
			txn.Price = &price
		}
	}

	debt, err := ledger.Apply(customer.TotalDebt, req.Type, req.TotalAmount)
	if err != nil {
		return nil, decimal.Zero, err
	}

	created, err := s.transactions.Create(ctx, txn)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if err := s.customers.SetDebt(ctx, storeID, customer.ID, customer.Version, debt); err != nil {
		return nil, decimal.Zero, err
	}
	return created, debt, nil
}

func (s *LedgerService) publish(ctx context.Context, txn *model.Transaction, debt decimal.Decimal) {
	if s.events == nil {
		return
	}
	// the entry is committed; a cancelled request must not drop the event
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.events.PublishLedgerEvent(pctx, model.NewTransactionRecordedEvent(txn, debt)); err != nil {
		prom.IncEventPublishFailure()
		logger.Error("[ledger] event not published", "transaction_id", txn.ID, "error", err)
	}
}

func (s *LedgerService) finalizeError(err error) error {
	if errors.Is(err, pg.ErrRetriesExhausted) {
		return model.Conflict(err)
	}
	var merr *model.Error
	if errors.As(err, &merr) {
		return err
	}
	return model.Unavailable(err)
}

func (s *LedgerService) GetTransaction(ctx context.Context, storeID, id string) (*model.Transaction, error) {
	if err := requireStore(storeID); err != nil {
		return nil, err
	}
	return s.transactions.Get(ctx, storeID, id)
}

func (s *LedgerService) ListTransactions(ctx context.Context, storeID string, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	if err := requireStore(storeID); err != nil {
		return nil, 0, err
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, 0, model.Validation("transaction type must be %q or %q", model.TransactionCredit, model.TransactionPayment)
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, 0, model.Validation("the end of the date range is before its start")
	}
	return s.transactions.List(ctx, storeID, f)
}

// CustomerStatement returns the customer's history, newest first, with the
// balance that stood right after each entry.
func (s *LedgerService) CustomerStatement(ctx context.Context, storeID, customerID string) (*model.CustomerStatement, error) {
	customer, txns, err := s.history(ctx, storeID, customerID)
	if err != nil {
		return nil, err
	}
	return &model.CustomerStatement{
		Customer:       customer,
		Entries:        ledger.ReconstructBalances(customer.TotalDebt, txns),
		OpeningBalance: ledger.OpeningBalance(customer.TotalDebt, txns),
	}, nil
}

// VerifyCustomer replays the ledger and compares it with the stored debt.
func (s *LedgerService) VerifyCustomer(ctx context.Context, storeID, customerID string) (*model.LedgerCheck, error) {
	customer, txns, err := s.history(ctx, storeID, customerID)
	if err != nil {
		return nil, err
	}

	replayed := ledger.Replay(txns)
	check := &model.LedgerCheck{
		CustomerID:   customer.ID,
		TotalDebt:    customer.TotalDebt,
		LedgerDebt:   replayed,
		Transactions: len(txns),
		Consistent:   replayed.Equal(customer.TotalDebt),
	}
	if !check.Consistent {
		logger.Error("[ledger] stored debt does not match ledger",
			"store_id", storeID,
			"customer_id", customer.ID,
			"total_debt", customer.TotalDebt.String(),
			"ledger_debt", replayed.String())
	}
	return check, nil
}

// history reads the customer and its entries from one snapshot.
func (s *LedgerService) history(ctx context.Context, storeID, customerID string) (*model.Customer, []*model.Transaction, error) {
	if err := requireStore(storeID); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(customerID) == "" {
		return nil, nil, model.Validation("customer_id is required")
	}

	var (
		customer *model.Customer
		txns     []*model.Transaction
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if customer, err = s.customers.Get(ctx, storeID, customerID); err != nil {
			return err
		}
		txns, err = s.transactions.ListByCustomer(ctx, storeID, customerID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return customer, txns, nil
}

func outcomeOf(err error) string {
	switch model.KindOf(err) {
	case model.KindValidation, model.KindNotFound:
		return prom.OutcomeRejected
	case model.KindBalanceExceeded:
		return prom.OutcomeBalanceExceeded
	case model.KindConflict:
		return prom.OutcomeConflict
	}
	return prom.OutcomeFailed
}

func requireStore(storeID string) error {
	if strings.TrimSpace(storeID) == "" {
		return model.Validation("store id is required")
	}
	return nil
}
