package services

import (
	"context"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/shopspring/decimal"
)

const openingBalanceNote = "opening balance"

type CustomerService struct {
	tx        Transactor
	customers CustomerRepository
	ledger    *LedgerService
}

func NewCustomerService(tx Transactor, customers CustomerRepository, ledger *LedgerService) *CustomerService {
	return &CustomerService{
		tx:        tx,
		customers: customers,
		ledger:    ledger,
	}
}

// Create adds a customer. A positive initial debt is booked as an opening
// credit in the same commit, so the ledger always sums to the stored debt.
func (s *CustomerService) Create(ctx context.Context, storeID string, req model.CustomerCreateRequest) (*model.Customer, error) {
	if err := requireStore(storeID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		customer *model.Customer
		opening  *model.Transaction
		debt     decimal.Decimal
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		customer, err = s.customers.Create(ctx, &model.Customer{
			StoreID:   storeID,
			Name:      req.Name,
			Phone:     req.Phone,
			TotalDebt: decimal.Zero,
		})
		if err != nil {
			return err
		}
		if !req.InitialDebt.IsPositive() {
			return nil
		}

		opening, debt, err = s.ledger.record(ctx, storeID, model.TransactionCreateRequest{
			CustomerID:  customer.ID,
			Type:        model.TransactionCredit,
			TotalAmount: req.InitialDebt,
			Notes:       openingBalanceNote,
		})
		return err
	})
	if err != nil {
		return nil, s.ledger.finalizeError(err)
	}

	if opening != nil {
		customer.TotalDebt = debt
		customer.Version++
		s.ledger.publish(ctx, opening, debt)
	}
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, storeID, id string) (*model.Customer, error) {
	if err := requireStore(storeID); err != nil {
		return nil, err
	}
	return s.customers.Get(ctx, storeID, id)
}

func (s *CustomerService) List(ctx context.Context, storeID string, f model.CustomerFilter) ([]*model.Customer, int64, error) {
	if err := requireStore(storeID); err != nil {
		return nil, 0, err
	}
	switch f.OrderBy {
	case "", model.CustomerOrderName, model.CustomerOrderDebt, model.CustomerOrderCreated:
	default:
		return nil, 0, model.Validation("customers can be ordered by %q, %q or %q",
			model.CustomerOrderName, model.CustomerOrderDebt, model.CustomerOrderCreated)
	}
	if f.MinDebt != nil && f.MinDebt.IsNegative() {
		return nil, 0, model.Validation("minimum debt must be a non-negative number")
	}
	return s.customers.List(ctx, storeID, f)
}

// Update changes name and phone only.
func (s *CustomerService) Update(ctx context.Context, storeID, id string, req model.CustomerUpdateRequest) (*model.Customer, error) {
	if err := requireStore(storeID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Name == nil && req.Phone == nil {
		return s.customers.Get(ctx, storeID, id)
	}
	return s.customers.Update(ctx, storeID, id, req)
}
