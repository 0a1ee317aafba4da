package services

import (
	"context"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/shopspring/decimal"
)

// Transactor opens database transactions carried by the context. The
// repositories below resolve to that transaction when they see one.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	WithinTransactionRetry(ctx context.Context, maxRetries int, fn func(ctx context.Context) error) error
}

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) (*model.Customer, error)
	Get(ctx context.Context, storeID, id string) (*model.Customer, error)
	GetForUpdate(ctx context.Context, storeID, id string) (*model.Customer, error)
	SetDebt(ctx context.Context, storeID, id string, version int64, debt decimal.Decimal) error
	Update(ctx context.Context, storeID, id string, req model.CustomerUpdateRequest) (*model.Customer, error)
	List(ctx context.Context, storeID string, f model.CustomerFilter) ([]*model.Customer, int64, error)
	ListWithDebt(ctx context.Context, storeID string) ([]*model.Customer, error)
	StoresWithDebt(ctx context.Context) ([]string, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	Get(ctx context.Context, storeID, id string) (*model.Transaction, error)
	ListByCustomer(ctx context.Context, storeID, customerID string) ([]*model.Transaction, error)
	List(ctx context.Context, storeID string, f model.TransactionFilter) ([]*model.Transaction, int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) (*model.Product, error)
	Get(ctx context.Context, storeID, id string) (*model.Product, error)
	List(ctx context.Context, storeID string, f model.ProductFilter) ([]*model.Product, int64, error)
	Update(ctx context.Context, storeID, id string, req model.ProductUpdateRequest) (*model.Product, error)
	Delete(ctx context.Context, storeID, id string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	List(ctx context.Context, storeID string, limit, offset int) ([]*model.Notification, error)
	ListUnread(ctx context.Context, storeID string, limit, offset int) ([]*model.Notification, error)
	CountUnread(ctx context.Context, storeID string) (int64, error)
	ExistsActiveForCustomer(ctx context.Context, storeID, customerID string) (bool, error)
	MarkRead(ctx context.Context, storeID, id string) error
	Dismiss(ctx context.Context, storeID, id string) error
	Delete(ctx context.Context, storeID, id string) error
}

type StoreRepository interface {
	GetOrCreate(ctx context.Context, id string) (*model.Store, error)
	Update(ctx context.Context, id string, req model.StoreUpdateRequest) (*model.Store, error)
}

// EventPublisher appends ledger events to the stream read by the worker.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, ev *model.LedgerEvent) error
}
