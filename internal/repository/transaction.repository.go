package repository

import (
	"context"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
)

const entityTransaction = "transaction"

// TransactionRepository is append only: entries are never updated or
// deleted.
type TransactionRepository struct {
	*pg.DB
}

func NewTransactionRepository(db *pg.DB) *TransactionRepository {
	return &TransactionRepository{
		db,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	entity := toTransactionEntity(txn)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, translateError(err, entityTransaction)
	}

	return toTransactionModel(entity), nil
}

func (r *TransactionRepository) Get(ctx context.Context, storeID, id string) (*model.Transaction, error) {
	var entity TransactionEntity
	err := r.Read(ctx).
		Where("id = ? AND store_id = ?", id, storeID).
		First(&entity).
		Error
	if err != nil {
		return nil, translateError(err, entityTransaction)
	}
	return toTransactionModel(&entity), nil
}

// ListByCustomer returns the whole history of a customer, newest first. Rows
// sharing a timestamp fall back to id order, which is creation order.
func (r *TransactionRepository) ListByCustomer(ctx context.Context, storeID, customerID string) ([]*model.Transaction, error) {
	var entities []*TransactionEntity
	err := r.Read(ctx).
		Where("store_id = ? AND customer_id = ?", storeID, customerID).
		Order("created_at DESC, id DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, translateError(err, entityTransaction)
	}
	return toTransactionModels(entities), nil
}

func (r *TransactionRepository) List(ctx context.Context, storeID string, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	q := r.Read(ctx).Model(&TransactionEntity{}).Where("store_id = ?", storeID)

	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", string(f.Type))
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, entityTransaction)
	}

	order := "created_at ASC, id ASC"
	if f.Desc {
		order = "created_at DESC, id DESC"
	}

	limit, offset := normalizePage(f.Limit, f.Offset)

	var entities []*TransactionEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, translateError(err, entityTransaction)
	}

	return toTransactionModels(entities), total, nil
}
