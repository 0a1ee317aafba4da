package repository

import (
	"context"
	"strings"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entityCustomer = "customer"

type CustomerRepository struct {
	*pg.DB
}

func NewCustomerRepository(db *pg.DB) *CustomerRepository {
	return &CustomerRepository{
		db,
	}
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(c)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, translateError(err, entityCustomer)
	}

	return toCustomerModel(entity), nil
}

func (r *CustomerRepository) Get(ctx context.Context, storeID, id string) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).
		Where("id = ? AND store_id = ?", id, storeID).
		First(&entity).
		Error
	if err != nil {
		return nil, translateError(err, entityCustomer)
	}
	return toCustomerModel(&entity), nil
}

// GetForUpdate reads the customer row and holds its lock until the
// surrounding transaction ends. The returned Version is the compare-and-set
// key for SetDebt.
func (r *CustomerRepository) GetForUpdate(ctx context.Context, storeID, id string) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Write(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND store_id = ?", id, storeID).
		First(&entity).
		Error
	if err != nil {
		return nil, translateError(err, entityCustomer)
	}
	return toCustomerModel(&entity), nil
}

// SetDebt writes the new debt only if nobody bumped the version since it was
// read. A miss is reported as a retriable conflict.
func (r *CustomerRepository) SetDebt(ctx context.Context, storeID, id string, version int64, debt decimal.Decimal) error {
	result := r.Write(ctx).
		Model(&CustomerEntity{}).
		Where("id = ? AND store_id = ? AND version = ?", id, storeID, version).
		Updates(map[string]any{
			"total_debt": debt,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return translateError(result.Error, entityCustomer)
	}
	if result.RowsAffected == 0 {
		return model.Conflict(pg.ErrConflict)
	}
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, storeID, id string, req model.CustomerUpdateRequest) (*model.Customer, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	result := r.Write(ctx).
		Model(&CustomerEntity{}).
		Where("id = ? AND store_id = ?", id, storeID).
		Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error, entityCustomer)
	}
	if result.RowsAffected == 0 {
		return nil, model.NotFound(entityCustomer)
	}

	return r.Get(ctx, storeID, id)
}

func (r *CustomerRepository) List(ctx context.Context, storeID string, f model.CustomerFilter) ([]*model.Customer, int64, error) {
	q := r.Read(ctx).Model(&CustomerEntity{}).Where("store_id = ?", storeID)

	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if f.MinDebt != nil {
		q = q.Where("total_debt > ?", *f.MinDebt)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, entityCustomer)
	}

	dir := " ASC"
	if f.Desc {
		dir = " DESC"
	}
	var order string
	switch f.OrderBy {
	case model.CustomerOrderDebt:
		order = "total_debt" + dir + ", id" + dir
	case model.CustomerOrderCreated:
		order = "created_at" + dir + ", id" + dir
	default:
		order = "name" + dir + ", id" + dir
	}

	limit, offset := normalizePage(f.Limit, f.Offset)

	var entities []*CustomerEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, translateError(err, entityCustomer)
	}

	return toCustomerModels(entities), total, nil
}

// ListWithDebt returns every customer of the store that owes money, largest
// debt first.
func (r *CustomerRepository) ListWithDebt(ctx context.Context, storeID string) ([]*model.Customer, error) {
	var entities []*CustomerEntity
	err := r.Read(ctx).
		Where("store_id = ? AND total_debt > ?", storeID, decimal.Zero).
		Order("total_debt DESC, id ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, translateError(err, entityCustomer)
	}
	return toCustomerModels(entities), nil
}

// StoresWithDebt lists the stores that have at least one indebted customer.
func (r *CustomerRepository) StoresWithDebt(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.Read(ctx).
		Model(&CustomerEntity{}).
		Where("total_debt > ?", decimal.Zero).
		Distinct("store_id").
		Order("store_id").
		Pluck("store_id", &ids).
		Error
	if err != nil {
		return nil, translateError(err, entityCustomer)
	}
	return ids, nil
}
