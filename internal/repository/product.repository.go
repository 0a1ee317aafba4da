package repository

import (
	"context"
	"strings"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
)

const entityProduct = "product"

type ProductRepository struct {
	*pg.DB
}

func NewProductRepository(db *pg.DB) *ProductRepository {
	return &ProductRepository{
		db,
	}
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	entity := toProductEntity(p)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, translateError(err, entityProduct)
	}

	return toProductModel(entity), nil
}

func (r *ProductRepository) Get(ctx context.Context, storeID, id string) (*model.Product, error) {
	var entity ProductEntity
	err := r.Read(ctx).
		Where("id = ? AND store_id = ?", id, storeID).
		First(&entity).
		Error
	if err != nil {
		return nil, translateError(err, entityProduct)
	}
	return toProductModel(&entity), nil
}

func (r *ProductRepository) List(ctx context.Context, storeID string, f model.ProductFilter) ([]*model.Product, int64, error) {
	q := r.Read(ctx).Model(&ProductEntity{}).Where("store_id = ?", storeID)

	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, entityProduct)
	}

	limit, offset := normalizePage(f.Limit, f.Offset)

	var entities []*ProductEntity
	if err := q.Order("name ASC, id ASC").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, translateError(err, entityProduct)
	}

	return toProductModels(entities), total, nil
}

func (r *ProductRepository) Update(ctx context.Context, storeID, id string, req model.ProductUpdateRequest) (*model.Product, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}

	result := r.Write(ctx).
		Model(&ProductEntity{}).
		Where("id = ? AND store_id = ?", id, storeID).
		Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error, entityProduct)
	}
	if result.RowsAffected == 0 {
		return nil, model.NotFound(entityProduct)
	}

	return r.Get(ctx, storeID, id)
}

func (r *ProductRepository) Delete(ctx context.Context, storeID, id string) error {
	result := r.Write(ctx).
		Where("id = ? AND store_id = ?", id, storeID).
		Delete(&ProductEntity{})
	if result.Error != nil {
		return translateError(result.Error, entityProduct)
	}
	if result.RowsAffected == 0 {
		return model.NotFound(entityProduct)
	}
	return nil
}
