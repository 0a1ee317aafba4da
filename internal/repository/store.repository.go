package repository

import (
	"context"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
	"gorm.io/gorm/clause"
)

const entityStore = "store"

type StoreRepository struct {
	*pg.DB
}

func NewStoreRepository(db *pg.DB) *StoreRepository {
	return &StoreRepository{
		db,
	}
}

// GetOrCreate returns the profile of the tenant, creating an empty one the
// first time the tenant is seen.
func (r *StoreRepository) GetOrCreate(ctx context.Context, id string) (*model.Store, error) {
	now := time.Now().UTC()
	entity := &StoreEntity{ID: id, CreatedAt: now, UpdatedAt: now}

	err := r.Write(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entity).
		Error
	if err != nil {
		return nil, translateError(err, entityStore)
	}

	var stored StoreEntity
	if err := r.Write(ctx).Where("id = ?", id).First(&stored).Error; err != nil {
		return nil, translateError(err, entityStore)
	}
	return toStoreModel(&stored), nil
}

func (r *StoreRepository) Update(ctx context.Context, id string, req model.StoreUpdateRequest) (*model.Store, error) {
	if _, err := r.GetOrCreate(ctx, id); err != nil {
		return nil, err
	}

	err := r.Write(ctx).
		Model(&StoreEntity{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": req.Name, "updated_at": time.Now().UTC()}).
		Error
	if err != nil {
		return nil, translateError(err, entityStore)
	}

	return r.GetOrCreate(ctx, id)
}
