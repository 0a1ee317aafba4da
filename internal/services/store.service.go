package services

import (
	"context"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
)

type StoreService struct {
	stores StoreRepository
}

func NewStoreService(stores StoreRepository) *StoreService {
	return &StoreService{stores: stores}
}

// Profile returns the store, creating an empty profile on first access.
func (s *StoreService) Profile(ctx context.Context, storeID string) (*model.Store, error) {
	if err := requireStore(storeID); err != nil {
		return nil, err
	}
	return s.stores.GetOrCreate(ctx, storeID)
}

func (s *StoreService) Update(ctx context.Context, storeID string, req model.StoreUpdateRequest) (*model.Store, error) {
	if err := requireStore(storeID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.stores.Update(ctx, storeID, req)
}
