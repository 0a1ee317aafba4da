package services

import (
	"context"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
)

type ProductService struct {
	products ProductRepository
}

func NewProductService(products ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) Create(ctx context.Context, storeID string, req model.ProductCreateRequest) (*model.Product, error) {
	if err := requireStore(storeID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.products.Create(ctx, &model.Product{
		StoreID:       storeID,
		Name:          req.Name,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Unit:          req.Unit,
	})
}

func (s *ProductService) Get(ctx context.Context, storeID, id string) (*model.Product, error) {
	if err := requireStore(storeID); err != nil {
		return nil, err
	}
	return s.products.Get(ctx, storeID, id)
}

func (s *ProductService) List(ctx context.Context, storeID string, f model.ProductFilter) ([]*model.Product, int64, error) {
	if err := requireStore(storeID); err != nil {
		return nil, 0, err
	}
	return s.products.List(ctx, storeID, f)
}

func (s *ProductService) Update(ctx context.Context, storeID, id string, req model.ProductUpdateRequest) (*model.Product, error) {
	if err := requireStore(storeID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Empty() {
		return s.products.Get(ctx, storeID, id)
	}
	return s.products.Update(ctx, storeID, id, req)
}

// Delete removes a product. Past transactions keep their name snapshot.
func (s *ProductService) Delete(ctx context.Context, storeID, id string) error {
	if err := requireStore(storeID); err != nil {
		return err
	}
	return s.products.Delete(ctx, storeID, id)
}
