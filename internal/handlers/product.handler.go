package handlers

import (
	"context"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	xhttp "github.com/OrtegaGeovanny/tiendex/pkg/http"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	Create(ctx context.Context, storeID string, req model.ProductCreateRequest) (*model.Product, error)
	Get(ctx context.Context, storeID, id string) (*model.Product, error)
	List(ctx context.Context, storeID string, f model.ProductFilter) ([]*model.Product, int64, error)
	Update(ctx context.Context, storeID, id string, req model.ProductUpdateRequest) (*model.Product, error)
	Delete(ctx context.Context, storeID, id string) error
}

type ProductHandler struct {
	svc ProductService
}

func RegisterProductRoutes(e *xhttp.Group, h *ProductHandler) {
	e.POST("/products", h.CreateProduct)
	e.GET("/products", h.ListProducts)
	e.GET("/products/{id}", h.GetProduct)
	e.PUT("/products/{id}", h.UpdateProduct)
	e.DELETE("/products/{id}", h.DeleteProduct)
}

func NewProductHandler(svc ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type createProductRequest struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Unit          string          `json:"unit"`
}

type updateProductRequest struct {
	Name          *string          `json:"name"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity"`
	Unit          *string          `json:"unit"`
}

func (h *ProductHandler) CreateProduct(ctx *xhttp.RequestCtx) {
	var req createProductRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}
	p, err := h.svc.Create(ctx, xhttp.StoreID(ctx), model.ProductCreateRequest{
		Name:          req.Name,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Unit:          req.Unit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, p)
}

func (h *ProductHandler) ListProducts(ctx *xhttp.RequestCtx) {
	f := model.ProductFilter{Search: query(ctx, "search")}

	var err error
	if f.Limit, f.Offset, err = queryPage(ctx); err != nil {
		writeError(ctx, err)
		return
	}

	items, total, err := h.svc.List(ctx, xhttp.StoreID(ctx), f)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.Product]{Items: items, Total: total})
}

func (h *ProductHandler) GetProduct(ctx *xhttp.RequestCtx) {
	p, err := h.svc.Get(ctx, xhttp.StoreID(ctx), pathParam(ctx, "id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, p)
}

func (h *ProductHandler) UpdateProduct(ctx *xhttp.RequestCtx) {
	var req updateProductRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}
	p, err := h.svc.Update(ctx, xhttp.StoreID(ctx), pathParam(ctx, "id"), model.ProductUpdateRequest{
		Name:          req.Name,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Unit:          req.Unit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(ctx *xhttp.RequestCtx) {
	if err := h.svc.Delete(ctx, xhttp.StoreID(ctx), pathParam(ctx, "id")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}
