package handlers

import (
	"context"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	xhttp "github.com/OrtegaGeovanny/tiendex/pkg/http"
)

type StoreService interface {
	Profile(ctx context.Context, storeID string) (*model.Store, error)
	Update(ctx context.Context, storeID string, req model.StoreUpdateRequest) (*model.Store, error)
}

type StoreHandler struct {
	svc StoreService
}

func RegisterStoreRoutes(e *xhttp.Group, h *StoreHandler) {
	e.GET("/store", h.GetStore)
	e.PUT("/store", h.UpdateStore)
}

func NewStoreHandler(svc StoreService) *StoreHandler {
	return &StoreHandler{svc: svc}
}

type updateStoreRequest struct {
	Name string `json:"name"`
}

func (h *StoreHandler) GetStore(ctx *xhttp.RequestCtx) {
	s, err := h.svc.Profile(ctx, xhttp.StoreID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, s)
}

func (h *StoreHandler) UpdateStore(ctx *xhttp.RequestCtx) {
	var req updateStoreRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}
	s, err := h.svc.Update(ctx, xhttp.StoreID(ctx), model.StoreUpdateRequest{Name: req.Name})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, s)
}
