package handlers

import (
	"context"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	xhttp "github.com/OrtegaGeovanny/tiendex/pkg/http"
)

type HealthService interface {
	Check(ctx context.Context) *model.HealthStatus
}

type HealthHandler struct {
	svc HealthService
}

func RegisterHealthRoutes(e *xhttp.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(svc HealthService) *HealthHandler {
	return &HealthHandler{
		svc: svc,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	st := h.svc.Check(ctx)
	status := xhttp.StatusOK
	if st.Status != model.HealthOK {
		status = xhttp.StatusServiceUnavailable
	}
	writeJSON(ctx, status, st)
}
