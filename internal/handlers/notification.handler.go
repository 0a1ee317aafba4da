package handlers

import (
	"context"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	xhttp "github.com/OrtegaGeovanny/tiendex/pkg/http"
)

type NotificationService interface {
	List(ctx context.Context, storeID string, limit, offset int) ([]*model.Notification, error)
	ListUnread(ctx context.Context, storeID string, limit, offset int) ([]*model.Notification, int64, error)
	MarkRead(ctx context.Context, storeID, id string) error
	Dismiss(ctx context.Context, storeID, id string) error
	Delete(ctx context.Context, storeID, id string) error
	SweepStore(ctx context.Context, storeID string) (int, error)
}

type NotificationHandler struct {
	svc NotificationService
}

func RegisterNotificationRoutes(e *xhttp.Group, h *NotificationHandler) {
	e.GET("/notifications", h.ListNotifications)
	e.GET("/notifications/unread", h.ListUnread)
	e.POST("/notifications/sweep", h.Sweep)
	e.POST("/notifications/{id}/read", h.MarkRead)
	e.POST("/notifications/{id}/dismiss", h.Dismiss)
	e.DELETE("/notifications/{id}", h.DeleteNotification)
}

func NewNotificationHandler(svc NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

type unreadResponse struct {
	Items []*model.Notification `json:"items"`
	Count int64                 `json:"count"`
}

type sweepResponse struct {
	Created int `json:"created"`
}

func (h *NotificationHandler) ListNotifications(ctx *xhttp.RequestCtx) {
	limit, offset, err := queryPage(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	items, err := h.svc.List(ctx, xhttp.StoreID(ctx), limit, offset)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.Notification]{Items: items, Total: int64(len(items))})
}

func (h *NotificationHandler) ListUnread(ctx *xhttp.RequestCtx) {
	limit, offset, err := queryPage(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	items, count, err := h.svc.ListUnread(ctx, xhttp.StoreID(ctx), limit, offset)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, unreadResponse{Items: items, Count: count})
}

func (h *NotificationHandler) MarkRead(ctx *xhttp.RequestCtx) {
	if err := h.svc.MarkRead(ctx, xhttp.StoreID(ctx), pathParam(ctx, "id")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

func (h *NotificationHandler) Dismiss(ctx *xhttp.RequestCtx) {
	if err := h.svc.Dismiss(ctx, xhttp.StoreID(ctx), pathParam(ctx, "id")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

func (h *NotificationHandler) DeleteNotification(ctx *xhttp.RequestCtx) {
	if err := h.svc.Delete(ctx, xhttp.StoreID(ctx), pathParam(ctx, "id")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

func (h *NotificationHandler) Sweep(ctx *xhttp.RequestCtx) {
	n, err := h.svc.SweepStore(ctx, xhttp.StoreID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, sweepResponse{Created: n})
}
