package handlers

import (
	"context"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	xhttp "github.com/OrtegaGeovanny/tiendex/pkg/http"
	"github.com/shopspring/decimal"
)

type LedgerService interface {
	RecordTransaction(ctx context.Context, storeID string, req model.TransactionCreateRequest) (*model.Transaction, error)
	GetTransaction(ctx context.Context, storeID, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, storeID string, f model.TransactionFilter) ([]*model.Transaction, int64, error)
}

type TransactionHandler struct {
	svc LedgerService
}

func RegisterTransactionRoutes(e *xhttp.Group, h *TransactionHandler) {
	e.POST("/transactions", h.CreateTransaction)
	e.GET("/transactions", h.ListTransactions)
	e.GET("/transactions/{id}", h.GetTransaction)
}

func NewTransactionHandler(svc LedgerService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

type createTransactionRequest struct {
	CustomerID  string           `json:"customer_id"`
	Type        string           `json:"type"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	ProductID   string           `json:"product_id"`
	ProductName string           `json:"product_name"`
	Quantity    *int             `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	Notes       string           `json:"notes"`
}

func (h *TransactionHandler) CreateTransaction(ctx *xhttp.RequestCtx) {
	var req createTransactionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	txn, err := h.svc.RecordTransaction(ctx, xhttp.StoreID(ctx), model.TransactionCreateRequest{
		CustomerID:  req.CustomerID,
		Type:        model.TransactionType(req.Type),
		TotalAmount: req.TotalAmount,
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, txn)
}

func (h *TransactionHandler) ListTransactions(ctx *xhttp.RequestCtx) {
	f := model.TransactionFilter{
		CustomerID: query(ctx, "customer_id"),
		Type:       model.TransactionType(query(ctx, "type")),
		Desc:       queryDesc(ctx),
	}

	var err error
	if f.From, err = queryTime(ctx, "from"); err != nil {
		writeError(ctx, err)
		return
	}
	if f.To, err = queryTime(ctx, "to"); err != nil {
		writeError(ctx, err)
		return
	}
	if f.Limit, f.Offset, err = queryPage(ctx); err != nil {
		writeError(ctx, err)
		return
	}

	items, total, err := h.svc.ListTransactions(ctx, xhttp.StoreID(ctx), f)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.Transaction]{Items: items, Total: total})
}

func (h *TransactionHandler) GetTransaction(ctx *xhttp.RequestCtx) {
	txn, err := h.svc.GetTransaction(ctx, xhttp.StoreID(ctx), pathParam(ctx, "id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, txn)
}
