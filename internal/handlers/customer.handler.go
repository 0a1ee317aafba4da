package handlers

import (
	"context"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	xhttp "github.com/OrtegaGeovanny/tiendex/pkg/http"
	"github.com/shopspring/decimal"
)

type CustomerService interface {
	Create(ctx context.Context, storeID string, req model.CustomerCreateRequest) (*model.Customer, error)
	Get(ctx context.Context, storeID, id string) (*model.Customer, error)
	List(ctx context.Context, storeID string, f model.CustomerFilter) ([]*model.Customer, int64, error)
	Update(ctx context.Context, storeID, id string, req model.CustomerUpdateRequest) (*model.Customer, error)
}

// CustomerLedger is the part of the ledger the customer screens use.
type CustomerLedger interface {
	CustomerStatement(ctx context.Context, storeID, customerID string) (*model.CustomerStatement, error)
	VerifyCustomer(ctx context.Context, storeID, customerID string) (*model.LedgerCheck, error)
	RecordPayment(ctx context.Context, storeID, customerID string, amount decimal.Decimal, notes string) (*model.Transaction, error)
}

type CustomerHandler struct {
	svc    CustomerService
	ledger CustomerLedger
}

func RegisterCustomerRoutes(e *xhttp.Group, h *CustomerHandler) {
	e.POST("/customers", h.CreateCustomer)
	e.GET("/customers", h.ListCustomers)
	e.GET("/customers/{id}", h.GetCustomer)
	e.PUT("/customers/{id}", h.UpdateCustomer)
	e.GET("/customers/{id}/statement", h.GetStatement)
	e.GET("/customers/{id}/verify", h.VerifyCustomer)
	e.POST("/customers/{id}/payments", h.RecordPayment)
}

func NewCustomerHandler(svc CustomerService, ledger CustomerLedger) *CustomerHandler {
	return &CustomerHandler{
		svc:    svc,
		ledger: ledger,
	}
}

type createCustomerRequest struct {
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	InitialDebt decimal.Decimal `json:"initial_debt"`
}

type updateCustomerRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes"`
}

func (h *CustomerHandler) CreateCustomer(ctx *xhttp.RequestCtx) {
	var req createCustomerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}
	c, err := h.svc.Create(ctx, xhttp.StoreID(ctx), model.CustomerCreateRequest{
		Name:        req.Name,
		Phone:       req.Phone,
		InitialDebt: req.InitialDebt,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, c)
}

func (h *CustomerHandler) ListCustomers(ctx *xhttp.RequestCtx) {
	f := model.CustomerFilter{
		Search:  query(ctx, "search"),
		OrderBy: model.CustomerOrder(query(ctx, "order_by")),
		Desc:    queryDesc(ctx),
	}

	var err error
	if f.MinDebt, err = queryDecimal(ctx, "min_debt"); err != nil {
		writeError(ctx, err)
		return
	}
	if f.Limit, f.Offset, err = queryPage(ctx); err != nil {
		writeError(ctx, err)
		return
	}

	items, total, err := h.svc.List(ctx, xhttp.StoreID(ctx), f)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.Customer]{Items: items, Total: total})
}

func (h *CustomerHandler) GetCustomer(ctx *xhttp.RequestCtx) {
	c, err := h.svc.Get(ctx, xhttp.StoreID(ctx), pathParam(ctx, "id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, c)
}

func (h *CustomerHandler) UpdateCustomer(ctx *xhttp.RequestCtx) {
	var req updateCustomerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}
	c, err := h.svc.Update(ctx, xhttp.StoreID(ctx), pathParam(ctx, "id"), model.CustomerUpdateRequest{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, c)
}

func (h *CustomerHandler) GetStatement(ctx *xhttp.RequestCtx) {
	st, err := h.ledger.CustomerStatement(ctx, xhttp.StoreID(ctx), pathParam(ctx, "id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, st)
}

func (h *CustomerHandler) VerifyCustomer(ctx *xhttp.RequestCtx) {
	check, err := h.ledger.VerifyCustomer(ctx, xhttp.StoreID(ctx), pathParam(ctx, "id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, check)
}

func (h *CustomerHandler) RecordPayment(ctx *xhttp.RequestCtx) {
	var req paymentRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}
	txn, err := h.ledger.RecordPayment(ctx, xhttp.StoreID(ctx), pathParam(ctx, "id"), req.Amount, req.Notes)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, txn)
}
