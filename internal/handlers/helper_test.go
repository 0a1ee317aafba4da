package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	xhttp "github.com/OrtegaGeovanny/tiendex/pkg/http"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

const testStore = "store-a"

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	xhttp.WithStoreID(ctx, testStore)
	return ctx
}

func withParam(ctx *xhttp.RequestCtx, name, value string) *xhttp.RequestCtx {
	ctx.SetUserValue(name, value)
	return ctx
}

func decodeError(t *testing.T, ctx *xhttp.RequestCtx) errorResponse {
	var body errorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	return body
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordTransaction(ctx context.Context, storeID string, req model.TransactionCreateRequest) (*model.Transaction, error) {
	args := m.Called(ctx, storeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockLedgerService) GetTransaction(ctx context.Context, storeID, id string) (*model.Transaction, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, storeID string, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	args := m.Called(ctx, storeID, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) CustomerStatement(ctx context.Context, storeID, customerID string) (*model.CustomerStatement, error) {
	args := m.Called(ctx, storeID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomerStatement), args.Error(1)
}

func (m *MockLedgerService) VerifyCustomer(ctx context.Context, storeID, customerID string) (*model.LedgerCheck, error) {
	args := m.Called(ctx, storeID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerCheck), args.Error(1)
}

func (m *MockLedgerService) RecordPayment(ctx context.Context, storeID, customerID string, amount decimal.Decimal, notes string) (*model.Transaction, error) {
	args := m.Called(ctx, storeID, customerID, amount, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Create(ctx context.Context, storeID string, req model.CustomerCreateRequest) (*model.Customer, error) {
	args := m.Called(ctx, storeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Get(ctx context.Context, storeID, id string) (*model.Customer, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) List(ctx context.Context, storeID string, f model.CustomerFilter) ([]*model.Customer, int64, error) {
	args := m.Called(ctx, storeID, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerService) Update(ctx context.Context, storeID, id string, req model.CustomerUpdateRequest) (*model.Customer, error) {
	args := m.Called(ctx, storeID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, storeID string, limit, offset int) ([]*model.Notification, error) {
	args := m.Called(ctx, storeID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Notification), args.Error(1)
}

func (m *MockNotificationService) ListUnread(ctx context.Context, storeID string, limit, offset int) ([]*model.Notification, int64, error) {
	args := m.Called(ctx, storeID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, storeID, id string) error {
	return m.Called(ctx, storeID, id).Error(0)
}

func (m *MockNotificationService) Dismiss(ctx context.Context, storeID, id string) error {
	return m.Called(ctx, storeID, id).Error(0)
}

func (m *MockNotificationService) Delete(ctx context.Context, storeID, id string) error {
	return m.Called(ctx, storeID, id).Error(0)
}

func (m *MockNotificationService) SweepStore(ctx context.Context, storeID string) (int, error) {
	args := m.Called(ctx, storeID)
	return args.Int(0), args.Error(1)
}
