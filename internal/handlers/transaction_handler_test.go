package handlers

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("records a credit", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		expected := &model.Transaction{ID: "tx-1", CustomerID: "c-1", Type: model.TransactionCredit, TotalAmount: dec("12.50")}
		svc.On("RecordTransaction", mock.Anything, testStore, mock.MatchedBy(func(req model.TransactionCreateRequest) bool {
			return req.CustomerID == "c-1" && req.Type == model.TransactionCredit && req.TotalAmount.Equal(dec("12.50")) &&
				req.Quantity != nil && *req.Quantity == 2
		})).Return(expected, nil)

		ctx := setupTestContext("POST", "/api/v1/transactions",
			[]byte(`{"customer_id":"c-1","type":"credit","total_amount":"12.50","quantity":2}`))
		handler.CreateTransaction(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())
		var got model.Transaction
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
		assert.Equal(t, "tx-1", got.ID)
		svc.AssertExpectations(t)
	})

	t.Run("accepts a numeric amount", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)
		svc.On("RecordTransaction", mock.Anything, testStore, mock.MatchedBy(func(req model.TransactionCreateRequest) bool {
			return req.TotalAmount.Equal(dec("7.25"))
		})).Return(&model.Transaction{ID: "tx-2"}, nil)

		ctx := setupTestContext("POST", "/api/v1/transactions", []byte(`{"customer_id":"c-1","type":"payment","total_amount":7.25}`))
		handler.CreateTransaction(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())
	})

	t.Run("invalid JSON", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		ctx := setupTestContext("POST", "/api/v1/transactions", []byte(`{"customer_id":"c-1","total_amount":"ten"}`))
		handler.CreateTransaction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		body := decodeError(t, ctx)
		assert.Equal(t, "validation", body.Kind)
		assert.Equal(t, "request body is not valid JSON", body.Error)
		svc.AssertNotCalled(t, "RecordTransaction", mock.Anything, mock.Anything, mock.Anything)
	})

	errCases := []struct {
		name      string
		err       error
		status    int
		kind      string
		retriable bool
		message   string
	}{
		{"validation", model.Validation("total amount must be greater than zero"), 400, "validation", false, "total amount must be greater than zero"},
		{"not found", model.NotFound("customer"), 404, "not_found", false, "customer not found"},
		{"balance exceeded", model.BalanceExceeded(dec("40.01"), dec("40")), 409, "balance_exceeded", false, "payment amount 40.01 cannot exceed outstanding balance 40"},
		{"conflict", model.Conflict(pg.ErrConflict), 409, "conflict", true, "the record was changed by another request, please try again"},
		{"already exists", model.AlreadyExists("notification", errors.New("duplicate key")), 409, "conflict", false, "notification already exists"},
		{"unavailable", errors.New("dial tcp: connection refused"), 503, "unavailable", false, "service unavailable, please try again later"},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockLedgerService)
			handler := NewTransactionHandler(svc)
			svc.On("RecordTransaction", mock.Anything, testStore, mock.Anything).Return(nil, tc.err)

			ctx := setupTestContext("POST", "/api/v1/transactions", []byte(`{"customer_id":"c-1","type":"payment","total_amount":"1"}`))
			handler.CreateTransaction(ctx)

			assert.Equal(t, tc.status, ctx.Response.StatusCode())
			body := decodeError(t, ctx)
			assert.Equal(t, tc.kind, body.Kind)
			assert.Equal(t, tc.retriable, body.Retriable)
			assert.Equal(t, tc.message, body.Error)
		})
	}
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	t.Run("parses filters", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		svc.On("ListTransactions", mock.Anything, testStore, mock.MatchedBy(func(f model.TransactionFilter) bool {
			return f.CustomerID == "c-1" && f.Type == model.TransactionPayment && f.Desc &&
				f.From != nil && f.From.Equal(from) && f.To == nil && f.Limit == 20 && f.Offset == 40
		})).Return([]*model.Transaction{{ID: "tx-1"}}, int64(41), nil)

		ctx := setupTestContext("GET", "/api/v1/transactions?customer_id=c-1&type=payment&from=2024-01-01&order=desc&limit=20&offset=40", nil)
		handler.ListTransactions(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var resp listResponse[*model.Transaction]
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, int64(41), resp.Total)
		assert.Len(t, resp.Items, 1)
		svc.AssertExpectations(t)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		ctx := setupTestContext("GET", "/api/v1/transactions?from=yesterday", nil)
		handler.ListTransactions(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a malformed limit", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		ctx := setupTestContext("GET", "/api/v1/transactions?limit=ten", nil)
		handler.ListTransactions(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	svc := new(MockLedgerService)
	handler := NewTransactionHandler(svc)
	svc.On("GetTransaction", mock.Anything, testStore, "tx-1").Return(&model.Transaction{ID: "tx-1"}, nil)
	svc.On("GetTransaction", mock.Anything, testStore, "nope").Return(nil, model.NotFound("transaction"))

	ctx := withParam(setupTestContext("GET", "/api/v1/transactions/tx-1", nil), "id", "tx-1")
	handler.GetTransaction(ctx)
	assert.Equal(t, 200, ctx.Response.StatusCode())

	ctx = withParam(setupTestContext("GET", "/api/v1/transactions/nope", nil), "id", "nope")
	handler.GetTransaction(ctx)
	assert.Equal(t, 404, ctx.Response.StatusCode())
	assert.Equal(t, "transaction not found", decodeError(t, ctx).Error)
}
