package processor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/internal/queue"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventMessage(t *testing.T, ev *model.LedgerEvent) *queue.Message {
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return &queue.Message{ID: "1-0", Data: data}
}

func recordedEvent(txID, debt string) *model.LedgerEvent {
	return &model.LedgerEvent{
		Type:            model.EventTransactionRecorded,
		StoreID:         "store-a",
		CustomerID:      "cust-1",
		TransactionID:   txID,
		TransactionType: model.TransactionCredit,
		TotalAmount:     decimal.RequireFromString("10"),
		TotalDebt:       decimal.RequireFromString(debt),
		OccurredAt:      time.Now().UTC(),
	}
}

func TestLedgerEventProcessor_RaisesNotificationForDebt(t *testing.T) {
	_, adapter := setupTestRedis(t)
	ensurer := &fakeEnsurer{}
	p := NewLedgerEventProcessor(ensurer, NewIdempotencyService(adapter, DefaultIdempotencyConfig()))

	require.NoError(t, p.Process(context.Background(), eventMessage(t, recordedEvent("tx-1", "25"))))

	assert.Equal(t, []ensureCall{{"store-a", "cust-1"}}, ensurer.Calls())
}

func TestLedgerEventProcessor_Redelivery(t *testing.T) {
	_, adapter := setupTestRedis(t)
	ensurer := &fakeEnsurer{}
	p := NewLedgerEventProcessor(ensurer, NewIdempotencyService(adapter, DefaultIdempotencyConfig()))
	ctx := context.Background()

	msg := eventMessage(t, recordedEvent("tx-1", "25"))
	require.NoError(t, p.Process(ctx, msg))
	require.NoError(t, p.Process(ctx, msg))

	assert.Len(t, ensurer.Calls(), 1)
}

func TestLedgerEventProcessor_SettledDebt(t *testing.T) {
	_, adapter := setupTestRedis(t)
	ensurer := &fakeEnsurer{}
	p := NewLedgerEventProcessor(ensurer, NewIdempotencyService(adapter, DefaultIdempotencyConfig()))

	ev := recordedEvent("tx-2", "0")
	ev.TransactionType = model.TransactionPayment
	require.NoError(t, p.Process(context.Background(), eventMessage(t, ev)))

	assert.Empty(t, ensurer.Calls())
}

func TestLedgerEventProcessor_UnknownType(t *testing.T) {
	_, adapter := setupTestRedis(t)
	ensurer := &fakeEnsurer{}
	p := NewLedgerEventProcessor(ensurer, NewIdempotencyService(adapter, DefaultIdempotencyConfig()))

	ev := recordedEvent("tx-3", "5")
	ev.Type = "customer.renamed"
	require.NoError(t, p.Process(context.Background(), eventMessage(t, ev)))

	assert.Empty(t, ensurer.Calls())
}

func TestLedgerEventProcessor_MalformedPayload(t *testing.T) {
	_, adapter := setupTestRedis(t)
	p := NewLedgerEventProcessor(&fakeEnsurer{}, NewIdempotencyService(adapter, DefaultIdempotencyConfig()))

	err := p.Process(context.Background(), &queue.Message{ID: "1-0", Data: []byte("{")})
	assert.Error(t, err)
}

func TestLedgerEventProcessor_FailureThenGiveUp(t *testing.T) {
	_, adapter := setupTestRedis(t)
	cfg := DefaultIdempotencyConfig()
	cfg.MaxRetries = 2
	ensurer := &fakeEnsurer{err: errors.New("db down")}
	p := NewLedgerEventProcessor(ensurer, NewIdempotencyService(adapter, cfg))
	ctx := context.Background()

	msg := eventMessage(t, recordedEvent("tx-4", "5"))
	assert.Error(t, p.Process(ctx, msg))
	assert.Error(t, p.Process(ctx, msg))
	// retries exhausted: acked and left to the sweep
	assert.NoError(t, p.Process(ctx, msg))

	assert.Len(t, ensurer.Calls(), 2)
}
