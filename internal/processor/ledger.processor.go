package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/internal/queue"
	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
	"github.com/OrtegaGeovanny/tiendex/pkg/prom"
)

const (
	eventProcessed = "processed"
	eventSkipped   = "skipped"
	eventDuplicate = "duplicate"
	eventFailed    = "failed"
)

// NotificationEnsurer raises the overdue notification of a single customer
// when one is due.
type NotificationEnsurer interface {
	EnsureForCustomer(ctx context.Context, storeID, customerID string) (bool, error)
}

// LedgerEventProcessor reacts to recorded transactions. A customer left
// with debt gets an overdue notification right away instead of waiting for
// the next scheduled sweep.
type LedgerEventProcessor struct {
	notifications NotificationEnsurer
	idempotency   *IdempotencyService
}

func NewLedgerEventProcessor(notifications NotificationEnsurer, idempotency *IdempotencyService) *LedgerEventProcessor {
	return &LedgerEventProcessor{
		notifications: notifications,
		idempotency:   idempotency,
	}
}

func (p *LedgerEventProcessor) GetType() string {
	return "ledger_event"
}

func (p *LedgerEventProcessor) Process(ctx context.Context, msg *queue.Message) error {
	var ev model.LedgerEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		prom.IncEventProcessed(eventFailed)
		return fmt.Errorf("decode ledger event %s: %w", msg.ID, err)
	}

	if ev.Type != model.EventTransactionRecorded || ev.TransactionID == "" {
		logger.Debug("[processor] ignoring event", "id", msg.ID, "type", ev.Type)
		prom.IncEventProcessed(eventSkipped)
		return nil
	}

	claim, err := p.idempotency.Acquire(ctx, ev.TransactionID)
	switch {
	case errors.Is(err, ErrAlreadyProcessed):
		prom.IncEventProcessed(eventDuplicate)
		return nil
	case errors.Is(err, ErrMaxRetriesExceeded):
		// the sweep will pick the customer up later
		logger.Error("[processor] giving up on event", "transaction_id", ev.TransactionID)
		prom.IncEventProcessed(eventFailed)
		return nil
	case err != nil:
		return err
	}
	defer func() { _ = p.idempotency.Release(ctx, claim) }()

	if ev.TotalDebt.IsPositive() {
		created, err := p.notifications.EnsureForCustomer(ctx, ev.StoreID, ev.CustomerID)
		if err != nil {
			_ = p.idempotency.MarkFailure(ctx, claim, err)
			prom.IncEventProcessed(eventFailed)
			return err
		}
		if created {
			logger.Info("[processor] overdue notification raised",
				"store_id", ev.StoreID,
				"customer_id", ev.CustomerID,
				"transaction_id", ev.TransactionID,
				"retry", claim.IsRetry())
		}
	}

	if err := p.idempotency.MarkSuccess(ctx, claim); err != nil {
		logger.Warn("[processor] processed marker not stored", "transaction_id", ev.TransactionID, "error", err)
	}
	prom.IncEventProcessed(eventProcessed)
	return nil
}
