package services

import (
	"context"
	"errors"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
	"github.com/OrtegaGeovanny/tiendex/pkg/prom"
)

const (
	TriggerSweep = "sweep"
	TriggerEvent = "event"
)

type NotificationService struct {
	customers     CustomerRepository
	notifications NotificationRepository
}

func NewNotificationService(customers CustomerRepository, notifications NotificationRepository) *NotificationService {
	return &NotificationService{
		customers:     customers,
		notifications: notifications,
	}
}

// SweepStore raises an overdue notification for every indebted customer of
// the store that has none active. Running it twice creates nothing new.
func (s *NotificationService) SweepStore(ctx context.Context, storeID string) (int, error) {
	if err := requireStore(storeID); err != nil {
		return 0, err
	}

	customers, err := s.customers.ListWithDebt(ctx, storeID)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, c := range customers {
		ok, err := s.ensure(ctx, c)
		if err != nil {
			prom.AddNotificationsCreated(TriggerSweep, created)
			return created, err
		}
		if ok {
			created++
		}
	}

	prom.AddNotificationsCreated(TriggerSweep, created)
	if created > 0 {
		logger.Info("[notifications] sweep finished", "store_id", storeID, "created", created)
	}
	return created, nil
}

// SweepAll sweeps every store with debt. A failing store does not stop the
// others; the errors are joined.
func (s *NotificationService) SweepAll(ctx context.Context) (int, error) {
	stores, err := s.customers.StoresWithDebt(ctx)
	if err != nil {
		return 0, err
	}

	var (
		total int
		errs  []error
	)
	for _, storeID := range stores {
		if ctx.Err() != nil {
			errs = append(errs, model.Unavailable(ctx.Err()))
			break
		}
		n, err := s.SweepStore(ctx, storeID)
		total += n
		if err != nil {
			logger.Error("[notifications] sweep failed", "store_id", storeID, "error", err)
			errs = append(errs, err)
		}
	}
	return total, errors.Join(errs...)
}

// EnsureForCustomer is the single-customer form of the sweep.
func (s *NotificationService) EnsureForCustomer(ctx context.Context, storeID, customerID string) (bool, error) {
	c, err := s.customers.Get(ctx, storeID, customerID)
	if err != nil {
		return false, err
	}
	if !c.TotalDebt.IsPositive() {
		return false, nil
	}

	ok, err := s.ensure(ctx, c)
	if ok {
		prom.AddNotificationsCreated(TriggerEvent, 1)
	}
	return ok, err
}

func (s *NotificationService) ensure(ctx context.Context, c *model.Customer) (bool, error) {
	exists, err := s.notifications.ExistsActiveForCustomer(ctx, c.StoreID, c.ID)
	if err != nil || exists {
		return false, err
	}

	_, err = s.notifications.Create(ctx, &model.Notification{
		StoreID:      c.StoreID,
		CustomerID:   c.ID,
		CustomerName: c.Name,
		DebtAmount:   c.TotalDebt,
		Message:      model.OverdueMessage(c.Name, c.TotalDebt),
	})
	if errors.Is(err, model.ErrConflict) {
		// a concurrent sweep got there first
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *NotificationService) List(ctx context.Context, storeID string, limit, offset int) ([]*model.Notification, error) {
	if err := requireStore(storeID); err != nil {
		return nil, err
	}
	return s.notifications.List(ctx, storeID, limit, offset)
}

// ListUnread returns one page of unread notifications and the total unread
// count used for the badge.
func (s *NotificationService) ListUnread(ctx context.Context, storeID string, limit, offset int) ([]*model.Notification, int64, error) {
	if err := requireStore(storeID); err != nil {
		return nil, 0, err
	}
	items, err := s.notifications.ListUnread(ctx, storeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.notifications.CountUnread(ctx, storeID)
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (s *NotificationService) CountUnread(ctx context.Context, storeID string) (int64, error) {
	if err := requireStore(storeID); err != nil {
		return 0, err
	}
	return s.notifications.CountUnread(ctx, storeID)
}

func (s *NotificationService) MarkRead(ctx context.Context, storeID, id string) error {
	if err := requireStore(storeID); err != nil {
		return err
	}
	return s.notifications.MarkRead(ctx, storeID, id)
}

func (s *NotificationService) Dismiss(ctx context.Context, storeID, id string) error {
	if err := requireStore(storeID); err != nil {
		return err
	}
	return s.notifications.Dismiss(ctx, storeID, id)
}

// Delete is administrative; owners dismiss instead.
func (s *NotificationService) Delete(ctx context.Context, storeID, id string) error {
	if err := requireStore(storeID); err != nil {
		return err
	}
	return s.notifications.Delete(ctx, storeID, id)
}
