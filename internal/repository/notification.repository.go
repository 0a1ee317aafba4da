package repository

import (
	"context"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
)

const entityNotification = "notification"

type NotificationRepository struct {
	*pg.DB
}

func NewNotificationRepository(db *pg.DB) *NotificationRepository {
	return &NotificationRepository{
		db,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	entity := toNotificationEntity(n)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, translateError(err, entityNotification)
	}

	return toNotificationModel(entity), nil
}

// List returns the notifications that were not dismissed, newest first.
func (r *NotificationRepository) List(ctx context.Context, storeID string, limit, offset int) ([]*model.Notification, error) {
	return r.list(ctx, storeID, false, limit, offset)
}

func (r *NotificationRepository) ListUnread(ctx context.Context, storeID string, limit, offset int) ([]*model.Notification, error) {
	return r.list(ctx, storeID, true, limit, offset)
}

func (r *NotificationRepository) list(ctx context.Context, storeID string, unreadOnly bool, limit, offset int) ([]*model.Notification, error) {
	q := r.Read(ctx).Where("store_id = ? AND dismissed = ?", storeID, false)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}

	limit, offset = normalizePage(limit, offset)

	var entities []*NotificationEntity
	err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&entities).Error
	if err != nil {
		return nil, translateError(err, entityNotification)
	}
	return toNotificationModels(entities), nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, storeID string) (int64, error) {
	var count int64
	err := r.Read(ctx).
		Model(&NotificationEntity{}).
		Where("store_id = ? AND dismissed = ? AND read = ?", storeID, false, false).
		Count(&count).
		Error
	if err != nil {
		return 0, translateError(err, entityNotification)
	}
	return count, nil
}

// ExistsActiveForCustomer reports whether the customer already has a
// notification that was not dismissed.
func (r *NotificationRepository) ExistsActiveForCustomer(ctx context.Context, storeID, customerID string) (bool, error) {
	var count int64
	err := r.Read(ctx).
		Model(&NotificationEntity{}).
		Where("store_id = ? AND customer_id = ? AND dismissed = ?", storeID, customerID, false).
		Count(&count).
		Error
	if err != nil {
		return false, translateError(err, entityNotification)
	}
	return count > 0, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, storeID, id string) error {
	return r.setFlag(ctx, storeID, id, "read")
}

func (r *NotificationRepository) Dismiss(ctx context.Context, storeID, id string) error {
	return r.setFlag(ctx, storeID, id, "dismissed")
}

func (r *NotificationRepository) setFlag(ctx context.Context, storeID, id, column string) error {
	result := r.Write(ctx).
		Model(&NotificationEntity{}).
		Where("id = ? AND store_id = ?", id, storeID).
		Updates(map[string]any{column: true, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return translateError(result.Error, entityNotification)
	}
	if result.RowsAffected == 0 {
		return model.NotFound(entityNotification)
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, storeID, id string) error {
	result := r.Write(ctx).
		Where("id = ? AND store_id = ?", id, storeID).
		Delete(&NotificationEntity{})
	if result.Error != nil {
		return translateError(result.Error, entityNotification)
	}
	if result.RowsAffected == 0 {
		return model.NotFound(entityNotification)
	}
	return nil
}
