package repository

import (
	"context"
	"errors"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	sqlStateUniqueViolation = "23505"
	sqlStateCheckViolation  = "23514"
)

// translateError maps gorm and driver failures onto model error kinds so
// nothing driver specific leaves this package.
func translateError(err error, entity string) error {
	if err == nil {
		return nil
	}

	var merr *model.Error
	if errors.As(err, &merr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.NotFound(entity)
	case pg.IsRetriable(err):
		return model.Conflict(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return model.Unavailable(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateCheckViolation:
			return &model.Error{Kind: model.KindValidation, Message: "invalid " + entity, Err: err}
		case sqlStateUniqueViolation:
			return model.AlreadyExists(entity, err)
		}
	}

	return model.Unavailable(err)
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Entities lists every table owned by the repositories, in dependency order.
func Entities() []any {
	return []any{
		&StoreEntity{},
		&CustomerEntity{},
		&ProductEntity{},
		&TransactionEntity{},
		&NotificationEntity{},
	}
}
