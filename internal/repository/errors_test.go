package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		kind      model.ErrorKind
		retriable bool
	}{
		{"record not found", gorm.ErrRecordNotFound, model.KindNotFound, false},
		{"cas miss", pg.ErrConflict, model.KindConflict, true},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, model.KindConflict, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, model.KindConflict, true},
		{"sqlite busy", errors.New("database is locked"), model.KindConflict, true},
		{"check violation", &pgconn.PgError{Code: "23514"}, model.KindValidation, false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, model.KindConflict, false},
		{"cancelled", context.Canceled, model.KindUnavailable, true},
		{"anything else", errors.New("connection refused"), model.KindUnavailable, true},
		{"already translated", model.Validation("bad"), model.KindValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(tt.err, "customer")
			assert.Equal(t, tt.kind, model.KindOf(err))
			assert.Equal(t, tt.retriable, model.IsRetriable(err))
		})
	}

	assert.NoError(t, translateError(nil, "customer"))
	assert.Equal(t, "customer not found", translateError(gorm.ErrRecordNotFound, "customer").Error())
	assert.Equal(t, "customer already exists", model.UserMessage(translateError(&pgconn.PgError{Code: "23505"}, "customer")))
}
