package pg

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type txContextKey string

const txKey txContextKey = "trx"

const (
	DefaultMaxRetries = 3
	retryBaseDelay    = 2 * time.Millisecond
)

// DB is the explicitly constructed store handle shared by all repositories.
// Reads go to the replica, writes to the primary, and both resolve to the
// open transaction when one is carried by the context.
type DB struct {
	read  *gorm.DB
	write *gorm.DB
}

func Create(config Config, withDebug bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.DSN()),
		&gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				SingularTable: true,
			},
			NowFunc: func() time.Time { return time.Now().UTC() },
		})
	if err != nil {
		return nil, err
	}

	if withDebug {
		db = db.Debug()
	}
	return db, nil
}

func CreateReadWrite(readConfig Config, writeConfig Config, withDebug bool) (*DB, error) {
	read, err := Create(readConfig, withDebug)
	if err != nil {
		return nil, err
	}
	write, err := Create(writeConfig, withDebug)
	if err != nil {
		return nil, err
	}
	return &DB{read, write}, nil
}

// New wraps already opened gorm handles. Passing the same handle twice is
// fine for single-node deployments and tests.
func New(read, write *gorm.DB) *DB {
	return &DB{read: read, write: write}
}

// WithinTransaction runs fn inside a database transaction. A context that
// already carries a transaction joins it instead of opening a nested one.
func (r *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}
	return r.write.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// WithinTransactionRetry is WithinTransaction with a bounded retry on
// retriable conflicts (see IsRetriable). Backoff doubles from 2ms. Once the
// attempts are exhausted the last error is wrapped with ErrRetriesExhausted.
func (r *DB) WithinTransactionRetry(ctx context.Context, maxRetries int, fn func(ctx context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		// the outer transaction owns the retry
		return fn(ctx)
	}

	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = r.WithinTransaction(ctx, fn)
		if err == nil {
			return nil
		}
		if !IsRetriable(err) {
			return err
		}

		if attempt < maxRetries {
			delay := retryBaseDelay * time.Duration(1<<attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
	}

	return fmt.Errorf("%w: failed after %d attempts: %w", ErrRetriesExhausted, maxRetries+1, err)
}

func (r *DB) Write(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok {
		return tx
	}

	return r.write.WithContext(ctx)
}

func (r *DB) Read(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok {
		return tx
	}

	return r.read.WithContext(ctx)
}

// InTransaction reports whether ctx carries an open transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey).(*gorm.DB)
	return ok
}

func (r *DB) Ping(ctx context.Context) error {
	sqlDB, err := r.write.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *DB) Close() error {
	for _, g := range []*gorm.DB{r.read, r.write} {
		sqlDB, err := g.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Close(); err != nil {
			return err
		}
		if r.read == r.write {
			break
		}
	}
	return nil
}
