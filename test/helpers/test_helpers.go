package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/internal/repository"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
	"github.com/OrtegaGeovanny/tiendex/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory sqlite database with the ledger schema.
// A single connection keeps every transaction serialized.
func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(repository.Entities()...))

	return pg.New(db, db)
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr := miniredis.RunT(t)

	adapter, err := redis.NewRedisAdapter(context.Background(), "test:", &redis.Options{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })

	return mr, adapter
}

// Repositories bundles every repository over one test database.
type Repositories struct {
	DB            *pg.DB
	Customers     *repository.CustomerRepository
	Transactions  *repository.TransactionRepository
	Products      *repository.ProductRepository
	Notifications *repository.NotificationRepository
	Stores        *repository.StoreRepository
}

func NewRepositories(db *pg.DB) *Repositories {
	return &Repositories{
		DB:            db,
		Customers:     repository.NewCustomerRepository(db),
		Transactions:  repository.NewTransactionRepository(db),
		Products:      repository.NewProductRepository(db),
		Notifications: repository.NewNotificationRepository(db),
		Stores:        repository.NewStoreRepository(db),
	}
}

func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateTestCustomer inserts a customer with no debt.
func CreateTestCustomer(t *testing.T, db *pg.DB, storeID, name string) *model.Customer {
	c, err := repository.NewCustomerRepository(db).Create(context.Background(), &model.Customer{
		StoreID: storeID,
		Name:    name,
	})
	require.NoError(t, err)
	return c
}

func CreateTestProduct(t *testing.T, db *pg.DB, storeID, name, price string) *model.Product {
	p, err := repository.NewProductRepository(db).Create(context.Background(), &model.Product{
		StoreID:       storeID,
		Name:          name,
		Price:         Dec(price),
		StockQuantity: 10,
	})
	require.NoError(t, err)
	return p
}

func GetTestCustomer(t *testing.T, db *pg.DB, storeID, id string) *model.Customer {
	c, err := repository.NewCustomerRepository(db).Get(context.Background(), storeID, id)
	require.NoError(t, err)
	return c
}

func CountTransactions(t *testing.T, db *pg.DB, storeID, customerID string) int {
	txns, err := repository.NewTransactionRepository(db).ListByCustomer(context.Background(), storeID, customerID)
	require.NoError(t, err)
	return len(txns)
}
