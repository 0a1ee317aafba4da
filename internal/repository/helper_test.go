package repository

import (
	"context"
	"testing"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	storeA = "store-a"
	storeB = "store-b"
)

func setupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Entities()...))

	return pg.New(db, db)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createCustomer(t *testing.T, repo *CustomerRepository, storeID, name, debt string) *model.Customer {
	c, err := repo.Create(context.Background(), &model.Customer{
		StoreID:   storeID,
		Name:      name,
		TotalDebt: dec(debt),
	})
	require.NoError(t, err)
	return c
}
