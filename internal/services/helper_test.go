package services

import (
	"context"
	"testing"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/test/helpers"
	"github.com/stretchr/testify/mock"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishLedgerEvent(ctx context.Context, ev *model.LedgerEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type testEnv struct {
	repos         *helpers.Repositories
	events        *MockEventPublisher
	ledger        *LedgerService
	customers     *CustomerService
	products      *ProductService
	notifications *NotificationService
	stores        *StoreService
}

func newTestEnv(t *testing.T) *testEnv {
	repos := helpers.NewRepositories(helpers.SetupTestDB(t))
	events := new(MockEventPublisher)
	events.On("PublishLedgerEvent", mock.Anything, mock.Anything).Return(nil).Maybe()

	ledger := NewLedgerService(repos.DB, repos.Customers, repos.Transactions, repos.Products, events, 3)
	return &testEnv{
		repos:         repos,
		events:        events,
		ledger:        ledger,
		customers:     NewCustomerService(repos.DB, repos.Customers, ledger),
		products:      NewProductService(repos.Products),
		notifications: NewNotificationService(repos.Customers, repos.Notifications),
		stores:        NewStoreService(repos.Stores),
	}
}
