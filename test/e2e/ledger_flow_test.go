package e2e

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/handlers"
	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/internal/processor"
	"github.com/OrtegaGeovanny/tiendex/internal/queue"
	"github.com/OrtegaGeovanny/tiendex/internal/services"
	xhttp "github.com/OrtegaGeovanny/tiendex/pkg/http"
	"github.com/OrtegaGeovanny/tiendex/pkg/redis"
	"github.com/OrtegaGeovanny/tiendex/test/fixtures"
	"github.com/OrtegaGeovanny/tiendex/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

var streamConfig = queue.QueueConfig{
	Name:              "ledger-events",
	ConsumerGroup:     "ledger-workers",
	ConsumerName:      "e2e",
	MaxRetries:        3,
	VisibilityTimeout: 5 * time.Second,
	PollInterval:      50 * time.Millisecond,
	BatchSize:         10,
	EnableDLQ:         true,
}

type testEnvironment struct {
	repos         *helpers.Repositories
	redis         redis.RedisAdapter
	notifications *services.NotificationService
	client        *fasthttp.Client
}

// setupEnvironment serves the full API over an in-memory listener, wired
// the way cmd/api wires it.
func setupEnvironment(t *testing.T) *testEnvironment {
	t.Helper()
	ctx := context.Background()

	db := helpers.SetupTestDB(t)
	repos := helpers.NewRepositories(db)
	_, rdb := helpers.SetupTestRedis(t)

	events, err := queue.NewQueue(ctx, rdb, streamConfig)
	require.NoError(t, err)

	ledger := services.NewLedgerService(db, repos.Customers, repos.Transactions, repos.Products, events, 3)
	notifications := services.NewNotificationService(repos.Customers, repos.Notifications)

	e := xhttp.CreateServer()
	e.Use(xhttp.RecoverMiddleware)
	e.Use(xhttp.RequestLoggerMiddleware)
	e.Use(xhttp.TenantMiddleware)
	e.Use(xhttp.TimeoutMiddleware(5 * time.Second))

	g := e.Group("/api/v1")
	handlers.RegisterHealthRoutes(g, handlers.NewHealthHandler(services.NewHealthService(map[string]services.Pinger{"postgres": db, "redis": rdb})))
	handlers.RegisterStoreRoutes(g, handlers.NewStoreHandler(services.NewStoreService(repos.Stores)))
	handlers.RegisterCustomerRoutes(g, handlers.NewCustomerHandler(services.NewCustomerService(db, repos.Customers, ledger), ledger))
	handlers.RegisterTransactionRoutes(g, handlers.NewTransactionHandler(ledger))
	handlers.RegisterProductRoutes(g, handlers.NewProductHandler(services.NewProductService(repos.Products)))
	handlers.RegisterNotificationRoutes(g, handlers.NewNotificationHandler(notifications))

	ln := fasthttputil.NewInmemoryListener()
	e.Server.Handler = e.Handler()
	go func() { _ = e.Server.Serve(ln) }()
	t.Cleanup(func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = e.Server.ShutdownWithContext(sctx)
		_ = ln.Close()
	})

	return &testEnvironment{
		repos:         repos,
		redis:         rdb,
		notifications: notifications,
		client: &fasthttp.Client{
			Dial: func(string) (net.Conn, error) { return ln.Dial() },
		},
	}
}

// do sends a request and returns the status and body. An empty store sends
// no tenant header.
func (env *testEnvironment) do(t *testing.T, method, path, store string, body any) (int, []byte) {
	t.Helper()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI("http://tiendex" + path)
	if store != "" {
		req.Header.Set(xhttp.HeaderStoreID, store)
	}
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req.Header.SetContentType("application/json")
		req.SetBody(b)
	}

	require.NoError(t, env.client.DoTimeout(req, resp, 5*time.Second))
	return resp.StatusCode(), append([]byte(nil), resp.Body()...)
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func TestE2E_HealthAndTenant(t *testing.T) {
	env := setupEnvironment(t)

	status, body := env.do(t, "GET", "/api/v1/health", "", nil)
	assert.Equal(t, 200, status)
	health := decode[model.HealthStatus](t, body)
	assert.Equal(t, model.HealthOK, health.Status)
	assert.Equal(t, "up", health.Components["redis"])

	status, _ = env.do(t, "GET", "/api/v1/customers", "", nil)
	assert.Equal(t, 401, status)

	status, _ = env.do(t, "GET", "/api/v1/nowhere", fixtures.StoreA, nil)
	assert.Equal(t, 404, status)
}

func TestE2E_LedgerFlow(t *testing.T) {
	env := setupEnvironment(t)
	ctx := context.Background()

	status, body := env.do(t, "POST", "/api/v1/products", fixtures.StoreA, map[string]any{
		"name": "Rice", "price": "15", "stock_quantity": 20,
	})
	require.Equal(t, 201, status, string(body))
	product := decode[model.Product](t, body)

	status, body = env.do(t, "POST", "/api/v1/customers", fixtures.StoreA, map[string]any{
		"name": "Ana", "initial_debt": "100",
	})
	require.Equal(t, 201, status, string(body))
	customer := decode[model.Customer](t, body)
	assert.True(t, customer.TotalDebt.Equal(helpers.Dec("100")))

	status, body = env.do(t, "POST", "/api/v1/transactions", fixtures.StoreA, map[string]any{
		"customer_id": customer.ID, "type": "credit", "total_amount": "30",
		"product_id": product.ID, "quantity": 2,
	})
	require.Equal(t, 201, status, string(body))
	credit := decode[model.Transaction](t, body)
	assert.Equal(t, "Rice", credit.ProductName)
	assert.Equal(t, "Ana", credit.CustomerName)

	status, body = env.do(t, "POST", "/api/v1/customers/"+customer.ID+"/payments", fixtures.StoreA, map[string]any{"amount": "50"})
	require.Equal(t, 201, status, string(body))

	status, body = env.do(t, "POST", "/api/v1/transactions", fixtures.StoreA, map[string]any{
		"customer_id": customer.ID, "type": "credit", "total_amount": "20",
	})
	require.Equal(t, 201, status, string(body))

	// 100 + 30 - 50 + 20
	status, body = env.do(t, "GET", "/api/v1/customers/"+customer.ID, fixtures.StoreA, nil)
	require.Equal(t, 200, status)
	assert.True(t, decode[model.Customer](t, body).TotalDebt.Equal(helpers.Dec("100")))

	status, body = env.do(t, "POST", "/api/v1/customers/"+customer.ID+"/payments", fixtures.StoreA, map[string]any{"amount": "100.01"})
	assert.Equal(t, 409, status)
	assert.Contains(t, string(body), `"kind":"balance_exceeded"`)

	status, body = env.do(t, "GET", "/api/v1/customers/"+customer.ID+"/statement", fixtures.StoreA, nil)
	require.Equal(t, 200, status)
	statement := decode[model.CustomerStatement](t, body)
	require.Len(t, statement.Entries, 4)
	assert.True(t, statement.Entries[0].BalanceAfter.Equal(helpers.Dec("100")))
	assert.True(t, statement.OpeningBalance.IsZero())

	status, body = env.do(t, "GET", "/api/v1/customers/"+customer.ID+"/verify", fixtures.StoreA, nil)
	require.Equal(t, 200, status)
	assert.True(t, decode[model.LedgerCheck](t, body).Consistent)

	// another store cannot see the customer
	status, _ = env.do(t, "GET", "/api/v1/customers/"+customer.ID, fixtures.StoreB, nil)
	assert.Equal(t, 404, status)
	status, _ = env.do(t, "POST", "/api/v1/customers/"+customer.ID+"/payments", fixtures.StoreB, map[string]any{"amount": "1"})
	assert.Equal(t, 404, status)

	// one event per committed entry
	n, err := env.redis.XLen(ctx, streamConfig.Name)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	svc := processor.NewProcessorService(env.redis, processor.ServiceConfig{Queue: streamConfig, Workers: 2})
	svc.RegisterProcessor(processor.NewLedgerEventProcessor(env.notifications,
		processor.NewIdempotencyService(env.redis, processor.DefaultIdempotencyConfig())))
	require.NoError(t, svc.Start(ctx))
	defer svc.Stop()

	require.Eventually(t, func() bool {
		return svc.Metrics().Snapshot().Processed == 4
	}, 5*time.Second, 50*time.Millisecond)

	status, body = env.do(t, "GET", "/api/v1/notifications/unread", fixtures.StoreA, nil)
	require.Equal(t, 200, status)
	unread := decode[struct {
		Items []*model.Notification `json:"items"`
		Count int64                 `json:"count"`
	}](t, body)
	assert.Equal(t, int64(1), unread.Count)
	require.Len(t, unread.Items, 1)
	assert.Equal(t, customer.ID, unread.Items[0].CustomerID)

	// the sweep finds the active notification and creates nothing
	status, body = env.do(t, "POST", "/api/v1/notifications/sweep", fixtures.StoreA, nil)
	require.Equal(t, 200, status)
	assert.JSONEq(t, `{"created":0}`, string(body))

	status, body = env.do(t, "GET", "/api/v1/notifications/unread", fixtures.StoreB, nil)
	require.Equal(t, 200, status)
	assert.Contains(t, string(body), `"count":0`)
}

func TestE2E_StoreProfile(t *testing.T) {
	env := setupEnvironment(t)

	status, body := env.do(t, "GET", "/api/v1/store", fixtures.StoreA, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, fixtures.StoreA, decode[model.Store](t, body).ID)

	status, _ = env.do(t, "PUT", "/api/v1/store", fixtures.StoreA, map[string]any{"name": "  "})
	assert.Equal(t, 400, status)

	status, body = env.do(t, "PUT", "/api/v1/store", fixtures.StoreA, map[string]any{"name": "Tienda Ana"})
	require.Equal(t, 200, status)
	assert.Equal(t, "Tienda Ana", decode[model.Store](t, body).Name)
}
