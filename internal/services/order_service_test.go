package services_test

import (
	"context"
	"errors"
	"testing"

	"ecomstore/internal/config"
	"ecomstore/internal/database"
	"ecomstore/internal/models"
	"ecomstore/internal/repositories"
	"ecomstore/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderEvent(ctx context.Context, event models.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type orderFixture struct {
	db        *gorm.DB
	store     *repositories.GORMStore
	orders    *services.OrderService
	products  *services.ProductService
	publisher *MockPublisher
	user      *models.User
	widget    *models.Product
}

func setupOrders(t *testing.T) *orderFixture {
	t.Helper()
	cfg := &config.Config{
		DBDriver:    "sqlite",
		DatabaseDSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		DBLogLevel:  "silent",
	}
	db, err := database.Open(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	store := repositories.NewGORMStore(db)
	publisher := new(MockPublisher)
	f := &orderFixture{
		db:        db,
		store:     store,
		orders:    services.NewOrderService(store, publisher, zap.NewNop()),
		products:  services.NewProductService(store.Products()),
		publisher: publisher,
	}

	ctx := context.Background()
	f.user = &models.User{Name: "A", Email: "a@x.com", Password: "p"}
	require.NoError(t, store.Users().Create(ctx, f.user))
	f.widget, err = f.products.CreateProduct(ctx, models.CreateProductRequest{Name: "Widget", Price: price("9.99"), Stock: 5})
	require.NoError(t, err)
	return f
}

func (f *orderFixture) counts(t *testing.T) (orders, items int64) {
	t.Helper()
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, f.db.Model(&models.OrderItem{}).Count(&items).Error)
	return orders, items
}

func (f *orderFixture) expectEvent(eventType string) {
	f.publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e models.OrderEvent) bool {
		return e.Type == eventType
	})).Return(nil).Once()
}

func TestOrderService_CreateOrder_DefaultsPriceFromProduct(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	f.expectEvent(models.EventOrderCreated)

	order, err := f.orders.CreateOrder(ctx, models.CreateOrderRequest{
		UserID: f.user.ID,
		Items:  []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, decimal.RequireFromString("19.98").Equal(order.TotalAmount), "total %s", order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.True(t, decimal.RequireFromString("9.99").Equal(order.Items[0].Price))

	stored, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(stored.TotalAmount))
	require.Len(t, stored.Items, 1)
	assert.True(t, decimal.RequireFromString("9.99").Equal(stored.Items[0].Price))
	f.publisher.AssertExpectations(t)
}

func TestOrderService_CreateOrder_SuppliedPriceOverrides(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	f.expectEvent(models.EventOrderCreated)

	order, err := f.orders.CreateOrder(ctx, models.CreateOrderRequest{
		UserID: f.user.ID,
		Items:  []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 1, Price: price("5.00")}},
	})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("5.00").Equal(order.Items[0].Price))
	assert.True(t, decimal.RequireFromString("5.00").Equal(order.TotalAmount))
}

func TestOrderService_CreateOrder_TotalUsesEffectivePrices(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	f.expectEvent(models.EventOrderCreated)
	gadget, err := f.products.CreateProduct(ctx, models.CreateProductRequest{Name: "Gadget", Price: price("3.35")})
	require.NoError(t, err)

	order, err := f.orders.CreateOrder(ctx, models.CreateOrderRequest{
		UserID: f.user.ID,
		Items: []models.OrderItemRequest{
			{ProductID: f.widget.ID, Quantity: 3},
			{ProductID: gadget.ID, Quantity: 2, Price: price("1.10")},
			{ProductID: gadget.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	// 3*9.99 + 2*1.10 + 1*3.35
	assert.Equal(t, "35.52", order.TotalAmount.StringFixed(2))
	sum := decimal.Zero
	for _, item := range order.Items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.True(t, sum.Equal(order.TotalAmount))
}

func TestOrderService_CreateOrder_UnknownUserPersistsNothing(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	ordersBefore, itemsBefore := f.counts(t)

	_, err := f.orders.CreateOrder(ctx, models.CreateOrderRequest{
		UserID: 999,
		Items:  []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	ordersAfter, itemsAfter := f.counts(t)
	assert.Equal(t, ordersBefore, ordersAfter)
	assert.Equal(t, itemsBefore, itemsAfter)
	f.publisher.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
}

func TestOrderService_CreateOrder_UnknownProductPersistsNothing(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	ordersBefore, itemsBefore := f.counts(t)

	_, err := f.orders.CreateOrder(ctx, models.CreateOrderRequest{
		UserID: f.user.ID,
		Items: []models.OrderItemRequest{
			{ProductID: f.widget.ID, Quantity: 1},
			{ProductID: 424242, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	var notFound *services.ProductNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, uint(424242), notFound.ProductID)
	assert.Equal(t, "product 424242 not found", err.Error())

	ordersAfter, itemsAfter := f.counts(t)
	assert.Equal(t, ordersBefore, ordersAfter)
	assert.Equal(t, itemsBefore, itemsAfter)
}

func TestOrderService_CreateOrder_InvalidInput(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)

	cases := map[string]models.CreateOrderRequest{
		"no items":        {UserID: f.user.ID},
		"zero quantity":   {UserID: f.user.ID, Items: []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 0}}},
		"negative qty":    {UserID: f.user.ID, Items: []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: -2}}},
		"negative price":  {UserID: f.user.ID, Items: []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 1, Price: price("-1")}}},
		"sub-cent price":  {UserID: f.user.ID, Items: []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 3, Price: price("5.005")}}},
		"price too large": {UserID: f.user.ID, Items: []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 1, Price: price("100000000")}}},
		"no user":         {Items: []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 1}}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.orders.CreateOrder(ctx, req)
			assert.ErrorIs(t, err, services.ErrInvalidInput)
		})
	}
	orders, items := f.counts(t)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestOrderService_CreateOrder_TotalOutOfRangePersistsNothing(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)

	_, err := f.orders.CreateOrder(ctx, models.CreateOrderRequest{
		UserID: f.user.ID,
		Items:  []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 1000, Price: price("99999999.99")}},
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	assert.Contains(t, err.Error(), "total_amount must not exceed 9999999999.99")

	orders, items := f.counts(t)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	f.publisher.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
}

func TestOrderService_CreateOrder_RepeatedRequestsCreateDistinctOrders(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	f.publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)
	req := models.CreateOrderRequest{
		UserID: f.user.ID,
		Items:  []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 1}},
	}

	first, err := f.orders.CreateOrder(ctx, req)
	require.NoError(t, err)
	second, err := f.orders.CreateOrder(ctx, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	orders, items := f.counts(t)
	assert.Equal(t, int64(2), orders)
	assert.Equal(t, int64(2), items)

	// no stock reservation
	widget, err := f.products.GetProduct(ctx, f.widget.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, widget.Stock)
}

func TestOrderService_PriceChangeDoesNotAffectExistingOrders(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	f.expectEvent(models.EventOrderCreated)

	order, err := f.orders.CreateOrder(ctx, models.CreateOrderRequest{
		UserID: f.user.ID,
		Items:  []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = f.products.UpdateProduct(ctx, f.widget.ID, models.ProductPatch{Price: price("20.00")})
	require.NoError(t, err)

	stored, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "19.98", stored.TotalAmount.StringFixed(2))
	assert.Equal(t, "9.99", stored.Items[0].Price.StringFixed(2))
}

func TestOrderService_UpdateOrder(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	f.expectEvent(models.EventOrderCreated)
	f.expectEvent(models.EventOrderStatusChanged)

	order, err := f.orders.CreateOrder(ctx, models.CreateOrderRequest{
		UserID: f.user.ID,
		Items:  []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	status := " shipped "
	updated, err := f.orders.UpdateOrder(ctx, order.ID, models.OrderPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "shipped", updated.Status)
	assert.True(t, order.TotalAmount.Equal(updated.TotalAmount))
	assert.Len(t, updated.Items, 1)

	blank := "   "
	_, err = f.orders.UpdateOrder(ctx, order.ID, models.OrderPatch{Status: &blank})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = f.orders.UpdateOrder(ctx, 999, models.OrderPatch{Status: &status})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	f.publisher.AssertExpectations(t)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	f.publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)
	req := models.CreateOrderRequest{
		UserID: f.user.ID,
		Items: []models.OrderItemRequest{
			{ProductID: f.widget.ID, Quantity: 1},
			{ProductID: f.widget.ID, Quantity: 2},
		},
	}
	doomed, err := f.orders.CreateOrder(ctx, req)
	require.NoError(t, err)
	kept, err := f.orders.CreateOrder(ctx, req)
	require.NoError(t, err)

	deleted, err := f.orders.DeleteOrder(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Len(t, deleted.Items, 2)

	orders, items := f.counts(t)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(2), items)

	remaining, err := f.orders.GetOrder(ctx, kept.ID)
	require.NoError(t, err)
	assert.Len(t, remaining.Items, 2)

	_, err = f.orders.DeleteOrder(ctx, doomed.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_ListOrdersByUser(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	f.publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)
	other := &models.User{Name: "B", Email: "b@x.com", Password: "p"}
	require.NoError(t, f.store.Users().Create(ctx, other))

	line := []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 1}}
	_, err := f.orders.CreateOrder(ctx, models.CreateOrderRequest{UserID: f.user.ID, Items: line})
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(ctx, models.CreateOrderRequest{UserID: other.ID, Items: line})
	require.NoError(t, err)

	mine, err := f.orders.ListOrdersByUser(ctx, f.user.ID, models.Page{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.user.ID, mine[0].UserID)
	assert.Len(t, mine[0].Items, 1)

	all, err := f.orders.ListOrders(ctx, models.Page{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrderService_PublishFailureDoesNotFailOrder(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	f.publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	order, err := f.orders.CreateOrder(ctx, models.CreateOrderRequest{
		UserID: f.user.ID,
		Items:  []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	f.publisher.AssertExpectations(t)
}

func TestOrderService_WithoutPublisher(t *testing.T) {
	ctx := context.Background()
	f := setupOrders(t)
	orders := services.NewOrderService(f.store, nil, nil)

	order, err := orders.CreateOrder(ctx, models.CreateOrderRequest{
		UserID: f.user.ID,
		Items:  []models.OrderItemRequest{{ProductID: f.widget.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
}
