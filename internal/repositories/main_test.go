package repositories_test

import (
	"context"
	"testing"

	"ecomstore/internal/database"
	"ecomstore/internal/models"
	"ecomstore/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory sqlite database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(mustDialector(t, dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func mustDialector(t *testing.T, dsn string) gorm.Dialector {
	t.Helper()
	dialector, err := database.Dialector("sqlite", dsn)
	require.NoError(t, err)
	return dialector
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedUser(t *testing.T, store repositories.Store, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "A", Email: email, Password: "p"}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func seedProduct(t *testing.T, store repositories.Store, name, price string) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, Price: money(price), Stock: 5}
	require.NoError(t, store.Products().Create(context.Background(), product))
	return product
}

func seedOrder(t *testing.T, store repositories.Store, userID uint, items ...models.OrderItem) *models.Order {
	t.Helper()
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	order := &models.Order{UserID: userID, Status: models.OrderStatusPending, TotalAmount: total, Items: items}
	require.NoError(t, store.Orders().Create(context.Background(), order))
	return order
}
