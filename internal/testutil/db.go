// Package testutil provides an in-memory SQLite database with the production schema for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"go-bookkeeping-ws/internal/model"
	"go-bookkeeping-ws/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens an isolated in-memory database with foreign keys enforced.
// A single connection keeps the database alive, so code under test must use tx inside db.Transaction.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func CreateContact(t *testing.T, db *gorm.DB, name string) *model.Contact {
	t.Helper()
	c := &model.Contact{Name: name, Phone: "+62" + uuid.NewString()[:8]}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateItem(t *testing.T, db *gorm.DB, brandName, modelName string) *model.Item {
	t.Helper()
	brand := &model.Brand{Name: brandName + "-" + uuid.NewString()[:4]}
	require.NoError(t, db.Create(brand).Error)
	item := &model.Item{BrandID: brand.ID, ModelName: modelName, RamGB: 8, StorageGB: 128}
	item.DisplayName = item.BuildDisplayName(brandName)
	require.NoError(t, db.Omit("Brand").Create(item).Error)
	return item
}

func CreateExpenseType(t *testing.T, db *gorm.DB, name string) *model.ExpenseType {
	t.Helper()
	et := &model.ExpenseType{Name: name}
	require.NoError(t, db.Create(et).Error)
	return et
}

// InsertTransaction writes a full transaction directly, bypassing the service.
func InsertTransaction(t *testing.T, db *gorm.DB, txType model.TransactionType, contactID uuid.UUID, date time.Time, items []model.TransactionItem, expenses []model.TransactionExpense) *model.Transaction {
	t.Helper()
	header := &model.Transaction{Type: txType, TransactionDate: date, Total: decimal.Zero}
	if txType == model.TransactionBuy {
		header.SupplierID = &contactID
	} else {
		header.CustomerID = &contactID
	}
	require.NoError(t, db.Omit("Supplier", "Customer", "Items", "Expenses").Create(header).Error)
	for i := range items {
		items[i].TransactionID = header.ID
	}
	for i := range expenses {
		expenses[i].TransactionID = header.ID
	}
	if len(items) > 0 {
		require.NoError(t, db.Omit("Item").Create(&items).Error)
	}
	if len(expenses) > 0 {
		require.NoError(t, db.Omit("ExpenseType").Create(&expenses).Error)
	}
	header.Items = items
	header.Expenses = expenses
	return header
}

func Money(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
