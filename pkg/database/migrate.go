package database

import (
	"go-bookkeeping-ws/internal/model"

	"gorm.io/gorm"
)

// Migrate membuat tabel beserta FK (cascade dari transactions ke detail).
// Hati-hati di production, sebaiknya pakai tools migrasi terpisah.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Contact{},
		&model.Brand{},
		&model.Item{},
		&model.ExpenseType{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.TransactionExpense{},
	)
}
