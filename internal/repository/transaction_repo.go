package repository

import (
	"context"
	"errors"

	"go-bookkeeping-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrRowNotInTransaction: detail row yang dikirim tidak milik transaksi ini.
var ErrRowNotInTransaction = errors.New("row does not belong to transaction")

// TransactionRepository: method yang menerima tx *gorm.DB harus dipanggil di dalam db.Transaction.
type TransactionRepository interface {
	CreateHeader(tx *gorm.DB, t *model.Transaction) error
	BulkCreateItems(tx *gorm.DB, items []model.TransactionItem) error
	BulkCreateExpenses(tx *gorm.DB, expenses []model.TransactionExpense) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	FindHeader(tx *gorm.DB, id uuid.UUID) (*model.Transaction, error)
	UpdateHeader(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error

	ListItems(tx *gorm.DB, transactionID uuid.UUID) ([]model.TransactionItem, error)
	UpdateItem(tx *gorm.DB, transactionID uuid.UUID, item *model.TransactionItem) error
	DeleteItems(tx *gorm.DB, transactionID uuid.UUID, ids []uuid.UUID) error
	SumItems(tx *gorm.DB, transactionID uuid.UUID) (decimal.Decimal, error)

	ListExpenses(tx *gorm.DB, transactionID uuid.UUID) ([]model.TransactionExpense, error)
	UpdateExpense(tx *gorm.DB, transactionID uuid.UUID, expense *model.TransactionExpense) error
	DeleteExpenses(tx *gorm.DB, transactionID uuid.UUID, ids []uuid.UUID) error
	SumExpenses(tx *gorm.DB, transactionID uuid.UUID) (decimal.Decimal, error)

	FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	FindPaginated(ctx context.Context, filter model.TransactionFilter, q model.PageQuery) ([]model.Transaction, int64, error)
	SumTotals(ctx context.Context, filter model.TransactionFilter) (debit, credit decimal.Decimal, err error)

	FindItemsPaginated(ctx context.Context, filter model.DetailFilter, q model.PageQuery) ([]model.TransactionItem, int64, error)
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.TransactionItem, error)
	FindExpensesPaginated(ctx context.Context, filter model.DetailFilter, q model.PageQuery) ([]model.TransactionExpense, int64, error)
	FindExpenseByID(ctx context.Context, id uuid.UUID) (*model.TransactionExpense, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) CreateHeader(tx *gorm.DB, t *model.Transaction) error {
	return tx.Omit("Supplier", "Customer", "Items", "Expenses").Create(t).Error
}

func (r *transactionRepo) BulkCreateItems(tx *gorm.DB, items []model.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.Omit("Item").Create(&items).Error
}

func (r *transactionRepo) BulkCreateExpenses(tx *gorm.DB, expenses []model.TransactionExpense) error {
	if len(expenses) == 0 {
		return nil
	}
	return tx.Omit("ExpenseType").Create(&expenses).Error
}

// Delete menghapus header; FK ON DELETE CASCADE membersihkan items dan expenses.
func (r *transactionRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return deleteByID(tx, &model.Transaction{}, id)
}

func (r *transactionRepo) FindHeader(tx *gorm.DB, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	if err := tx.First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepo) UpdateHeader(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := tx.Model(&model.Transaction{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *transactionRepo) ListItems(tx *gorm.DB, transactionID uuid.UUID) ([]model.TransactionItem, error) {
	var items []model.TransactionItem
	err := tx.Where("transaction_id = ?", transactionID).Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *transactionRepo) UpdateItem(tx *gorm.DB, transactionID uuid.UUID, item *model.TransactionItem) error {
	res := tx.Model(&model.TransactionItem{}).
		Where("id = ? AND transaction_id = ?", item.ID, transactionID).
		Updates(map[string]interface{}{
			"item_id":    item.ItemID,
			"unit_price": item.UnitPrice,
			"qty":        item.Qty,
			"subtotal":   item.Subtotal,
			"updated_by": item.UpdatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRowNotInTransaction
	}
	return nil
}

func (r *transactionRepo) DeleteItems(tx *gorm.DB, transactionID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Where("transaction_id = ? AND id IN ?", transactionID, ids).Delete(&model.TransactionItem{}).Error
}

func (r *transactionRepo) SumItems(tx *gorm.DB, transactionID uuid.UUID) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := tx.Model(&model.TransactionItem{}).
		Select("COALESCE(SUM(subtotal), 0) AS total").
		Where("transaction_id = ?", transactionID).
		Scan(&row).Error
	return row.Total, err
}

func (r *transactionRepo) ListExpenses(tx *gorm.DB, transactionID uuid.UUID) ([]model.TransactionExpense, error) {
	var expenses []model.TransactionExpense
	err := tx.Where("transaction_id = ?", transactionID).Order("created_at ASC").Find(&expenses).Error
	return expenses, err
}

func (r *transactionRepo) UpdateExpense(tx *gorm.DB, transactionID uuid.UUID, expense *model.TransactionExpense) error {
	res := tx.Model(&model.TransactionExpense{}).
		Where("id = ? AND transaction_id = ?", expense.ID, transactionID).
		Updates(map[string]interface{}{
			"expense_type_id": expense.ExpenseTypeID,
			"amount":          expense.Amount,
			"notes":           expense.Notes,
			"subtotal":        expense.Subtotal,
			"updated_by":      expense.UpdatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRowNotInTransaction
	}
	return nil
}

func (r *transactionRepo) DeleteExpenses(tx *gorm.DB, transactionID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Where("transaction_id = ? AND id IN ?", transactionID, ids).Delete(&model.TransactionExpense{}).Error
}

func (r *transactionRepo) SumExpenses(tx *gorm.DB, transactionID uuid.UUID) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := tx.Model(&model.TransactionExpense{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("transaction_id = ?", transactionID).
		Scan(&row).Error
	return row.Total, err
}

func (r *transactionRepo) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.withDetails(r.db.WithContext(ctx)).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepo) FindPaginated(ctx context.Context, filter model.TransactionFilter, q model.PageQuery) ([]model.Transaction, int64, error) {
	var (
		transactions []model.Transaction
		total        int64
	)
	query := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Transaction{}).Scopes(applyTransactionFilter(filter))
	}
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.withDetails(query()).
		Scopes(paginate(q)).
		Order("transaction_date DESC, created_at DESC").
		Find(&transactions).Error
	return transactions, total, err
}

// SumTotals: debit = total transaksi buy, credit = total transaksi sell, atas seluruh filter (bukan per halaman).
func (r *transactionRepo) SumTotals(ctx context.Context, filter model.TransactionFilter) (decimal.Decimal, decimal.Decimal, error) {
	var row struct {
		TotalDebit  decimal.Decimal
		TotalCredit decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Scopes(applyTransactionFilter(filter)).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN total ELSE 0 END), 0) AS total_debit, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN total ELSE 0 END), 0) AS total_credit",
			model.TransactionBuy, model.TransactionSell,
		).
		Scan(&row).Error
	return row.TotalDebit, row.TotalCredit, err
}

// ===== Read-only detail queries =====

func (r *transactionRepo) FindItemsPaginated(ctx context.Context, filter model.DetailFilter, q model.PageQuery) ([]model.TransactionItem, int64, error) {
	var (
		items []model.TransactionItem
		total int64
	)
	query := func() *gorm.DB {
		db := r.db.WithContext(ctx).Model(&model.TransactionItem{}).Scopes(r.applyDetailFilter(ctx, filter))
		if filter.ItemID != nil {
			db = db.Where("item_id = ?", *filter.ItemID)
		}
		return db
	}
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query().
		Preload("Item.Brand").
		Scopes(paginate(q)).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = items[i].TransactionID
	}
	headers, err := r.headersByID(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].Transaction = headers[items[i].TransactionID]
	}
	return items, total, nil
}

func (r *transactionRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*model.TransactionItem, error) {
	var item model.TransactionItem
	if err := r.db.WithContext(ctx).Preload("Item.Brand").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	headers, err := r.headersByID(ctx, []uuid.UUID{item.TransactionID})
	if err != nil {
		return nil, err
	}
	item.Transaction = headers[item.TransactionID]
	return &item, nil
}

func (r *transactionRepo) FindExpensesPaginated(ctx context.Context, filter model.DetailFilter, q model.PageQuery) ([]model.TransactionExpense, int64, error) {
	var (
		expenses []model.TransactionExpense
		total    int64
	)
	query := func() *gorm.DB {
		db := r.db.WithContext(ctx).Model(&model.TransactionExpense{}).Scopes(r.applyDetailFilter(ctx, filter))
		if filter.ExpenseTypeID != nil {
			db = db.Where("expense_type_id = ?", *filter.ExpenseTypeID)
		}
		return db
	}
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query().
		Preload("ExpenseType").
		Scopes(paginate(q)).
		Order("created_at DESC").
		Find(&expenses).Error
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(expenses))
	for i := range expenses {
		ids[i] = expenses[i].TransactionID
	}
	headers, err := r.headersByID(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range expenses {
		expenses[i].Transaction = headers[expenses[i].TransactionID]
	}
	return expenses, total, nil
}

func (r *transactionRepo) FindExpenseByID(ctx context.Context, id uuid.UUID) (*model.TransactionExpense, error) {
	var expense model.TransactionExpense
	if err := r.db.WithContext(ctx).Preload("ExpenseType").First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	headers, err := r.headersByID(ctx, []uuid.UUID{expense.TransactionID})
	if err != nil {
		return nil, err
	}
	expense.Transaction = headers[expense.TransactionID]
	return &expense, nil
}

// headersByID memuat header (dengan supplier/customer) untuk ditempel ke baris detail.
func (r *transactionRepo) headersByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Transaction, error) {
	out := make(map[uuid.UUID]*model.Transaction, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var headers []model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Customer").
		Where("id IN ?", ids).
		Find(&headers).Error
	if err != nil {
		return nil, err
	}
	for i := range headers {
		out[headers[i].ID] = &headers[i]
	}
	return out, nil
}

// applyDetailFilter: filter type lewat subquery ke transactions supaya kolom detail tidak ambigu.
func (r *transactionRepo) applyDetailFilter(ctx context.Context, f model.DetailFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.TransactionID != nil {
			db = db.Where("transaction_id = ?", *f.TransactionID)
		}
		if f.Type != "" {
			sub := r.db.WithContext(ctx).Model(&model.Transaction{}).Select("id").Where("type = ?", f.Type)
			db = db.Where("transaction_id IN (?)", sub)
		}
		return db
	}
}

func (r *transactionRepo) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Supplier").
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Item.Brand").
		Preload("Expenses", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Expenses.ExpenseType")
}

func applyTransactionFilter(f model.TransactionFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Type != "" {
			db = db.Where("type = ?", f.Type)
		}
		if f.SupplierID != nil {
			db = db.Where("supplier_id = ?", *f.SupplierID)
		}
		if f.CustomerID != nil {
			db = db.Where("customer_id = ?", *f.CustomerID)
		}
		if f.StartDate != nil {
			db = db.Where("transaction_date >= ?", *f.StartDate)
		}
		if f.EndDate != nil {
			db = db.Where("transaction_date <= ?", *f.EndDate)
		}
		return db
	}
}
