package repository

import (
	"context"
	"time"

	"go-bookkeeping-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DateSpan adalah rentang tanggal inklusif (UTC midnight).
type DateSpan struct {
	Start time.Time
	End   time.Time
}

// PeriodSums hasil satu query agregat: current/previous x sales/purchase/expense.
type PeriodSums struct {
	CurrentSales     decimal.Decimal
	CurrentPurchase  decimal.Decimal
	CurrentExpense   decimal.Decimal
	PreviousSales    decimal.Decimal
	PreviousPurchase decimal.Decimal
	PreviousExpense  decimal.Decimal
}

type DailySums struct {
	Date     time.Time
	Sales    decimal.Decimal
	Purchase decimal.Decimal
	Expense  decimal.Decimal
}

type PurchaseRow struct {
	TransactionID    uuid.UUID
	Type             string
	TransactionDate  time.Time
	ItemSubtotal     decimal.NullDecimal
	TransactionTotal decimal.Decimal
}

type DashboardRepository interface {
	GetPeriodSums(ctx context.Context, current, previous DateSpan) (*PeriodSums, error)
	GetDailySums(ctx context.Context, span DateSpan) ([]DailySums, error)
	GetStats(ctx context.Context) (*model.DashboardStats, error)
	GetPurchaseRows(ctx context.Context, date time.Time) ([]PurchaseRow, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db}
}

// Satu round-trip: enam scalar subquery. Expense tidak difilter berdasarkan type.
const periodSumsSQL = `
SELECT
	(SELECT COALESCE(SUM(ti.subtotal), 0) FROM transactions t
		JOIN transaction_items ti ON ti.transaction_id = t.id
		WHERE t.type = 'sell' AND t.transaction_date >= @cur_start AND t.transaction_date <= @cur_end) AS current_sales,
	(SELECT COALESCE(SUM(ti.subtotal), 0) FROM transactions t
		JOIN transaction_items ti ON ti.transaction_id = t.id
		WHERE t.type = 'buy' AND t.transaction_date >= @cur_start AND t.transaction_date <= @cur_end) AS current_purchase,
	(SELECT COALESCE(SUM(te.amount), 0) FROM transactions t
		JOIN transaction_expenses te ON te.transaction_id = t.id
		WHERE t.transaction_date >= @cur_start AND t.transaction_date <= @cur_end) AS current_expense,
	(SELECT COALESCE(SUM(ti.subtotal), 0) FROM transactions t
		JOIN transaction_items ti ON ti.transaction_id = t.id
		WHERE t.type = 'sell' AND t.transaction_date >= @prev_start AND t.transaction_date <= @prev_end) AS previous_sales,
	(SELECT COALESCE(SUM(ti.subtotal), 0) FROM transactions t
		JOIN transaction_items ti ON ti.transaction_id = t.id
		WHERE t.type = 'buy' AND t.transaction_date >= @prev_start AND t.transaction_date <= @prev_end) AS previous_purchase,
	(SELECT COALESCE(SUM(te.amount), 0) FROM transactions t
		JOIN transaction_expenses te ON te.transaction_id = t.id
		WHERE t.transaction_date >= @prev_start AND t.transaction_date <= @prev_end) AS previous_expense
`

func (r *dashboardRepo) GetPeriodSums(ctx context.Context, current, previous DateSpan) (*PeriodSums, error) {
	var sums PeriodSums
	err := r.db.WithContext(ctx).Raw(periodSumsSQL, map[string]interface{}{
		"cur_start":  current.Start,
		"cur_end":    current.End,
		"prev_start": previous.Start,
		"prev_end":   previous.End,
	}).Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	return &sums, nil
}

// GetDailySums: items dan expenses dijumlah terpisah agar join tidak menggandakan baris.
func (r *dashboardRepo) GetDailySums(ctx context.Context, span DateSpan) ([]DailySums, error) {
	var itemRows []struct {
		Date     time.Time
		Sales    decimal.Decimal
		Purchase decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Table("transactions AS t").
		Joins("JOIN transaction_items ti ON ti.transaction_id = t.id").
		Select(`t.transaction_date AS date,
			COALESCE(SUM(CASE WHEN t.type = 'sell' THEN ti.subtotal ELSE 0 END), 0) AS sales,
			COALESCE(SUM(CASE WHEN t.type = 'buy' THEN ti.subtotal ELSE 0 END), 0) AS purchase`).
		Where("t.transaction_date >= ? AND t.transaction_date <= ?", span.Start, span.End).
		Group("t.transaction_date").
		Scan(&itemRows).Error
	if err != nil {
		return nil, err
	}

	var expenseRows []struct {
		Date    time.Time
		Expense decimal.Decimal
	}
	err = r.db.WithContext(ctx).
		Table("transactions AS t").
		Joins("JOIN transaction_expenses te ON te.transaction_id = t.id").
		Select("t.transaction_date AS date, COALESCE(SUM(te.amount), 0) AS expense").
		Where("t.transaction_date >= ? AND t.transaction_date <= ?", span.Start, span.End).
		Group("t.transaction_date").
		Scan(&expenseRows).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*DailySums)
	key := func(t time.Time) string { return t.UTC().Format("2006-01-02") }
	get := func(t time.Time) *DailySums {
		k := key(t)
		if d, ok := byDay[k]; ok {
			return d
		}
		d := &DailySums{Date: t.UTC()}
		byDay[k] = d
		return d
	}
	for _, row := range itemRows {
		d := get(row.Date)
		d.Sales = row.Sales
		d.Purchase = row.Purchase
	}
	for _, row := range expenseRows {
		get(row.Date).Expense = row.Expense
	}

	out := make([]DailySums, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	return out, nil
}

func (r *dashboardRepo) GetStats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	db := r.db.WithContext(ctx)

	counts := []struct {
		model interface{}
		where string
		dest  *int64
	}{
		{&model.Contact{}, "", &stats.TotalContacts},
		{&model.Brand{}, "", &stats.TotalBrands},
		{&model.Item{}, "", &stats.TotalItems},
		{&model.ExpenseType{}, "", &stats.TotalExpenseTypes},
		{&model.Transaction{}, "", &stats.TotalTransactions},
		{&model.Transaction{}, string(model.TransactionBuy), &stats.TotalBuy},
		{&model.Transaction{}, string(model.TransactionSell), &stats.TotalSell},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where("type = ?", c.where)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &stats, nil
}

func (r *dashboardRepo) GetPurchaseRows(ctx context.Context, date time.Time) ([]PurchaseRow, error) {
	var rows []PurchaseRow
	err := r.db.WithContext(ctx).
		Table("transactions AS t").
		Joins("LEFT JOIN transaction_items ti ON ti.transaction_id = t.id").
		Select("t.id AS transaction_id, t.type, t.transaction_date, ti.subtotal AS item_subtotal, t.total AS transaction_total").
		Where("t.type = ? AND t.transaction_date = ?", model.TransactionBuy, date).
		Order("t.created_at ASC").
		Scan(&rows).Error
	return rows, err
}
