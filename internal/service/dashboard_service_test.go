package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-bookkeeping-ws/internal/model"
	"go-bookkeeping-ws/internal/repository"
	"go-bookkeeping-ws/internal/service"
	"go-bookkeeping-ws/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardRepo struct {
	calls   atomic.Int32
	delay   time.Duration
	err     error
	sums    map[time.Time]*repository.PeriodSums
	daily   []repository.DailySums
	spans   []repository.DateSpan
	spansMu sync.Mutex
}

func (f *fakeDashboardRepo) GetPeriodSums(_ context.Context, current, previous repository.DateSpan) (*repository.PeriodSums, error) {
	f.calls.Add(1)
	f.spansMu.Lock()
	f.spans = append(f.spans, current, previous)
	f.spansMu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.sums[current.Start]; ok {
		return s, nil
	}
	return &repository.PeriodSums{}, nil
}

func (f *fakeDashboardRepo) GetDailySums(_ context.Context, span repository.DateSpan) ([]repository.DailySums, error) {
	f.spansMu.Lock()
	f.spans = append(f.spans, span)
	f.spansMu.Unlock()
	return f.daily, f.err
}

func (f *fakeDashboardRepo) GetStats(context.Context) (*model.DashboardStats, error) {
	return &model.DashboardStats{TotalTransactions: 3, TotalBuy: 2, TotalSell: 1}, nil
}

func (f *fakeDashboardRepo) GetPurchaseRows(context.Context, time.Time) ([]repository.PurchaseRow, error) {
	return nil, nil
}

var dashNow = time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

func newDashboardService(repo repository.DashboardRepository, cache service.DashboardCache) service.DashboardService {
	return service.NewDashboardService(repo, cache, service.DashboardServiceConfig{
		Now: func() time.Time { return dashNow },
	})
}

func TestDashboardService_CachesWithinTTL(t *testing.T) {
	ctx := context.Background()
	repo := &fakeDashboardRepo{}
	svc := newDashboardService(repo, service.NewMemoryCache(5*time.Minute, nil))

	first, err := svc.GetDashboardData(ctx)
	require.NoError(t, err)
	second, err := svc.GetDashboardData(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(2), repo.calls.Load(), "one query per period, computed once")

	require.NoError(t, svc.ClearCache(ctx))
	third, err := svc.GetDashboardData(ctx)
	require.NoError(t, err)

	assert.NotSame(t, first, third)
	assert.Equal(t, int32(4), repo.calls.Load())
}

func TestDashboardService_ConcurrentMissesComputeOnce(t *testing.T) {
	repo := &fakeDashboardRepo{delay: 50 * time.Millisecond}
	svc := newDashboardService(repo, service.NewMemoryCache(time.Minute, nil))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetDashboardData(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(2), repo.calls.Load())
}

func TestDashboardService_ErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	repo := &fakeDashboardRepo{err: errors.New("db down")}
	svc := newDashboardService(repo, service.NewMemoryCache(time.Minute, nil))

	_, err := svc.GetDashboardData(ctx)
	require.Error(t, err)

	repo.err = nil
	data, err := svc.GetDashboardData(ctx)
	require.NoError(t, err)
	assert.NotNil(t, data)
}

func TestDashboardService_BuildsMetrics(t *testing.T) {
	today := testutil.Date(2025, time.January, 15)
	monthStart := testutil.Date(2025, time.January, 1)
	repo := &fakeDashboardRepo{sums: map[time.Time]*repository.PeriodSums{
		today: {
			CurrentSales:     testutil.Money(0),
			PreviousSales:    testutil.Money(500000),
			CurrentPurchase:  testutil.Money(300000),
			PreviousPurchase: testutil.Money(300000),
			CurrentExpense:   testutil.Money(20000),
		},
		monthStart: {
			CurrentSales:     testutil.Money(1500000),
			PreviousSales:    testutil.Money(1000000),
			CurrentPurchase:  testutil.Money(2000000),
			PreviousPurchase: testutil.Money(1000000),
			CurrentExpense:   testutil.Money(100000),
			PreviousExpense:  testutil.Money(50000),
		},
	}}
	svc := newDashboardService(repo, service.NewMemoryCache(time.Minute, nil))

	data, err := svc.GetDashboardData(context.Background())
	require.NoError(t, err)

	daily := data.Daily
	assert.Equal(t, 0.0, daily.Sales.Amount)
	assert.Equal(t, model.ChangeData{Type: model.ChangeDown, Percentage: 100}, daily.Sales.Change)
	assert.Equal(t, "Belum ada penjualan hari ini", daily.Sales.Verdict)
	assert.Equal(t, model.ChangeStay, daily.Purchase.Change.Type)
	assert.Equal(t, "Pembelian stabil dibandingkan kemarin", daily.Purchase.Verdict)
	assert.Equal(t, -320000.0, daily.Profit.Amount)
	assert.Equal(t, "Kerugian bertambah dibandingkan kemarin", daily.Profit.Verdict)
	assert.Equal(t, "Saldo awal hari ini belum tercatat", daily.InitialBalance.Verdict)

	monthly := data.Monthly
	assert.Equal(t, 1500000.0, monthly.Sales.Amount)
	assert.Equal(t, model.ChangeData{Type: model.ChangeUp, Percentage: 50}, monthly.Sales.Change)
	assert.Equal(t, "Penjualan meningkat dibandingkan bulan lalu", monthly.Sales.Verdict)
	// profit: -600,000 now vs -50,000 before
	assert.Equal(t, -600000.0, monthly.Profit.Amount)
	assert.Equal(t, model.ChangeDown, monthly.Profit.Change.Type)
	assert.Equal(t, 1100.0, monthly.Profit.Change.Percentage)
	assert.Equal(t, "Saldo akhir stabil dibandingkan bulan lalu", monthly.FinalBalance.Verdict)
}

func TestDashboardService_QueriesCalendarWindows(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := newDashboardService(repo, service.NewMemoryCache(time.Minute, nil))

	_, err := svc.GetDashboardData(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []repository.DateSpan{
		{Start: testutil.Date(2025, 1, 15), End: testutil.Date(2025, 1, 15)},
		{Start: testutil.Date(2025, 1, 14), End: testutil.Date(2025, 1, 14)},
		{Start: testutil.Date(2025, 1, 1), End: testutil.Date(2025, 1, 31)},
		{Start: testutil.Date(2024, 12, 1), End: testutil.Date(2024, 12, 31)},
	}, repo.spans)
}

func TestDashboardService_GetTrend(t *testing.T) {
	repo := &fakeDashboardRepo{daily: []repository.DailySums{
		{Date: testutil.Date(2025, 1, 12), Sales: testutil.Money(100)},
		{Date: testutil.Date(2025, 1, 13), Sales: testutil.Money(200), Purchase: testutil.Money(50)},
		{Date: testutil.Date(2025, 1, 15), Sales: testutil.Money(150), Expense: testutil.Money(10)},
	}}
	svc := newDashboardService(repo, nil)

	points, err := svc.GetTrend(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, points, 3)
	assert.Equal(t, []string{"2025-01-13", "2025-01-14", "2025-01-15"},
		[]string{points[0].Date, points[1].Date, points[2].Date})
	assert.Equal(t, repository.DateSpan{Start: testutil.Date(2025, 1, 12), End: testutil.Date(2025, 1, 15)}, repo.spans[0])

	// Jan 13 vs Jan 12
	assert.Equal(t, 200.0, points[0].Sales)
	assert.Equal(t, 100.0, points[0].SalesTrend)
	assert.Equal(t, 150.0, points[0].Profit)
	assert.Equal(t, 50.0, points[0].ProfitTrend)

	// Jan 14 is a gap day
	assert.Equal(t, 0.0, points[1].Sales)
	assert.Equal(t, -100.0, points[1].SalesTrend)
	assert.Equal(t, 100.0, points[1].Sales7DayAvg)

	// Jan 15 vs an empty day
	assert.Equal(t, 0.0, points[2].SalesTrend)
	assert.Equal(t, 140.0, points[2].Profit)
	assert.Equal(t, 116.67, points[2].Sales7DayAvg)
}

func TestDashboardService_GetTrend_ClampsDays(t *testing.T) {
	svc := newDashboardService(&fakeDashboardRepo{}, nil)

	points, err := svc.GetTrend(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, points, service.DefaultTrendDays)

	points, err = svc.GetTrend(context.Background(), 10000)
	require.NoError(t, err)
	assert.Len(t, points, service.MaxTrendDays)
}

func TestDashboardService_DebugMonthlyDates(t *testing.T) {
	repo := &fakeDashboardRepo{sums: map[time.Time]*repository.PeriodSums{
		testutil.Date(2025, 1, 1): {CurrentSales: testutil.Money(10), PreviousExpense: testutil.Money(3)},
	}}
	svc := newDashboardService(repo, nil)

	debug, err := svc.DebugMonthlyDates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.DateRange{Start: "2025-01-01", End: "2025-01-31"}, debug.Current)
	assert.Equal(t, model.DateRange{Start: "2024-12-01", End: "2024-12-31"}, debug.Previous)
	assert.Equal(t, 10.0, debug.Data["current_sales"])
	assert.Equal(t, 3.0, debug.Data["previous_expense"])
}

// sqlite backed: the aggregate SQL itself.
func TestDashboardService_AggregatesFromStorage(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	supplier := testutil.CreateContact(t, db, "Supplier")
	customer := testutil.CreateContact(t, db, "Customer")
	item := testutil.CreateItem(t, db, "Xiaomi", "Redmi Note 13")
	fee := testutil.CreateExpenseType(t, db, "Biaya Admin")

	line := func(subtotal int64) []model.TransactionItem {
		return []model.TransactionItem{{ItemID: item.ID, Qty: 1, UnitPrice: testutil.Money(subtotal), Subtotal: testutil.Money(subtotal)}}
	}
	cost := func(amount int64) []model.TransactionExpense {
		return []model.TransactionExpense{{ExpenseTypeID: fee.ID, Amount: testutil.Money(amount), Subtotal: testutil.Money(amount)}}
	}

	// today (Jan 15)
	testutil.InsertTransaction(t, db, model.TransactionSell, customer.ID, testutil.Date(2025, 1, 15), line(300000), cost(10000))
	testutil.InsertTransaction(t, db, model.TransactionBuy, supplier.ID, testutil.Date(2025, 1, 15), line(100000), nil)
	// yesterday
	testutil.InsertTransaction(t, db, model.TransactionSell, customer.ID, testutil.Date(2025, 1, 14), line(200000), nil)
	// earlier this month, and last month
	testutil.InsertTransaction(t, db, model.TransactionSell, customer.ID, testutil.Date(2025, 1, 2), line(500000), cost(5000))
	testutil.InsertTransaction(t, db, model.TransactionSell, customer.ID, testutil.Date(2024, 12, 31), line(400000), nil)
	testutil.InsertTransaction(t, db, model.TransactionBuy, supplier.ID, testutil.Date(2024, 12, 1), line(250000), cost(1000))
	// outside both windows
	testutil.InsertTransaction(t, db, model.TransactionSell, customer.ID, testutil.Date(2024, 11, 30), line(999999), nil)

	svc := newDashboardService(repository.NewDashboardRepo(db), service.NewMemoryCache(time.Minute, nil))
	data, err := svc.GetDashboardData(ctx)
	require.NoError(t, err)

	assert.Equal(t, 300000.0, data.Daily.Sales.Amount)
	assert.Equal(t, model.ChangeData{Type: model.ChangeUp, Percentage: 50}, data.Daily.Sales.Change)
	assert.Equal(t, 100000.0, data.Daily.Purchase.Amount)
	assert.Equal(t, 10000.0, data.Daily.Expense.Amount)
	assert.Equal(t, 190000.0, data.Daily.Profit.Amount)

	assert.Equal(t, 1000000.0, data.Monthly.Sales.Amount)
	assert.Equal(t, 100000.0, data.Monthly.Purchase.Amount)
	assert.Equal(t, 15000.0, data.Monthly.Expense.Amount)
	assert.Equal(t, model.ChangeData{Type: model.ChangeUp, Percentage: 150}, data.Monthly.Sales.Change)
	// last month: 400,000 - 250,000 - 1,000 = 149,000
	assert.Equal(t, model.ChangeUp, data.Monthly.Profit.Change.Type)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.TotalTransactions)
	assert.Equal(t, int64(2), stats.TotalBuy)
	assert.Equal(t, int64(5), stats.TotalSell)
	assert.Equal(t, int64(2), stats.TotalContacts)

	rows, err := svc.DebugPurchaseCalculation(ctx, "2025-01-15")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 100000.0, rows[0].ItemSubtotal)
	assert.Equal(t, "2025-01-15", rows[0].TransactionDate)
}

func TestDashboardService_DebugPurchaseRejectsBadDate(t *testing.T) {
	svc := newDashboardService(&fakeDashboardRepo{}, nil)

	_, err := svc.DebugPurchaseCalculation(context.Background(), "yesterday")

	var vErr *service.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestCombineTotal(t *testing.T) {
	items, expenses := decimal.NewFromInt(2000000), decimal.NewFromInt(50000)

	assert.True(t, service.CombineTotal(model.TransactionBuy, items, expenses).Equal(decimal.NewFromInt(2050000)))
	assert.True(t, service.CombineTotal(model.TransactionSell, items, expenses).Equal(decimal.NewFromInt(1950000)))
}
