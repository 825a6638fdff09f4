package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go-bookkeeping-ws/internal/model"
	"go-bookkeeping-ws/internal/observability"
	"go-bookkeeping-ws/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTrendDays = 30
	MaxTrendDays     = 365
)

type DashboardService interface {
	GetDashboardData(ctx context.Context) (*model.DashboardData, error)
	ClearCache(ctx context.Context) error
	GetTrend(ctx context.Context, days int) ([]model.TrendPoint, error)
	GetStats(ctx context.Context) (*model.DashboardStats, error)
	DebugPurchaseCalculation(ctx context.Context, date string) ([]model.PurchaseDebugRow, error)
	DebugMonthlyDates(ctx context.Context) (*model.MonthlyDatesDebug, error)
}

type DashboardServiceConfig struct {
	// Location menentukan "hari ini"; default UTC
	Location *time.Location
	Now      func() time.Time
	Logger   *slog.Logger
	Metrics  *observability.Metrics
}

type dashboardService struct {
	repo    repository.DashboardRepository
	cache   DashboardCache
	group   singleflight.Group
	loc     *time.Location
	now     func() time.Time
	log     *slog.Logger
	metrics *observability.Metrics
}

func NewDashboardService(repo repository.DashboardRepository, cache DashboardCache, cfg DashboardServiceConfig) DashboardService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &dashboardService{
		repo:    repo,
		cache:   cache,
		loc:     cfg.Location,
		now:     cfg.Now,
		log:     cfg.Logger.With("component", "dashboard_service"),
		metrics: cfg.Metrics,
	}
}

func (s *dashboardService) GetDashboardData(ctx context.Context) (*model.DashboardData, error) {
	if data, ok := s.cache.Get(ctx); ok {
		s.metrics.CacheHit()
		return data, nil
	}
	s.metrics.CacheMiss()

	// Miss bersamaan digabung jadi satu perhitungan
	resultChan := s.group.DoChan(dashboardCacheKey, func() (interface{}, error) {
		buildCtx := context.WithoutCancel(ctx)
		if data, ok := s.cache.Get(buildCtx); ok {
			return data, nil
		}
		data, err := s.calculate(buildCtx)
		if err != nil {
			return nil, err
		}
		s.cache.Set(buildCtx, data)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.DashboardData), nil
	}
}

func (s *dashboardService) calculate(ctx context.Context) (*model.DashboardData, error) {
	start := time.Now()
	now := s.now()
	daily := DailyRanges(now, s.loc)
	monthly := MonthlyRanges(now, s.loc)

	var dailySums, monthlySums *repository.PeriodSums
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dailySums, err = s.repo.GetPeriodSums(gctx, daily.Current, daily.Previous)
		return err
	})
	g.Go(func() error {
		var err error
		monthlySums, err = s.repo.GetPeriodSums(gctx, monthly.Current, monthly.Previous)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("calculate dashboard: %w", err)
	}

	s.log.Debug("dashboard recalculated",
		"today", daily.Current.Start.Format(time.DateOnly),
		"month_start", monthly.Current.Start.Format(time.DateOnly),
		"prev_month_start", monthly.Previous.Start.Format(time.DateOnly),
		"elapsed", time.Since(start))

	return &model.DashboardData{
		Daily:   buildPeriod(PeriodDaily, dailySums),
		Monthly: buildPeriod(PeriodMonthly, monthlySums),
	}, nil
}

func buildPeriod(period Period, sums *repository.PeriodSums) model.DashboardPeriod {
	curProfit := sums.CurrentSales.Sub(sums.CurrentPurchase).Sub(sums.CurrentExpense)
	prevProfit := sums.PreviousSales.Sub(sums.PreviousPurchase).Sub(sums.PreviousExpense)

	// Saldo belum dihitung dari ledger; selalu 0
	return model.DashboardPeriod{
		Sales:          buildMetric(MetricSales, period, sums.CurrentSales, sums.PreviousSales),
		Purchase:       buildMetric(MetricPurchase, period, sums.CurrentPurchase, sums.PreviousPurchase),
		Expense:        buildMetric(MetricExpense, period, sums.CurrentExpense, sums.PreviousExpense),
		Profit:         buildMetric(MetricProfit, period, curProfit, prevProfit),
		InitialBalance: buildMetric(MetricInitialBalance, period, decimal.Zero, decimal.Zero),
		FinalBalance:   buildMetric(MetricFinalBalance, period, decimal.Zero, decimal.Zero),
	}
}

func (s *dashboardService) ClearCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear dashboard cache: %w", err)
	}
	s.log.Info("dashboard cache cleared")
	return nil
}

// GetTrend returns one point per day (oldest first) for the last `days` days, zero-filled.
func (s *dashboardService) GetTrend(ctx context.Context, days int) ([]model.TrendPoint, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	if days > MaxTrendDays {
		days = MaxTrendDays
	}

	today := calendarDate(s.now(), s.loc)
	first := today.AddDate(0, 0, -(days - 1))
	// satu hari ekstra sebagai pembanding titik pertama
	sums, err := s.repo.GetDailySums(ctx, repository.DateSpan{Start: first.AddDate(0, 0, -1), End: today})
	if err != nil {
		return nil, fmt.Errorf("load daily sums: %w", err)
	}
	byDay := make(map[string]repository.DailySums, len(sums))
	for _, d := range sums {
		byDay[d.Date.Format(time.DateOnly)] = d
	}

	type dayValues struct{ sales, purchase, expense, profit decimal.Decimal }
	valuesOf := func(day time.Time) dayValues {
		d := byDay[day.Format(time.DateOnly)]
		return dayValues{
			sales:    d.Sales,
			purchase: d.Purchase,
			expense:  d.Expense,
			profit:   d.Sales.Sub(d.Purchase).Sub(d.Expense),
		}
	}

	points := make([]model.TrendPoint, 0, days)
	prev := valuesOf(first.AddDate(0, 0, -1))
	var window []dayValues
	for day := first; !day.After(today); day = day.AddDate(0, 0, 1) {
		cur := valuesOf(day)
		window = append(window, cur)
		if len(window) > 7 {
			window = window[1:]
		}
		salesAvg, profitAvg := decimal.Zero, decimal.Zero
		for _, w := range window {
			salesAvg = salesAvg.Add(w.sales)
			profitAvg = profitAvg.Add(w.profit)
		}
		n := decimal.NewFromInt(int64(len(window)))

		points = append(points, model.TrendPoint{
			Date:          day.Format(time.DateOnly),
			Sales:         cur.sales.InexactFloat64(),
			Purchase:      cur.purchase.InexactFloat64(),
			Expense:       cur.expense.InexactFloat64(),
			Profit:        cur.profit.InexactFloat64(),
			SalesTrend:    dayOverDay(cur.sales, prev.sales),
			PurchaseTrend: dayOverDay(cur.purchase, prev.purchase),
			ExpenseTrend:  dayOverDay(cur.expense, prev.expense),
			ProfitTrend:   dayOverDay(cur.profit, prev.profit),
			Sales7DayAvg:  salesAvg.Div(n).Round(2).InexactFloat64(),
			Profit7DayAvg: profitAvg.Div(n).Round(2).InexactFloat64(),
		})
		prev = cur
	}
	return points, nil
}

// dayOverDay is the signed % change, 0 when there is nothing to compare against.
func dayOverDay(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	return current.Sub(previous).Div(previous.Abs()).Mul(hundred).Round(2).InexactFloat64()
}

func (s *dashboardService) GetStats(ctx context.Context) (*model.DashboardStats, error) {
	return s.repo.GetStats(ctx)
}

func (s *dashboardService) DebugPurchaseCalculation(ctx context.Context, date string) ([]model.PurchaseDebugRow, error) {
	day := calendarDate(s.now(), s.loc)
	if strings.TrimSpace(date) != "" {
		parsed, err := parseTransactionDate(date)
		if err != nil {
			return nil, err
		}
		day = parsed
	}

	rows, err := s.repo.GetPurchaseRows(ctx, day)
	if err != nil {
		return nil, err
	}
	out := make([]model.PurchaseDebugRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.PurchaseDebugRow{
			TransactionID:    r.TransactionID.String(),
			Type:             r.Type,
			TransactionDate:  r.TransactionDate.Format(time.DateOnly),
			ItemSubtotal:     r.ItemSubtotal.Decimal.InexactFloat64(),
			TransactionTotal: r.TransactionTotal.InexactFloat64(),
		})
	}
	return out, nil
}

func (s *dashboardService) DebugMonthlyDates(ctx context.Context) (*model.MonthlyDatesDebug, error) {
	monthly := MonthlyRanges(s.now(), s.loc)
	sums, err := s.repo.GetPeriodSums(ctx, monthly.Current, monthly.Previous)
	if err != nil {
		return nil, err
	}
	return &model.MonthlyDatesDebug{
		Current:  model.DateRange{Start: monthly.Current.Start.Format(time.DateOnly), End: monthly.Current.End.Format(time.DateOnly)},
		Previous: model.DateRange{Start: monthly.Previous.Start.Format(time.DateOnly), End: monthly.Previous.End.Format(time.DateOnly)},
		Data: map[string]float64{
			"current_sales":     sums.CurrentSales.InexactFloat64(),
			"current_purchase":  sums.CurrentPurchase.InexactFloat64(),
			"current_expense":   sums.CurrentExpense.InexactFloat64(),
			"previous_sales":    sums.PreviousSales.InexactFloat64(),
			"previous_purchase": sums.PreviousPurchase.InexactFloat64(),
			"previous_expense":  sums.PreviousExpense.InexactFloat64(),
		},
	}, nil
}
