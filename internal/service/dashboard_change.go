package service

import (
	"go-bookkeeping-ws/internal/model"

	"github.com/shopspring/decimal"
)

type Metric int

const (
	MetricSales Metric = iota
	MetricPurchase
	MetricExpense
	MetricProfit
	MetricInitialBalance
	MetricFinalBalance
)

type Period int

const (
	PeriodDaily Period = iota
	PeriodMonthly
)

var hundred = decimal.NewFromInt(100)

// CalculateChange compares current against previous. A zero previous period
// reports 100% in the direction of current (or STAY when both are zero).
func CalculateChange(current, previous decimal.Decimal) model.ChangeData {
	if previous.IsZero() {
		switch current.Sign() {
		case 1:
			return model.ChangeData{Type: model.ChangeUp, Percentage: 100}
		case -1:
			return model.ChangeData{Type: model.ChangeDown, Percentage: 100}
		default:
			return model.ChangeData{Type: model.ChangeStay, Percentage: 0}
		}
	}

	pct := current.Sub(previous).Abs().Div(previous.Abs()).Mul(hundred).Round(2)
	if pct.IsZero() {
		return model.ChangeData{Type: model.ChangeStay, Percentage: 0}
	}
	changeType := model.ChangeDown
	if current.GreaterThan(previous) {
		changeType = model.ChangeUp
	}
	return model.ChangeData{Type: changeType, Percentage: pct.InexactFloat64()}
}

func (p Period) reference() string {
	switch p {
	case PeriodDaily:
		return "kemarin"
	case PeriodMonthly:
		return "bulan lalu"
	}
	return ""
}

func (m Metric) label() string {
	switch m {
	case MetricSales:
		return "Penjualan"
	case MetricPurchase:
		return "Pembelian"
	case MetricExpense:
		return "Biaya"
	case MetricProfit:
		return "Profit"
	case MetricInitialBalance:
		return "Saldo awal"
	case MetricFinalBalance:
		return "Saldo akhir"
	}
	return ""
}

func (m Metric) emptyToday() string {
	switch m {
	case MetricSales:
		return "Belum ada penjualan hari ini"
	case MetricPurchase:
		return "Belum ada pembelian hari ini"
	case MetricExpense:
		return "Belum ada biaya hari ini"
	case MetricProfit:
		return "Belum ada profit hari ini"
	case MetricInitialBalance:
		return "Saldo awal hari ini belum tercatat"
	case MetricFinalBalance:
		return "Saldo akhir hari ini belum tercatat"
	}
	return ""
}

// Verdict renders the human readable summary for one metric of one period.
func Verdict(metric Metric, period Period, change model.ChangeData, current decimal.Decimal) string {
	ref := period.reference()

	if period == PeriodDaily && current.IsZero() {
		return metric.emptyToday()
	}

	if metric == MetricProfit && current.IsNegative() {
		switch change.Type {
		case model.ChangeUp:
			return "Masih rugi, tetapi keuntungan meningkat dibandingkan " + ref
		case model.ChangeDown:
			return "Kerugian bertambah dibandingkan " + ref
		case model.ChangeStay:
			return "Masih rugi, sama seperti " + ref
		}
	}

	switch change.Type {
	case model.ChangeUp:
		return metric.label() + " meningkat dibandingkan " + ref
	case model.ChangeDown:
		return metric.label() + " menurun dibandingkan " + ref
	case model.ChangeStay:
		return metric.label() + " stabil dibandingkan " + ref
	}
	return ""
}

func buildMetric(metric Metric, period Period, current, previous decimal.Decimal) model.MetricData {
	change := CalculateChange(current, previous)
	return model.MetricData{
		Amount:  current.Round(2).InexactFloat64(),
		Change:  change,
		Verdict: Verdict(metric, period, change, current),
	}
}
