package model

type ChangeType string

const (
	ChangeUp   ChangeType = "UP"
	ChangeDown ChangeType = "DOWN"
	ChangeStay ChangeType = "STAY"
)

type ChangeData struct {
	Type       ChangeType `json:"type"`
	Percentage float64    `json:"percentage"`
}

type MetricData struct {
	Amount  float64    `json:"amount"`
	Change  ChangeData `json:"change"`
	Verdict string     `json:"verdict"`
}

type DashboardPeriod struct {
	Sales          MetricData `json:"sales"`
	Purchase       MetricData `json:"purchase"`
	Expense        MetricData `json:"expense"`
	Profit         MetricData `json:"profit"`
	InitialBalance MetricData `json:"initial_balance"`
	FinalBalance   MetricData `json:"final_balance"`
}

type DashboardData struct {
	Daily   DashboardPeriod `json:"daily"`
	Monthly DashboardPeriod `json:"monthly"`
}

// TrendPoint untuk chart harian; *_trend = perubahan % terhadap hari sebelumnya.
type TrendPoint struct {
	Date          string  `json:"date"`
	Sales         float64 `json:"sales"`
	Purchase      float64 `json:"purchase"`
	Expense       float64 `json:"expense"`
	Profit        float64 `json:"profit"`
	SalesTrend    float64 `json:"sales_trend"`
	PurchaseTrend float64 `json:"purchase_trend"`
	ExpenseTrend  float64 `json:"expense_trend"`
	ProfitTrend   float64 `json:"profit_trend"`
	Sales7DayAvg  float64 `json:"sales_7day_avg"`
	Profit7DayAvg float64 `json:"profit_7day_avg"`
}

type DashboardStats struct {
	TotalContacts     int64 `json:"total_contacts"`
	TotalBrands       int64 `json:"total_brands"`
	TotalItems        int64 `json:"total_items"`
	TotalExpenseTypes int64 `json:"total_expense_types"`
	TotalTransactions int64 `json:"total_transactions"`
	TotalBuy          int64 `json:"total_buy"`
	TotalSell         int64 `json:"total_sell"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type MonthlyDatesDebug struct {
	Current  DateRange          `json:"current_month"`
	Previous DateRange          `json:"previous_month"`
	Data     map[string]float64 `json:"data"`
}

type PurchaseDebugRow struct {
	TransactionID    string  `json:"transaction_id"`
	Type             string  `json:"type"`
	TransactionDate  string  `json:"transaction_date"`
	ItemSubtotal     float64 `json:"item_subtotal"`
	TransactionTotal float64 `json:"transaction_total"`
}
