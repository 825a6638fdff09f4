package service

import (
	"go-bookkeeping-ws/internal/model"

	"github.com/shopspring/decimal"
)

// CombineTotal is the single total rule shared by create and update:
// buy = items + expenses (biaya menambah harga pokok), sell = items - expenses.
func CombineTotal(t model.TransactionType, items, expenses decimal.Decimal) decimal.Decimal {
	if t == model.TransactionBuy {
		return items.Add(expenses).Round(2)
	}
	return items.Sub(expenses).Round(2)
}

func sumProducts(products []model.TransactionProductRequest) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.SubTotal)
	}
	return total
}

func sumExpenses(expenses []model.TransactionExpenseRequest) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
