package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestItem_BuildDisplayName(t *testing.T) {
	tests := []struct {
		item  Item
		brand string
		want  string
	}{
		{Item{ModelName: "iPhone 15 Pro", RamGB: 8, StorageGB: 256}, "Apple", "Apple iPhone 15 Pro 8/256GB"},
		{Item{ModelName: "  Redmi   Note 13 "}, "Xiaomi", "Xiaomi Redmi Note 13"},
		{Item{ModelName: "A05", StorageGB: 64}, "Samsung", "Samsung A05 0/64GB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.BuildDisplayName(tt.brand))
		})
	}
}

func TestPageQuery_Normalize(t *testing.T) {
	assert.Equal(t, PageQuery{Page: 1, Limit: DefaultPageLimit}, PageQuery{}.Normalize())
	assert.Equal(t, MaxPageLimit, PageQuery{Page: 1, Limit: 500}.Normalize().Limit)
	assert.Equal(t, ReportPageLimit, PageQuery{Page: 1, Limit: ReportPageLimit}.Normalize().Limit)
	assert.Equal(t, 20, PageQuery{Page: 3, Limit: 10}.Offset())
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(PageQuery{Page: 2, Limit: 10}, 21)

	assert.Equal(t, Pagination{Page: 2, Limit: 10, Total: 21, TotalPages: 3}, p)
}

func TestNewTransactionResponse_Subtotals(t *testing.T) {
	tr := &Transaction{
		Items: []TransactionItem{
			{Subtotal: decimal.NewFromInt(2000000)},
			{Subtotal: decimal.RequireFromString("150.5")},
		},
		Expenses: []TransactionExpense{{Amount: decimal.NewFromInt(50000)}},
	}

	resp := NewTransactionResponse(tr)

	assert.Equal(t, "2000150.50", resp.SubTotalProducts)
	assert.Equal(t, "50000.00", resp.SubTotalExpenses)
}

func TestTransaction_ContactID(t *testing.T) {
	supplier, customer := uuid.New(), uuid.New()
	tr := Transaction{Type: TransactionBuy, SupplierID: &supplier, CustomerID: &customer}

	assert.Equal(t, &supplier, tr.ContactID())
	tr.Type = TransactionSell
	assert.Equal(t, &customer, tr.ContactID())
}

func TestBaseModel_Audit(t *testing.T) {
	var b BaseModel
	b.Audit("")
	assert.Equal(t, DefaultActor, b.CreatedBy)
	assert.Equal(t, DefaultActor, b.UpdatedBy)

	assert.NoError(t, b.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, b.ID)
}
