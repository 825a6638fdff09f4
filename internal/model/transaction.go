package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// Transaction adalah header; items dan expenses ikut terhapus lewat FK cascade.
type Transaction struct {
	BaseModel
	Type            TransactionType `gorm:"type:varchar(10);not null;index" json:"type"`
	SupplierID      *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier        *Contact        `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	CustomerID      *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"`
	Customer        *Contact        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Total           decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total"`
	TransactionDate time.Time       `gorm:"type:date;not null;index" json:"transaction_date"`
	Notes           string          `gorm:"type:text" json:"notes"`

	Items    []TransactionItem    `gorm:"constraint:OnDelete:CASCADE" json:"transaction_products"`
	Expenses []TransactionExpense `gorm:"constraint:OnDelete:CASCADE" json:"transaction_expenses"`
}

// TransactionItem: FK ke item memakai default NO ACTION, jadi item yang masih dipakai tidak bisa dihapus.
type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	Transaction   *Transaction    `gorm:"-" json:"transaction,omitempty"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item          *Item           `json:"item,omitempty"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	Qty           int             `gorm:"not null" json:"qty"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"subtotal"`
}

type TransactionExpense struct {
	BaseModel
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	Transaction   *Transaction    `gorm:"-" json:"transaction,omitempty"`
	ExpenseTypeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"expense_type_id"`
	ExpenseType   *ExpenseType    `json:"expense_type,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"subtotal"`
}

// ContactID returns the counterparty for the transaction type.
func (t *Transaction) ContactID() *uuid.UUID {
	if t.Type == TransactionSell {
		return t.CustomerID
	}
	return t.SupplierID
}

// ===== Request DTO =====

type TransactionProductRequest struct {
	ID               *uuid.UUID      `json:"id,omitempty"`
	BrandID          *uuid.UUID      `json:"brand_id,omitempty"`
	ProductID        uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity         int             `json:"quantity" validate:"gte=1"`
	AmountPerProduct decimal.Decimal `json:"amount_per_product"`
	SubTotal         decimal.Decimal `json:"sub_total"`
}

type TransactionExpenseRequest struct {
	ID          *uuid.UUID      `json:"id,omitempty"`
	ExpenseType uuid.UUID       `json:"expense_type" validate:"uuid_required"`
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes"`
}

type CreateTransactionRequest struct {
	TransactionDate string                      `json:"transaction_date" validate:"required"`
	Type            TransactionType             `json:"type" validate:"required,oneof=buy sell"`
	SupplierID      *uuid.UUID                  `json:"supplier_id"`
	CustomerID      *uuid.UUID                  `json:"customer_id"`
	Notes           string                      `json:"notes"`
	Products        []TransactionProductRequest `json:"transaction_products" validate:"dive"`
	Expenses        []TransactionExpenseRequest `json:"transaction_expenses" validate:"dive"`
}

// UpdateTransactionRequest: nil pointer = key tidak dikirim, pointer ke slice kosong = hapus semua.
type UpdateTransactionRequest struct {
	TransactionDate *string                      `json:"transaction_date"`
	Type            *TransactionType             `json:"type" validate:"omitempty,oneof=buy sell"`
	SupplierID      *uuid.UUID                   `json:"supplier_id"`
	CustomerID      *uuid.UUID                   `json:"customer_id"`
	Notes           *string                      `json:"notes"`
	Products        *[]TransactionProductRequest `json:"transaction_products"`
	Expenses        *[]TransactionExpenseRequest `json:"transaction_expenses"`
}

// ===== Response DTO =====

type TransactionResponse struct {
	Transaction
	SubTotalProducts string `json:"sub_total_products"`
	SubTotalExpenses string `json:"sub_total_expenses"`
}

// NewTransactionResponse attaches the derived subtotals, formatted to 2 decimals.
func NewTransactionResponse(t *Transaction) *TransactionResponse {
	products := decimal.Zero
	for _, it := range t.Items {
		products = products.Add(it.Subtotal)
	}
	expenses := decimal.Zero
	for _, ex := range t.Expenses {
		expenses = expenses.Add(ex.Amount)
	}
	return &TransactionResponse{
		Transaction:      *t,
		SubTotalProducts: products.StringFixed(2),
		SubTotalExpenses: expenses.StringFixed(2),
	}
}

type TransactionFilter struct {
	Type       TransactionType
	SupplierID *uuid.UUID
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// DetailFilter untuk endpoint baca transaction-items / transaction-expenses.
type DetailFilter struct {
	TransactionID *uuid.UUID
	ItemID        *uuid.UUID
	ExpenseTypeID *uuid.UUID
	Type          TransactionType
}

type PaginatedTransactions struct {
	Data        []Transaction   `json:"data"`
	Meta        Pagination      `json:"meta"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}
