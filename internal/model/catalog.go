package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Contact dipakai sebagai supplier (buy) atau customer (sell).
type Contact struct {
	BaseModel
	Name  string `gorm:"type:varchar(255);not null;index:idx_contacts_name_phone,priority:1" json:"name" validate:"required"`
	Phone string `gorm:"type:varchar(30);not null;index:idx_contacts_name_phone,priority:2" json:"phone" validate:"required"`
}

type Brand struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`

	Items []Item `json:"items,omitempty"`
}

type Item struct {
	BaseModel
	BrandID     uuid.UUID `gorm:"type:uuid;not null;index" json:"brand_id" validate:"uuid_required"`
	Brand       *Brand    `json:"brand,omitempty" validate:"-"`
	ModelName   string    `gorm:"type:varchar(255);not null" json:"model_name" validate:"required"`
	RamGB       int       `gorm:"not null;default:0" json:"ram_gb" validate:"gte=0"`
	StorageGB   int       `gorm:"not null;default:0" json:"storage_gb" validate:"gte=0"`
	DisplayName string    `gorm:"type:varchar(255);not null;index" json:"display_name"`
}

// BuildDisplayName derives "<brand> <model> <ram>/<storage>GB", dropping the ram/storage part when both are zero.
func (i *Item) BuildDisplayName(brandName string) string {
	parts := []string{strings.TrimSpace(brandName), strings.TrimSpace(i.ModelName)}
	if i.RamGB > 0 || i.StorageGB > 0 {
		parts = append(parts, fmt.Sprintf("%d/%dGB", i.RamGB, i.StorageGB))
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

type ExpenseType struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;index" json:"name" validate:"required"`
}

// TableName specifies the table name for GORM
func (ExpenseType) TableName() string {
	return "expense_types"
}
