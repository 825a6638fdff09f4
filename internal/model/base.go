package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultActor is the audit identity used when no X-Clerk-ID header is supplied.
const DefaultActor = "system"

// BaseModel handles ID (UUID) and standard Audit Trails.
// Rows are hard-deleted so storage cascades reach transaction details.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Audit User Tracking
	CreatedBy string `gorm:"type:varchar(255);default:'system'" json:"created_by"`
	UpdatedBy string `gorm:"type:varchar(255);default:'system'" json:"updated_by"`
}

// Hook Before Create untuk generate UUID otomatis
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// Audit sets both audit columns for a freshly created row.
func (base *BaseModel) Audit(actorID string) {
	if actorID == "" {
		actorID = DefaultActor
	}
	base.CreatedBy = actorID
	base.UpdatedBy = actorID
}
