package models

import (
	"time"

	"github.com/google/uuid"
)

// TreatmentMaterial is an immutable usage ledger row. QuantityUsed records the
// quantity requested for the visit, independent of how much stock covered it.
type TreatmentMaterial struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TreatmentID     uuid.UUID `gorm:"column:treatment_id;type:uuid;not null;index"`
	InventoryItemID uuid.UUID `gorm:"column:inventory_item_id;type:uuid;not null"`
	QuantityUsed    int       `gorm:"column:quantity_used;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
