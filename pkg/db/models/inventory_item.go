package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is the master record for a consumable material. Quantities
// live on its batches; TotalOnHand is computed, never stored.
type InventoryItem struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string           `gorm:"column:name;not null"`
	Category       string           `gorm:"column:category;not null"`
	SKU            *string          `gorm:"column:sku"`
	UnitPrice      decimal.Decimal  `gorm:"column:unit_price;type:numeric(10,2);not null;default:0"`
	ThresholdLimit int              `gorm:"column:threshold_limit;not null;default:0"`
	SupplierID     *uuid.UUID       `gorm:"column:supplier_id;type:uuid"`
	Batches        []InventoryBatch `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TotalOnHand sums loaded batch quantities.
func (i InventoryItem) TotalOnHand() int {
	total := 0
	for _, batch := range i.Batches {
		total += batch.QuantityOnHand
	}
	return total
}
