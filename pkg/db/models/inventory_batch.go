package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryBatch is a dated lot of an item's stock. QuantityOnHand never goes
// negative; a depleted batch stays behind as history.
type InventoryBatch struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID         uuid.UUID `gorm:"column:item_id;type:uuid;not null;index;uniqueIndex:inventory_batches_item_lot_key"`
	LotNumber      string    `gorm:"column:lot_number;not null;uniqueIndex:inventory_batches_item_lot_key"`
	QuantityOnHand int       `gorm:"column:quantity_on_hand;not null;default:0"`
	ExpirationDate time.Time `gorm:"column:expiration_date;type:date;not null"`
	ReceivedAt     time.Time `gorm:"column:received_at;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
