package inventory

import (
	"context"

	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BatchDeduction records how much was taken from a single lot.
type BatchDeduction struct {
	BatchID   uuid.UUID `json:"batch_id"`
	LotNumber string    `json:"lot_number"`
	Amount    int       `json:"amount"`
}

// AllocationResult is the full outcome of one FEFO allocation. Shortfall is
// the requested quantity that no batch could cover; it is a signal for the
// caller, not an error.
type AllocationResult struct {
	ItemID     uuid.UUID        `json:"item_id"`
	Requested  int              `json:"requested"`
	Deductions []BatchDeduction `json:"deductions"`
	Shortfall  int              `json:"shortfall"`
}

// Allocated sums the amounts actually deducted across batches.
func (r AllocationResult) Allocated() int {
	total := 0
	for _, d := range r.Deductions {
		total += d.Amount
	}
	return total
}

// Allocate deducts quantity units of an item from its batches, consuming the
// soonest-to-expire lots first. Ordering ties on expiration date break on
// received time and then id, so the depleted lot is deterministic. The walk
// runs on the supplied transaction; batch rows are locked on Postgres so two
// concurrent commits cannot both drain the same lot.
func Allocate(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, quantity int) (*AllocationResult, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "allocation requires a transaction")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	query := tx.WithContext(ctx).
		Where("item_id = ? AND quantity_on_hand > 0", itemID).
		Order("expiration_date ASC, received_at ASC, id ASC")
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var batches []models.InventoryBatch
	if err := query.Find(&batches).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch batches")
	}

	result := &AllocationResult{ItemID: itemID, Requested: quantity}
	remaining := quantity

	for _, batch := range batches {
		if remaining == 0 {
			break
		}
		take := batch.QuantityOnHand
		if take > remaining {
			take = remaining
		}

		// The guard on quantity_on_hand keeps the batch from going negative
		// even if another writer slipped past the row lock.
		update := tx.WithContext(ctx).
			Model(&models.InventoryBatch{}).
			Where("id = ? AND quantity_on_hand >= ?", batch.ID, take).
			UpdateColumn("quantity_on_hand", gorm.Expr("quantity_on_hand - ?", take))
		if update.Error != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, update.Error, "deduct batch")
		}
		if update.RowsAffected == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "batch modified concurrently")
		}

		result.Deductions = append(result.Deductions, BatchDeduction{
			BatchID:   batch.ID,
			LotNumber: batch.LotNumber,
			Amount:    take,
		})
		remaining -= take
	}

	result.Shortfall = remaining
	return result, nil
}
