package treatments

import (
	"context"
	"errors"

	"github.com/angelmondragon/dentio-backend/internal/inventory"
	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaterialRequest asks for a quantity of one material to be charged to a visit.
type MaterialRequest struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

// StockWarning reports an allocation that stock could not fully cover. The
// usage row still records the requested quantity; the warning is the logistics
// signal the operator acts on.
type StockWarning struct {
	ItemID    uuid.UUID `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Requested int       `json:"requested"`
	Allocated int       `json:"allocated"`
	Shortfall int       `json:"shortfall"`
}

type allocateFunc func(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, quantity int) (*inventory.AllocationResult, error)

// recordMaterials deducts stock for each request and writes the immutable
// usage rows for the visit. It must run on the same transaction that created
// the treatment so a later failure unwinds the deductions too. An unknown
// material is a data-integrity error and fails the whole commit.
func recordMaterials(ctx context.Context, tx *gorm.DB, repo Repository, allocate allocateFunc, treatmentID uuid.UUID, requests []MaterialRequest) ([]StockWarning, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	rows := make([]models.TreatmentMaterial, 0, len(requests))
	warnings := []StockWarning{}

	for _, req := range requests {
		if req.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "material quantity must be positive")
		}

		var item models.InventoryItem
		if err := tx.WithContext(ctx).
			Select("id", "name").
			First(&item, "id = ?", req.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown material reference").
					WithDetails(map[string]any{"item_id": req.ItemID})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up material")
		}

		allocation, err := allocate(ctx, tx, req.ItemID, req.Quantity)
		if err != nil {
			return nil, err
		}
		if allocation.Shortfall > 0 {
			warnings = append(warnings, StockWarning{
				ItemID:    req.ItemID,
				ItemName:  item.Name,
				Requested: req.Quantity,
				Allocated: allocation.Allocated(),
				Shortfall: allocation.Shortfall,
			})
		}

		rows = append(rows, models.TreatmentMaterial{
			ID:              uuid.New(),
			TreatmentID:     treatmentID,
			InventoryItemID: req.ItemID,
			QuantityUsed:    req.Quantity,
		})
	}

	if err := repo.CreateMaterials(ctx, rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist usage rows")
	}
	return warnings, nil
}
