package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/dentio-backend/internal/inventory"
	"github.com/angelmondragon/dentio-backend/pkg/logger"
)

type inventoryCatalog interface {
	ListItems(ctx context.Context) ([]inventory.ItemSummary, error)
}

// LowStockJobParams configures the low stock sweep.
type LowStockJobParams struct {
	Logger    *logger.Logger
	Inventory inventoryCatalog
}

// NewLowStockJob constructs the sweep that flags items at or under their
// reorder threshold so the clinic can restock before the chair runs dry.
func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory catalog required")
	}
	return &lowStockJob{
		logg:      params.Logger,
		inventory: params.Inventory,
	}, nil
}

type lowStockJob struct {
	logg      *logger.Logger
	inventory inventoryCatalog
}

func (j *lowStockJob) Name() string { return "low-stock-sweep" }

func (j *lowStockJob) Run(ctx context.Context) error {
	summaries, err := j.inventory.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("list inventory: %w", err)
	}

	count := 0
	for _, summary := range summaries {
		if !summary.LowStock {
			continue
		}
		itemCtx := j.logg.WithFields(ctx, map[string]any{
			"item_id":       summary.Item.ID,
			"item_name":     summary.Item.Name,
			"total_on_hand": summary.TotalOnHand,
			"threshold":     summary.Item.ThresholdLimit,
		})
		j.logg.Warn(itemCtx, "inventory item at or below reorder threshold")
		count++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"low_stock_items": count})
	j.logg.Info(logCtx, "low stock sweep complete")
	return nil
}
