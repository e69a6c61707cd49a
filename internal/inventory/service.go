package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/dentio-backend/pkg/db"
	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service exposes the inventory management surface consumed by the API. The
// allocation path does not go through here; it runs inside the treatment
// commit transaction (see Allocate).
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error)
	ListItems(ctx context.Context) ([]ItemSummary, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error

	ReceiveStock(ctx context.Context, input ReceiveStockInput) (*models.InventoryBatch, error)
	ListBatches(ctx context.Context, itemID uuid.UUID) ([]models.InventoryBatch, error)
	AdjustBatch(ctx context.Context, batchID uuid.UUID, newQuantity int) (*models.InventoryBatch, error)

	CreateSupplier(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
}

type service struct {
	repo Repository
}

// NewService wires an inventory service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

// CreateItemInput captures a new consumable material.
type CreateItemInput struct {
	Name           string
	Category       string
	SKU            *string
	UnitPrice      decimal.Decimal
	ThresholdLimit int
	SupplierID     *uuid.UUID
}

// ReceiveStockInput records a delivered lot.
type ReceiveStockInput struct {
	ItemID         uuid.UUID
	LotNumber      string
	Quantity       int
	ExpirationDate time.Time
}

// CreateSupplierInput captures a new supplier entry.
type CreateSupplierInput struct {
	Name        string
	ContactName *string
	Phone       *string
	Email       *string
}

// ItemSummary is an item plus its computed stock position.
type ItemSummary struct {
	Item        models.InventoryItem `json:"item"`
	TotalOnHand int                  `json:"total_on_hand"`
	LowStock    bool                 `json:"low_stock"`
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item category is required")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	if input.ThresholdLimit < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "threshold must not be negative")
	}

	item := &models.InventoryItem{
		ID:             uuid.New(),
		Name:           name,
		Category:       strings.TrimSpace(input.Category),
		SKU:            input.SKU,
		UnitPrice:      input.UnitPrice,
		ThresholdLimit: input.ThresholdLimit,
		SupplierID:     input.SupplierID,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist inventory item")
	}
	return item, nil
}

func (s *service) ListItems(ctx context.Context) ([]ItemSummary, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory items")
	}
	summaries := make([]ItemSummary, len(items))
	for i, item := range items {
		total := item.TotalOnHand()
		summaries[i] = ItemSummary{
			Item:        item,
			TotalOnHand: total,
			LowStock:    total <= item.ThresholdLimit,
		}
	}
	return summaries, nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	return s.repo.DeleteItem(ctx, id)
}

func (s *service) ReceiveStock(ctx context.Context, input ReceiveStockInput) (*models.InventoryBatch, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if strings.TrimSpace(input.LotNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lot number is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.ExpirationDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiration date is required")
	}

	if _, err := s.repo.FindItemByID(ctx, input.ItemID); err != nil {
		return nil, err
	}

	batch := &models.InventoryBatch{
		ID:             uuid.New(),
		ItemID:         input.ItemID,
		LotNumber:      strings.TrimSpace(input.LotNumber),
		QuantityOnHand: input.Quantity,
		ExpirationDate: input.ExpirationDate,
		ReceivedAt:     time.Now().UTC(),
	}
	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		if db.IsUniqueViolation(err, "inventory_batches_item_lot_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "lot already received for this item").
				WithDetails(map[string]any{"lot_number": batch.LotNumber})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist batch")
	}
	return batch, nil
}

func (s *service) ListBatches(ctx context.Context, itemID uuid.UUID) ([]models.InventoryBatch, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	return s.repo.ListBatchesByItem(ctx, itemID)
}

func (s *service) AdjustBatch(ctx context.Context, batchID uuid.UUID, newQuantity int) (*models.InventoryBatch, error) {
	if batchID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "batch id required")
	}
	if newQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	return s.repo.SetBatchQuantity(ctx, batchID, newQuantity)
}

func (s *service) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name is required")
	}
	supplier := &models.Supplier{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		ContactName: input.ContactName,
		Phone:       input.Phone,
		Email:       input.Email,
	}
	if err := s.repo.CreateSupplier(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist supplier")
	}
	return supplier, nil
}

func (s *service) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}
