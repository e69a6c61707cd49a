package labcases

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	"github.com/angelmondragon/dentio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages persistence for lab cases.
type Repository interface {
	Create(ctx context.Context, labCase *models.LabCase) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.LabCase, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.LabCaseStatus, receivedDate *time.Time) error
	List(ctx context.Context) ([]models.LabCase, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.LabCase, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]models.LabCase, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a lab case repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, labCase *models.LabCase) error {
	return r.db.WithContext(ctx).Create(labCase).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.LabCase, error) {
	var labCase models.LabCase
	err := r.db.WithContext(ctx).First(&labCase, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lab case not found")
		}
		return nil, err
	}
	return &labCase, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.LabCaseStatus, receivedDate *time.Time) error {
	updates := map[string]any{"status": status}
	if receivedDate != nil {
		updates["received_date"] = *receivedDate
	}
	res := r.db.WithContext(ctx).
		Model(&models.LabCase{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "lab case not found")
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]models.LabCase, error) {
	var out []models.LabCase
	if err := r.db.WithContext(ctx).
		Order("due_date ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.LabCase, error) {
	var out []models.LabCase
	if err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("due_date ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListOverdue returns sent cases whose due date has passed without the work
// coming back from the lab.
func (r *repository) ListOverdue(ctx context.Context, asOf time.Time) ([]models.LabCase, error) {
	var out []models.LabCase
	if err := r.db.WithContext(ctx).
		Where("status = ?", enums.LabCaseStatusSent).
		Where("due_date < ?", asOf).
		Order("due_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
