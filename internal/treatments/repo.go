package treatments

import (
	"context"

	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages persistence for treatment aggregates.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateTreatment(ctx context.Context, treatment *models.Treatment) error
	CreateMaterials(ctx context.Context, rows []models.TreatmentMaterial) error
	CreateImageRef(ctx context.Context, ref *models.TreatmentImage) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Treatment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a treatments repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateTreatment(ctx context.Context, treatment *models.Treatment) error {
	return r.db.WithContext(ctx).Create(treatment).Error
}

func (r *repository) CreateMaterials(ctx context.Context, rows []models.TreatmentMaterial) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) CreateImageRef(ctx context.Context, ref *models.TreatmentImage) error {
	return r.db.WithContext(ctx).Create(ref).Error
}

func (r *repository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Treatment, error) {
	var treatments []models.Treatment
	if err := r.db.WithContext(ctx).
		Preload("Materials").
		Preload("Images").
		Where("patient_id = ?", patientID).
		Order("date DESC, created_at DESC").
		Find(&treatments).Error; err != nil {
		return nil, err
	}
	return treatments, nil
}
