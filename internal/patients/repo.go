package patients

import (
	"context"
	"errors"

	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages persistence for patient records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, patient *models.Patient) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Patient, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, patient *models.Patient) error
	List(ctx context.Context) ([]models.Patient, error)
	Search(ctx context.Context, term string) ([]models.Patient, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a patient repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, patient *models.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "patient not found")
		}
		return nil, err
	}
	return &patient, nil
}

func (r *repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Update(ctx context.Context, patient *models.Patient) error {
	res := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("id = ?", patient.ID).
		Updates(map[string]any{
			"first_name": patient.FirstName,
			"last_name":  patient.LastName,
			"phone":      patient.Phone,
			"email":      patient.Email,
			"birth_date": patient.BirthDate,
			"notes":      patient.Notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "patient not found")
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]models.Patient, error) {
	var out []models.Patient
	if err := r.db.WithContext(ctx).
		Order("last_name ASC, first_name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Search(ctx context.Context, term string) ([]models.Patient, error) {
	pattern := "%" + term + "%"
	var out []models.Patient
	if err := r.db.WithContext(ctx).
		Where("first_name LIKE ? OR last_name LIKE ?", pattern, pattern).
		Order("last_name ASC, first_name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
