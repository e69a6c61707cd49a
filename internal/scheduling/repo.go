package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	"github.com/angelmondragon/dentio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages persistence for appointments. Rows are never deleted;
// cancellation is a status transition.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, appt *models.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	UpdateWindow(ctx context.Context, id uuid.UUID, start, end time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus) error
	ListActiveByProvider(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]models.Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Appointment, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]models.Appointment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an appointment repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, appt *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).First(&appt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
		}
		return nil, err
	}
	return &appt, nil
}

func (r *repository) UpdateWindow(ctx context.Context, id uuid.UUID, start, end time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]any{"start_time": start, "end_time": end})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
	}
	return nil
}

// ListActiveByProvider returns the provider's non-cancelled appointments that
// touch the [from, to) window. Inside a Postgres transaction the rows are
// locked so two concurrent bookings cannot both pass the conflict check.
func (r *repository) ListActiveByProvider(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]models.Appointment, error) {
	query := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("status <> ?", enums.AppointmentStatusCancelled).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time ASC")
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var appts []models.Appointment
	if err := query.Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *repository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Appointment, error) {
	var appts []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("start_time DESC").
		Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *repository) ListByProvider(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]models.Appointment, error) {
	var appts []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time ASC").
		Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}
