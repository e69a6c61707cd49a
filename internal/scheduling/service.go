package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	"github.com/angelmondragon/dentio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/angelmondragon/dentio-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type patientLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type providerLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service books and moves appointments. Every write re-checks the provider's
// calendar inside the transaction; the pre-flight check a client may have done
// is advisory only.
type Service interface {
	Book(ctx context.Context, input BookInput) (*models.Appointment, error)
	Reschedule(ctx context.Context, id uuid.UUID, start, end time.Time) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus) (*models.Appointment, error)
	CheckAvailability(ctx context.Context, providerID uuid.UUID, start, end time.Time) (bool, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Appointment, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]models.Appointment, error)
}

// BookInput carries a new booking request.
type BookInput struct {
	PatientID  uuid.UUID
	ProviderID uuid.UUID
	StartTime  time.Time
	EndTime    time.Time
	Notes      *string
}

// ServiceParams wires the scheduling service.
type ServiceParams struct {
	Tx        txRunner
	Repo      Repository
	Patients  patientLookup
	Providers providerLookup
	Logger    *logger.Logger
}

type service struct {
	tx        txRunner
	repo      Repository
	patients  patientLookup
	providers providerLookup
	logg      *logger.Logger
}

// NewService builds the scheduling service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("scheduling repository required")
	}
	if params.Patients == nil {
		return nil, fmt.Errorf("patient lookup required")
	}
	if params.Providers == nil {
		return nil, fmt.Errorf("provider lookup required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:        params.Tx,
		repo:      params.Repo,
		patients:  params.Patients,
		providers: params.Providers,
		logg:      params.Logger,
	}, nil
}

func (s *service) Book(ctx context.Context, input BookInput) (*models.Appointment, error) {
	if input.PatientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient reference required")
	}
	if input.ProviderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider reference required")
	}
	if err := validateWindow(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}

	if err := s.checkPatient(ctx, input.PatientID); err != nil {
		return nil, err
	}
	if err := s.checkProvider(ctx, input.ProviderID); err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		ID:         uuid.New(),
		PatientID:  input.PatientID,
		ProviderID: input.ProviderID,
		StartTime:  input.StartTime.UTC(),
		EndTime:    input.EndTime.UTC(),
		Status:     enums.AppointmentStatusScheduled,
		Notes:      input.Notes,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.ensureFree(ctx, repo, input.ProviderID, appt.StartTime, appt.EndTime, nil); err != nil {
			return err
		}
		return repo.Create(ctx, appt)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *service) Reschedule(ctx context.Context, id uuid.UUID, start, end time.Time) (*models.Appointment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment id required")
	}
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}

	var moved *models.Appointment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		appt, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if appt.Status == enums.AppointmentStatusCancelled || appt.Status == enums.AppointmentStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "appointment can no longer be moved").
				WithDetails(map[string]any{"status": appt.Status})
		}

		if err := s.ensureFree(ctx, repo, appt.ProviderID, start.UTC(), end.UTC(), &appt.ID); err != nil {
			return err
		}
		if err := repo.UpdateWindow(ctx, id, start.UTC(), end.UTC()); err != nil {
			return err
		}
		appt.StartTime = start.UTC()
		appt.EndTime = end.UTC()
		moved = appt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus) (*models.Appointment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment id required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid appointment status").
			WithDetails(map[string]any{"status": status})
	}

	var updated *models.Appointment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		appt, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		appt.Status = status
		updated = appt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CheckAvailability answers a pre-flight query. A true result can be stale by
// the time the booking lands; Book re-checks inside the transaction.
func (s *service) CheckAvailability(ctx context.Context, providerID uuid.UUID, start, end time.Time) (bool, error) {
	if providerID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "provider reference required")
	}
	if err := validateWindow(start, end); err != nil {
		return false, err
	}

	existing, err := s.repo.ListActiveByProvider(ctx, providerID, start.UTC(), end.UTC())
	if err != nil {
		return false, err
	}
	return !HasConflict(start.UTC(), end.UTC(), providerID, existing, nil), nil
}

func (s *service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Appointment, error) {
	if patientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient id required")
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *service) ListByProvider(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]models.Appointment, error) {
	if providerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider id required")
	}
	if !from.Before(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "window start must precede end")
	}
	return s.repo.ListByProvider(ctx, providerID, from.UTC(), to.UTC())
}

func (s *service) ensureFree(ctx context.Context, repo Repository, providerID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) error {
	existing, err := repo.ListActiveByProvider(ctx, providerID, start, end)
	if err != nil {
		return err
	}
	if HasConflict(start, end, providerID, existing, excludeID) {
		return pkgerrors.New(pkgerrors.CodeConflict, "provider already booked for this window").
			WithDetails(map[string]any{
				"provider_id": providerID,
				"start_time":  start,
				"end_time":    end,
			})
	}
	return nil
}

func (s *service) checkPatient(ctx context.Context, id uuid.UUID) error {
	exists, err := s.patients.Exists(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up patient")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "unknown patient reference")
	}
	return nil
}

func (s *service) checkProvider(ctx context.Context, id uuid.UUID) error {
	exists, err := s.providers.Exists(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up provider")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "unknown provider reference")
	}
	return nil
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end times are required")
	}
	if !start.Before(end) {
		return pkgerrors.New(pkgerrors.CodeValidation, "start time must precede end time")
	}
	return nil
}
