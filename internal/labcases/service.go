package labcases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	"github.com/angelmondragon/dentio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/google/uuid"
)

type patientLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service tracks work sent to external dental labs.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.LabCase, error)
	Get(ctx context.Context, id uuid.UUID) (*models.LabCase, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.LabCaseStatus) (*models.LabCase, error)
	List(ctx context.Context) ([]models.LabCase, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.LabCase, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]models.LabCase, error)
}

// CreateInput carries a new outgoing lab case.
type CreateInput struct {
	PatientID        uuid.UUID
	LabName          string
	ToothNumber      *int
	InstructionNotes *string
	DueDate          time.Time
}

type service struct {
	repo     Repository
	patients patientLookup
}

// NewService builds the lab case service.
func NewService(repo Repository, patients patientLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("lab case repository required")
	}
	if patients == nil {
		return nil, fmt.Errorf("patient lookup required")
	}
	return &service{repo: repo, patients: patients}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.LabCase, error) {
	if input.PatientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient reference required")
	}
	if strings.TrimSpace(input.LabName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lab name is required")
	}
	if input.DueDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "due date is required")
	}

	exists, err := s.patients.Exists(ctx, input.PatientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up patient")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown patient reference")
	}

	labCase := &models.LabCase{
		ID:               uuid.New(),
		PatientID:        input.PatientID,
		LabName:          strings.TrimSpace(input.LabName),
		ToothNumber:      input.ToothNumber,
		InstructionNotes: input.InstructionNotes,
		DueDate:          input.DueDate,
		Status:           enums.LabCaseStatusSent,
	}
	if err := s.repo.Create(ctx, labCase); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist lab case")
	}
	return labCase, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.LabCase, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lab case id required")
	}
	return s.repo.FindByID(ctx, id)
}

// UpdateStatus moves a case through its round trip. Marking a case received
// stamps the received date automatically.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.LabCaseStatus) (*models.LabCase, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lab case id required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid lab case status").
			WithDetails(map[string]any{"status": status})
	}

	var receivedDate *time.Time
	if status == enums.LabCaseStatusReceived {
		now := time.Now().UTC()
		receivedDate = &now
	}
	if err := s.repo.UpdateStatus(ctx, id, status, receivedDate); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]models.LabCase, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.LabCase, error) {
	if patientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient id required")
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *service) ListOverdue(ctx context.Context, asOf time.Time) ([]models.LabCase, error) {
	return s.repo.ListOverdue(ctx, asOf)
}
