package patients

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service is the patient registry. It backs both the patient API and the
// existence checks the commit and scheduling flows rely on.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Patient, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Patient, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, input CreateInput) (*models.Patient, error)
	List(ctx context.Context) ([]models.Patient, error)
	Search(ctx context.Context, term string) ([]models.Patient, error)
}

// CreateInput carries a new or updated patient record.
type CreateInput struct {
	FirstName string
	LastName  string
	Phone     *string
	Email     *string
	BirthDate *time.Time
	Notes     *string
}

type service struct {
	repo Repository
}

// NewService builds the patient service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("patient repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Patient, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	patient := &models.Patient{
		ID:        uuid.New(),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     input.Phone,
		Email:     input.Email,
		BirthDate: input.BirthDate,
		Notes:     input.Notes,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist patient")
	}
	return patient, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient id required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	return s.repo.Exists(ctx, id)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input CreateInput) (*models.Patient, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient id required")
	}
	if err := validate(input); err != nil {
		return nil, err
	}
	patient := &models.Patient{
		ID:        id,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     input.Phone,
		Email:     input.Email,
		BirthDate: input.BirthDate,
		Notes:     input.Notes,
	}
	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]models.Patient, error) {
	return s.repo.List(ctx)
}

func (s *service) Search(ctx context.Context, term string) ([]models.Patient, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, term)
}

func validate(input CreateInput) error {
	if strings.TrimSpace(input.FirstName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "first name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "last name is required")
	}
	return nil
}
