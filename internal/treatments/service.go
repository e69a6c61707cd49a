package treatments

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/angelmondragon/dentio-backend/internal/imagestore"
	"github.com/angelmondragon/dentio-backend/internal/inventory"
	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/angelmondragon/dentio-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type patientLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type imageStore interface {
	Store(ctx context.Context, patientID uuid.UUID, fileName string, contents io.Reader) (imagestore.StoredImage, error)
	Remove(ctx context.Context, path string) error
}

// Service is the transactional boundary for recording a clinical visit. One
// call commits one visit; callers charting the same note against several teeth
// issue one call per tooth, attributing materials and images to exactly one.
type Service interface {
	Commit(ctx context.Context, input CommitInput) (*CommitResult, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Treatment, error)
}

// CommitInput carries everything one visit writes.
type CommitInput struct {
	PatientID   uuid.UUID
	Date        time.Time
	ToothNumber *int
	Description string
	Materials   []MaterialRequest
	Images      []ImagePayload
}

// ImagePayload is one captured image awaiting durable storage.
type ImagePayload struct {
	FileName string
	Contents io.Reader
}

// CommitResult reports the committed visit and any stock shortfall warnings.
// Warnings accompany a successful commit; they are never silently dropped.
type CommitResult struct {
	TreatmentID uuid.UUID      `json:"treatment_id"`
	Warnings    []StockWarning `json:"warnings"`
}

// ServiceParams wires the commit coordinator.
type ServiceParams struct {
	Tx          txRunner
	Repo        Repository
	Patients    patientLookup
	Images      imageStore
	Logger      *logger.Logger
	StrictStock bool
}

type service struct {
	tx          txRunner
	repo        Repository
	patients    patientLookup
	images      imageStore
	logg        *logger.Logger
	allocate    allocateFunc
	strictStock bool
}

// NewService builds the session commit service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("treatments repository required")
	}
	if params.Patients == nil {
		return nil, fmt.Errorf("patient lookup required")
	}
	if params.Images == nil {
		return nil, fmt.Errorf("image store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:          params.Tx,
		repo:        params.Repo,
		patients:    params.Patients,
		images:      params.Images,
		logg:        params.Logger,
		allocate:    inventory.Allocate,
		strictStock: params.StrictStock,
	}, nil
}

func (s *service) Commit(ctx context.Context, input CommitInput) (*CommitResult, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	exists, err := s.patients.Exists(ctx, input.PatientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up patient")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown patient reference")
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	var result *CommitResult
	var relocated []imagestore.StoredImage

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		treatment := &models.Treatment{
			PatientID:   input.PatientID,
			Date:        date,
			ToothNumber: input.ToothNumber,
			Description: strings.TrimSpace(input.Description),
		}
		if treatment.ID == uuid.Nil {
			treatment.ID = uuid.New()
		}
		if err := repo.CreateTreatment(ctx, treatment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist treatment")
		}

		warnings, err := recordMaterials(ctx, tx, repo, s.allocate, treatment.ID, input.Materials)
		if err != nil {
			return err
		}
		if s.strictStock && len(warnings) > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock for requested materials").
				WithDetails(warnings)
		}

		for _, payload := range input.Images {
			stored, err := s.images.Store(ctx, input.PatientID, payload.FileName, payload.Contents)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "relocate image")
			}
			relocated = append(relocated, stored)

			ref := &models.TreatmentImage{
				TreatmentID:    treatment.ID,
				FilePath:       stored.Path,
				ReferenceToken: stored.ReferenceToken,
			}
			if ref.ID == uuid.Nil {
				ref.ID = uuid.New()
			}
			if err := repo.CreateImageRef(ctx, ref); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist image reference")
			}
		}

		result = &CommitResult{TreatmentID: treatment.ID, Warnings: warnings}
		return nil
	})

	if txErr != nil {
		s.cleanupRelocated(ctx, relocated)
		return nil, txErr
	}

	if len(result.Warnings) > 0 {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"treatment_id": result.TreatmentID,
			"warnings":     len(result.Warnings),
		})
		s.logg.Warn(warnCtx, "treatment committed with stock shortfall")
	}

	return result, nil
}

// cleanupRelocated removes files moved to durable storage during a rolled-back
// attempt. Removal is best effort; a leftover file has no database reference
// and is harmless.
func (s *service) cleanupRelocated(ctx context.Context, relocated []imagestore.StoredImage) {
	if len(relocated) == 0 {
		return
	}
	var errs error
	for _, stored := range relocated {
		if err := s.images.Remove(ctx, stored.Path); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		s.logg.Error(ctx, "failed to clean up relocated images after rollback", errs)
	}
}

func (s *service) validate(input CommitInput) error {
	if input.PatientID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "patient reference required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	for _, req := range input.Materials {
		if req.ItemID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "material reference required")
		}
		if req.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "material quantity must be positive")
		}
	}
	for _, payload := range input.Images {
		if strings.TrimSpace(payload.FileName) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "image file name required")
		}
		if payload.Contents == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "image contents required")
		}
	}
	return nil
}

func (s *service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Treatment, error) {
	if patientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient id required")
	}
	return s.repo.ListByPatient(ctx, patientID)
}
