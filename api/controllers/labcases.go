package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/dentio-backend/api/responses"
	"github.com/angelmondragon/dentio-backend/api/validators"
	labcasesvc "github.com/angelmondragon/dentio-backend/internal/labcases"
	"github.com/angelmondragon/dentio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/angelmondragon/dentio-backend/pkg/logger"
)

// CreateLabCase records a case going out to an external lab.
func CreateLabCase(svc labcasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lab case service unavailable"))
			return
		}

		var payload createLabCaseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		labCase, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, labCase)
	}
}

// UpdateLabCaseStatus moves a case through sent, received, and delivered.
func UpdateLabCaseStatus(svc labcasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lab case service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "labCaseID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lab case id"))
			return
		}

		var payload updateLabCaseStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseLabCaseStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		labCase, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, labCase)
	}
}

// ListLabCases returns all lab cases ordered by due date.
func ListLabCases(svc labcasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lab case service unavailable"))
			return
		}

		cases, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cases)
	}
}

// ListPatientLabCases returns one patient's lab cases.
func ListPatientLabCases(svc labcasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lab case service unavailable"))
			return
		}

		patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid patient id"))
			return
		}

		cases, err := svc.ListByPatient(r.Context(), patientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cases)
	}
}

type createLabCaseRequest struct {
	PatientID        string  `json:"patient_id" validate:"required,uuid4"`
	LabName          string  `json:"lab_name" validate:"required"`
	ToothNumber      *int    `json:"tooth_number,omitempty" validate:"omitempty,min=1,max=32"`
	InstructionNotes *string `json:"instruction_notes,omitempty"`
	DueDate          string  `json:"due_date" validate:"required"`
}

type updateLabCaseStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (req createLabCaseRequest) toInput() (labcasesvc.CreateInput, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return labcasesvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid patient id")
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return labcasesvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid due date")
	}
	return labcasesvc.CreateInput{
		PatientID:        patientID,
		LabName:          req.LabName,
		ToothNumber:      req.ToothNumber,
		InstructionNotes: req.InstructionNotes,
		DueDate:          dueDate,
	}, nil
}
