package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/dentio-backend/api/responses"
	"github.com/angelmondragon/dentio-backend/api/validators"
	treatmentsvc "github.com/angelmondragon/dentio-backend/internal/treatments"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/angelmondragon/dentio-backend/pkg/logger"
)

const bytesPerMB = 1 << 20

// CommitTreatment records a completed visit: the clinical note, material
// deductions, and captured images land in one shot. The request is multipart;
// the metadata part carries JSON and the images parts carry the files.
func CommitTreatment(svc treatmentsvc.Service, logg *logger.Logger, maxUploadMB int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "treatment service unavailable"))
			return
		}

		patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid patient id"))
			return
		}

		if maxUploadMB <= 0 {
			maxUploadMB = 25
		}
		if err := r.ParseMultipartForm(int64(maxUploadMB) * bytesPerMB); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		var payload commitTreatmentRequest
		metadata := r.FormValue("metadata")
		if metadata == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "metadata part is required"))
			return
		}
		if err := json.Unmarshal([]byte(metadata), &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid metadata").WithDetails(map[string]any{"error": err.Error()}))
			return
		}
		if err := validators.ValidateStruct(&payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCommitInput(patientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if r.MultipartForm != nil {
			for _, header := range r.MultipartForm.File["images"] {
				file, err := header.Open()
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable image upload"))
					return
				}
				defer file.Close()
				input.Images = append(input.Images, treatmentsvc.ImagePayload{
					FileName: header.Filename,
					Contents: file,
				})
			}
		}

		result, err := svc.Commit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListPatientTreatments returns a patient's visit history, newest first.
func ListPatientTreatments(svc treatmentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "treatment service unavailable"))
			return
		}

		patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid patient id"))
			return
		}

		visits, err := svc.ListByPatient(r.Context(), patientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, visits)
	}
}

type commitTreatmentRequest struct {
	Date        string                  `json:"date,omitempty"`
	ToothNumber *int                    `json:"tooth_number,omitempty" validate:"omitempty,min=1,max=32"`
	Description string                  `json:"description" validate:"required"`
	Materials   []commitMaterialRequest `json:"materials,omitempty" validate:"omitempty,dive"`
}

type commitMaterialRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid4"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

func (req commitTreatmentRequest) toCommitInput(patientID uuid.UUID) (treatmentsvc.CommitInput, error) {
	input := treatmentsvc.CommitInput{
		PatientID:   patientID,
		ToothNumber: req.ToothNumber,
		Description: strings.TrimSpace(req.Description),
	}

	if req.Date != "" {
		date, err := parseVisitDate(req.Date)
		if err != nil {
			return treatmentsvc.CommitInput{}, err
		}
		input.Date = date
	}

	for _, material := range req.Materials {
		itemID, err := uuid.Parse(material.ItemID)
		if err != nil {
			return treatmentsvc.CommitInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid material item id")
		}
		input.Materials = append(input.Materials, treatmentsvc.MaterialRequest{
			ItemID:   itemID,
			Quantity: material.Quantity,
		})
	}
	return input, nil
}

func parseVisitDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if date, err := time.Parse(layout, raw); err == nil {
			return date.UTC(), nil
		}
	}
	return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid date format").
		WithDetails(map[string]any{"date": raw})
}
