package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/dentio-backend/api/responses"
	"github.com/angelmondragon/dentio-backend/api/validators"
	schedulingsvc "github.com/angelmondragon/dentio-backend/internal/scheduling"
	"github.com/angelmondragon/dentio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/angelmondragon/dentio-backend/pkg/logger"
)

// CreateAppointment books a provider window for a patient. A clashing window
// comes back as a conflict, not a validation failure.
func CreateAppointment(svc schedulingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scheduling service unavailable"))
			return
		}

		var payload createAppointmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toBookInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appt, err := svc.Book(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, appt)
	}
}

// RescheduleAppointment moves an existing booking to a new window.
func RescheduleAppointment(svc schedulingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scheduling service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "appointmentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid appointment id"))
			return
		}

		var payload rescheduleAppointmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appt, err := svc.Reschedule(r.Context(), id, payload.StartTime, payload.EndTime)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, appt)
	}
}

// UpdateAppointmentStatus transitions a booking's lifecycle state. Cancelling
// keeps the row; history never disappears from the calendar.
func UpdateAppointmentStatus(svc schedulingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scheduling service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "appointmentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid appointment id"))
			return
		}

		var payload updateAppointmentStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseAppointmentStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		appt, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, appt)
	}
}

// CheckProviderAvailability answers whether a window is open. The answer is
// advisory; booking re-checks inside its transaction.
func CheckProviderAvailability(svc schedulingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scheduling service unavailable"))
			return
		}

		providerID, err := uuid.Parse(chi.URLParam(r, "providerID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid provider id"))
			return
		}

		start, err := parseTimeParam(r, "start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := parseTimeParam(r, "end")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		available, err := svc.CheckAvailability(r.Context(), providerID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"available": available})
	}
}

// ListProviderAppointments returns a provider's calendar for a window.
func ListProviderAppointments(svc schedulingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scheduling service unavailable"))
			return
		}

		providerID, err := uuid.Parse(chi.URLParam(r, "providerID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid provider id"))
			return
		}

		from, err := parseTimeParam(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := parseTimeParam(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appts, err := svc.ListByProvider(r.Context(), providerID, from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, appts)
	}
}

// ListPatientAppointments returns a patient's bookings, newest first.
func ListPatientAppointments(svc schedulingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scheduling service unavailable"))
			return
		}

		patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid patient id"))
			return
		}

		appts, err := svc.ListByPatient(r.Context(), patientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, appts)
	}
}

type createAppointmentRequest struct {
	PatientID  string    `json:"patient_id" validate:"required,uuid4"`
	ProviderID string    `json:"provider_id" validate:"required,uuid4"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" validate:"required"`
	Notes      *string   `json:"notes,omitempty"`
}

type rescheduleAppointmentRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

type updateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (req createAppointmentRequest) toBookInput() (schedulingsvc.BookInput, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return schedulingsvc.BookInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid patient id")
	}
	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		return schedulingsvc.BookInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid provider id")
	}
	return schedulingsvc.BookInput{
		PatientID:  patientID,
		ProviderID: providerID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Notes:      req.Notes,
	}, nil
}

func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, name+" query parameter is required")
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name+" timestamp")
	}
	return parsed, nil
}
