package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	schedulingsvc "github.com/angelmondragon/dentio-backend/internal/scheduling"
	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	"github.com/angelmondragon/dentio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
)

type testSchedulingService struct {
	bookFn         func(ctx context.Context, input schedulingsvc.BookInput) (*models.Appointment, error)
	rescheduleFn   func(ctx context.Context, id uuid.UUID, start, end time.Time) (*models.Appointment, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus) (*models.Appointment, error)
	availabilityFn func(ctx context.Context, providerID uuid.UUID, start, end time.Time) (bool, error)
}

func (s *testSchedulingService) Book(ctx context.Context, input schedulingsvc.BookInput) (*models.Appointment, error) {
	if s.bookFn != nil {
		return s.bookFn(ctx, input)
	}
	return &models.Appointment{ID: uuid.New()}, nil
}

func (s *testSchedulingService) Reschedule(ctx context.Context, id uuid.UUID, start, end time.Time) (*models.Appointment, error) {
	if s.rescheduleFn != nil {
		return s.rescheduleFn(ctx, id, start, end)
	}
	return &models.Appointment{ID: id}, nil
}

func (s *testSchedulingService) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus) (*models.Appointment, error) {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, id, status)
	}
	return &models.Appointment{ID: id, Status: status}, nil
}

func (s *testSchedulingService) CheckAvailability(ctx context.Context, providerID uuid.UUID, start, end time.Time) (bool, error) {
	if s.availabilityFn != nil {
		return s.availabilityFn(ctx, providerID, start, end)
	}
	return true, nil
}

func (s *testSchedulingService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Appointment, error) {
	return nil, nil
}

func (s *testSchedulingService) ListByProvider(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func TestCreateAppointmentSuccess(t *testing.T) {
	patientID := uuid.New()
	providerID := uuid.New()
	var captured schedulingsvc.BookInput
	svc := &testSchedulingService{
		bookFn: func(ctx context.Context, input schedulingsvc.BookInput) (*models.Appointment, error) {
			captured = input
			return &models.Appointment{ID: uuid.New(), PatientID: input.PatientID, ProviderID: input.ProviderID}, nil
		},
	}

	payload := `{"patient_id":"` + patientID.String() + `","provider_id":"` + providerID.String() +
		`","start_time":"2025-06-03T14:00:00Z","end_time":"2025-06-03T15:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(payload))

	resp := httptest.NewRecorder()
	CreateAppointment(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.PatientID != patientID || captured.ProviderID != providerID {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestCreateAppointmentConflictMapsTo409(t *testing.T) {
	svc := &testSchedulingService{
		bookFn: func(ctx context.Context, input schedulingsvc.BookInput) (*models.Appointment, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "provider already booked for this window")
		},
	}

	payload := `{"patient_id":"` + uuid.NewString() + `","provider_id":"` + uuid.NewString() +
		`","start_time":"2025-06-03T14:30:00Z","end_time":"2025-06-03T15:30:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(payload))

	resp := httptest.NewRecorder()
	CreateAppointment(svc, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeConflict) {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}

func TestCreateAppointmentRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(`{"bogus":true}`))
	resp := httptest.NewRecorder()
	CreateAppointment(&testSchedulingService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestUpdateAppointmentStatusInvalidValue(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/"+id.String()+"/status", strings.NewReader(`{"status":"archived"}`))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("appointmentID", id.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	UpdateAppointmentStatus(&testSchedulingService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestCheckProviderAvailability(t *testing.T) {
	providerID := uuid.New()
	svc := &testSchedulingService{
		availabilityFn: func(ctx context.Context, pid uuid.UUID, start, end time.Time) (bool, error) {
			return false, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/providers/"+providerID.String()+"/availability?start=2025-06-03T14:00:00Z&end=2025-06-03T15:00:00Z", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("providerID", providerID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	CheckProviderAvailability(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["available"] {
		t.Fatal("expected window reported busy")
	}
}
