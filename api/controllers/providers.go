package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/dentio-backend/api/responses"
	"github.com/angelmondragon/dentio-backend/api/validators"
	providerrepo "github.com/angelmondragon/dentio-backend/internal/providers"
	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/angelmondragon/dentio-backend/pkg/logger"
)

// CreateProvider adds a clinician to the roster.
func CreateProvider(repo providerrepo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "provider repository unavailable"))
			return
		}

		var payload createProviderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		provider := &models.Provider{
			ID:        uuid.New(),
			FullName:  payload.FullName,
			Specialty: payload.Specialty,
			Active:    true,
		}
		if err := repo.Create(r.Context(), provider); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist provider"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, provider)
	}
}

// ListProviders returns the active roster.
func ListProviders(repo providerrepo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "provider repository unavailable"))
			return
		}

		providers, err := repo.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, providers)
	}
}

// SetProviderActive toggles whether a clinician can take bookings.
func SetProviderActive(repo providerrepo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "provider repository unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "providerID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid provider id"))
			return
		}

		var payload setProviderActiveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.SetActive(r.Context(), id, *payload.Active); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		provider, err := repo.FindByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, provider)
	}
}

type createProviderRequest struct {
	FullName  string  `json:"full_name" validate:"required"`
	Specialty *string `json:"specialty,omitempty"`
}

type setProviderActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}
