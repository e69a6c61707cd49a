package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/dentio-backend/api/controllers"
	"github.com/angelmondragon/dentio-backend/api/middleware"
	"github.com/angelmondragon/dentio-backend/internal/inventory"
	"github.com/angelmondragon/dentio-backend/internal/labcases"
	"github.com/angelmondragon/dentio-backend/internal/patients"
	"github.com/angelmondragon/dentio-backend/internal/providers"
	"github.com/angelmondragon/dentio-backend/internal/scheduling"
	"github.com/angelmondragon/dentio-backend/internal/treatments"
	"github.com/angelmondragon/dentio-backend/pkg/config"
	"github.com/angelmondragon/dentio-backend/pkg/db"
	"github.com/angelmondragon/dentio-backend/pkg/logger"
	"github.com/angelmondragon/dentio-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         db.Pinger
	Redis      *redis.Client
	Patients   patients.Service
	Providers  providers.Repository
	Inventory  inventory.Service
	Treatments treatments.Service
	Scheduling scheduling.Service
	LabCases   labcases.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/patients", func(r chi.Router) {
			r.Post("/", controllers.CreatePatient(deps.Patients, logg))
			r.Get("/", controllers.ListPatients(deps.Patients, logg))
			r.Get("/{patientID}", controllers.GetPatient(deps.Patients, logg))
			r.Put("/{patientID}", controllers.UpdatePatient(deps.Patients, logg))

			r.Post("/{patientID}/treatments", controllers.CommitTreatment(deps.Treatments, logg, cfg.Storage.MaxUploadMB))
			r.Get("/{patientID}/treatments", controllers.ListPatientTreatments(deps.Treatments, logg))
			r.Get("/{patientID}/appointments", controllers.ListPatientAppointments(deps.Scheduling, logg))
			r.Get("/{patientID}/lab-cases", controllers.ListPatientLabCases(deps.LabCases, logg))
		})

		r.Route("/providers", func(r chi.Router) {
			r.Post("/", controllers.CreateProvider(deps.Providers, logg))
			r.Get("/", controllers.ListProviders(deps.Providers, logg))
			r.Patch("/{providerID}/active", controllers.SetProviderActive(deps.Providers, logg))
			r.Get("/{providerID}/availability", controllers.CheckProviderAvailability(deps.Scheduling, logg))
			r.Get("/{providerID}/appointments", controllers.ListProviderAppointments(deps.Scheduling, logg))
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", controllers.CreateAppointment(deps.Scheduling, logg))
			r.Patch("/{appointmentID}/window", controllers.RescheduleAppointment(deps.Scheduling, logg))
			r.Patch("/{appointmentID}/status", controllers.UpdateAppointmentStatus(deps.Scheduling, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Route("/items", func(r chi.Router) {
				r.Post("/", controllers.CreateInventoryItem(deps.Inventory, logg))
				r.Get("/", controllers.ListInventoryItems(deps.Inventory, logg))
				r.Delete("/{itemID}", controllers.DeleteInventoryItem(deps.Inventory, logg))
				r.Post("/{itemID}/batches", controllers.ReceiveInventoryStock(deps.Inventory, logg))
				r.Get("/{itemID}/batches", controllers.ListInventoryBatches(deps.Inventory, logg))
			})
			r.Patch("/batches/{batchID}", controllers.AdjustInventoryBatch(deps.Inventory, logg))
			r.Route("/suppliers", func(r chi.Router) {
				r.Post("/", controllers.CreateSupplier(deps.Inventory, logg))
				r.Get("/", controllers.ListSuppliers(deps.Inventory, logg))
			})
		})

		r.Route("/lab-cases", func(r chi.Router) {
			r.Post("/", controllers.CreateLabCase(deps.LabCases, logg))
			r.Get("/", controllers.ListLabCases(deps.LabCases, logg))
			r.Patch("/{labCaseID}/status", controllers.UpdateLabCaseStatus(deps.LabCases, logg))
		})
	})

	return r
}
