package main

import (
	"context"
	"net/http"
	"os"

	"github.com/angelmondragon/dentio-backend/api/routes"
	"github.com/angelmondragon/dentio-backend/internal/imagestore"
	"github.com/angelmondragon/dentio-backend/internal/inventory"
	"github.com/angelmondragon/dentio-backend/internal/labcases"
	"github.com/angelmondragon/dentio-backend/internal/patients"
	"github.com/angelmondragon/dentio-backend/internal/providers"
	"github.com/angelmondragon/dentio-backend/internal/scheduling"
	"github.com/angelmondragon/dentio-backend/internal/treatments"
	"github.com/angelmondragon/dentio-backend/pkg/config"
	"github.com/angelmondragon/dentio-backend/pkg/db"
	"github.com/angelmondragon/dentio-backend/pkg/logger"
	"github.com/angelmondragon/dentio-backend/pkg/migrate"
	"github.com/angelmondragon/dentio-backend/pkg/redis"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	imageStore, err := imagestore.NewDiskStore(cfg.Storage.PatientsDir)
	if err != nil {
		logg.Error(context.Background(), "failed to create image store", err)
		os.Exit(1)
	}

	patientService, err := patients.NewService(patients.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create patient service", err)
		os.Exit(1)
	}

	providerRepo := providers.NewRepository(dbClient.DB())

	inventoryService, err := inventory.NewService(inventory.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	treatmentService, err := treatments.NewService(treatments.ServiceParams{
		Tx:          dbClient,
		Repo:        treatments.NewRepository(dbClient.DB()),
		Patients:    patientService,
		Images:      imageStore,
		Logger:      logg,
		StrictStock: cfg.Inventory.StrictStock,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create treatment service", err)
		os.Exit(1)
	}

	schedulingService, err := scheduling.NewService(scheduling.ServiceParams{
		Tx:        dbClient,
		Repo:      scheduling.NewRepository(dbClient.DB()),
		Patients:  patientService,
		Providers: providerRepo,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduling service", err)
		os.Exit(1)
	}

	labCaseService, err := labcases.NewService(labcases.NewRepository(dbClient.DB()), patientService)
	if err != nil {
		logg.Error(context.Background(), "failed to create lab case service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Patients:   patientService,
			Providers:  providerRepo,
			Inventory:  inventoryService,
			Treatments: treatmentService,
			Scheduling: schedulingService,
			LabCases:   labCaseService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
