package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/es2/countrysync/internal/api"
	"github.com/es2/countrysync/internal/config"
	"github.com/es2/countrysync/internal/logger"
	"github.com/es2/countrysync/internal/repository"
	"github.com/es2/countrysync/internal/service"
)

func main() {
	// CONFIG_PATH overrides the ./configs lookup in deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	log := logger.NewFromEnv(logger.LoadFromEnv("mdm"))
	logger.SetDefaultLogger(log)
	defer logger.Sync()

	db, err := repository.InitDB(&cfg.Database, repository.MDMModels()...)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	demGateway := service.NewDEMGateway(cfg.DEM.APIBaseURL, cfg.MDM.CallbackBaseURL, cfg.Ingest.HTTPTimeout)
	log.WithField("callback_url", demGateway.CallbackURL()).Infof("DEM gateway targets %s", cfg.DEM.APIBaseURL)

	router := api.SetupMDMRouter(api.MDMServices{
		Providers: service.NewProviderService(repository.NewProviderRepository(db)),
		Countries: service.NewCountryService(repository.NewCountryRepository(db)),
		DEM:       demGateway,
	}, &cfg.Server, log)

	port := cfg.ListenPort("mdm")
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		log.Infof("Starting MDM server on port %d (mode %s)", port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server exited")
}
