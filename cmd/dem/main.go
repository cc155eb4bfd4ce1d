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
	"github.com/es2/countrysync/internal/storage"
)

// drainTimeout bounds how long shutdown waits for pipeline runs in progress.
const drainTimeout = 2 * time.Minute

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	log := logger.NewFromEnv(logger.LoadFromEnv("dem"))
	logger.SetDefaultLogger(log)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := repository.InitDB(&cfg.Database, repository.DEMModels()...)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	objectStorage, err := storage.NewStorage(ctx, &cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage: %v", err)
	}

	timeout := cfg.Ingest.HTTPTimeout
	ingestService := service.NewIngestionService(
		repository.NewJobRepository(db),
		service.NewProviderClient(cfg.MDM.APIBaseURL, timeout),
		service.NewSourceClient(timeout),
		service.NewCallbackClient(timeout),
		objectStorage,
		log,
		&service.IngestionConfig{
			Workers:        cfg.Ingest.Workers,
			QueueSize:      cfg.Ingest.QueueSize,
			ResumeInterval: cfg.Ingest.ResumeInterval,
		},
	)
	ingestService.Start(ctx)

	port := cfg.ListenPort("dem")
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: api.SetupDEMRouter(ingestService, &cfg.Server, log),
	}

	go func() {
		log.Infof("Starting DEM server on port %d (mode %s)", port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Stop taking jobs; queued ones stay PENDING and are resumed on the next start.
	cancel()
	drained := make(chan struct{})
	go func() {
		ingestService.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		log.Info("Ingestion workers stopped")
	case <-time.After(drainTimeout):
		log.Warn("Ingestion workers still running after drain timeout, exiting")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server exited")
}
