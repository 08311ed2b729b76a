package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epeers/frontier/config"
	_ "github.com/epeers/frontier/docs"
	"github.com/epeers/frontier/internal/database"
	"github.com/epeers/frontier/internal/handlers"
	"github.com/epeers/frontier/internal/middleware"
	"github.com/epeers/frontier/internal/repository"
	"github.com/epeers/frontier/internal/services"
	"github.com/epeers/frontier/internal/solver"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title			Frontier API
// @version		1.0
// @description	Minimum-variance and tangency portfolio analysis.
// @BasePath		/
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	ctx := context.Background()

	// The dataset store is optional; built-in datasets are always served.
	var store services.DatasetStore
	if cfg.PGURL != "" {
		db, err := database.New(ctx, cfg.PGURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to create schema: %v", err)
		}
		store = repository.NewDatasetRepository(db.Pool)
		log.Info("Postgres dataset store enabled")
	} else {
		log.Info("PG_URL not set, serving built-in datasets only")
	}

	// Initialize services
	frontierSvc := services.NewFrontierService(store, solver.NewLagrangian(cfg.MaxIterations), services.FrontierConfig{
		VarianceTolerance: cfg.VarianceTolerance,
		SharpeTolerance:   cfg.SharpeTolerance,
		Trace:             cfg.Trace,
		BatchConcurrency:  cfg.BatchConcurrency,
	})

	// Initialize handlers
	frontierHandler := handlers.NewFrontierHandler(frontierSvc)
	datasetHandler := handlers.NewDatasetHandler(frontierSvc)

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.Trace())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Frontier routes
	router.POST("/frontier", frontierHandler.Analyze)
	router.POST("/frontier/batch", frontierHandler.Batch)
	router.POST("/frontier/scan", frontierHandler.Scan)

	// Dataset routes
	router.GET("/datasets", datasetHandler.List)
	router.GET("/datasets/:name", datasetHandler.Get)
	router.PUT("/datasets/:name", datasetHandler.Put)
	router.GET("/datasets/:name/frontier", datasetHandler.Analyze)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
		return
	}

	log.Info("Server exited")
}
