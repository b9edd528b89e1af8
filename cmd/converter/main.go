package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"map-extractor/internal/common/config"
	"map-extractor/internal/common/health"
	"map-extractor/internal/common/logging"
	"map-extractor/internal/common/middleware"
	"map-extractor/internal/converter/handlers"
	"map-extractor/internal/converter/mapper"
	"map-extractor/internal/converter/store"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// Converter Service
// ============================================================

func main() {
	cfg, err := config.LoadFor(config.ConverterPort)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal("open db", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer db.Close()

	repo := store.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		logger.Fatal("init db", zap.Error(err))
	}

	processor := mapper.New(mapper.Options{
		CenterSuffix:      cfg.CenterSuffix,
		ImpassablePattern: cfg.ImpassablePattern,
		Strict:            cfg.StrictLayers,
		Parallel:          cfg.ParallelLayers,
	})
	mapHandler := handlers.NewMapHandler(processor, repo, store.NewFileStorage(cfg.SourceDir), logger)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Converter Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger.Named("http")))
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	health.Register(app, map[string]health.Check{"db": db.PingContext})

	// ============================================================
	// Converter Routes
	// ============================================================

	mapHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting converter service",
		zap.String("addr", addr),
		zap.String("env", cfg.Environment),
		zap.Bool("strict_layers", cfg.StrictLayers),
		zap.Bool("parallel_layers", cfg.ParallelLayers))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
