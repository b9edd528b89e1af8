package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"map-extractor/docs"
	"map-extractor/internal/common/config"
	"map-extractor/internal/common/health"
	"map-extractor/internal/common/logging"
	"map-extractor/internal/common/middleware"
	"map-extractor/internal/gateway/handlers"
	"map-extractor/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Map Extractor Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log.Named("http")))
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	client := &http.Client{Timeout: time.Duration(cfg.WriteTimeout) * time.Second}
	converterURL := cfg.ConverterURL

	health.Register(app, map[string]health.Check{
		"converter": upstreamCheck(client, converterURL+"/health/live"),
	})

	handlers.Docs{
		Title:       "Map Extractor API",
		Document:    docs.OpenAPI,
		DocumentURL: "/docs/openapi.yaml",
	}.Register(app, "/docs")

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Map Extractor API v1",
			"status":  "ok",
		})
	})

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	p := proxy.New(client, log.Named("proxy"))

	api.Post("/convert", p.To(converterURL+"/convert"))
	api.Get("/maps", p.To(converterURL+"/maps"))
	api.Get("/maps/:id", func(c fiber.Ctx) error {
		return p.Forward(c, fmt.Sprintf("%s/maps/%s", converterURL, c.Params("id")))
	})
	api.Get("/maps/:id/source", func(c fiber.Ctx) error {
		return p.Forward(c, fmt.Sprintf("%s/maps/%s/source", converterURL, c.Params("id")))
	})
	api.Delete("/maps/:id", func(c fiber.Ctx) error {
		return p.Forward(c, fmt.Sprintf("%s/maps/%s", converterURL, c.Params("id")))
	})

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info("starting gateway",
		zap.String("addr", addr),
		zap.String("env", cfg.Environment),
		zap.String("converter_url", converterURL))

	if err := app.Listen(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// upstreamCheck reports the gateway ready only while url answers 2xx.
func upstreamCheck(client *http.Client, url string) health.Check {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode/100 != 2 {
			return fmt.Errorf("upstream answered %s", resp.Status)
		}
		return nil
	}
}
