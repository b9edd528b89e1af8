package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Timeout bounds every readiness check.
var Timeout = 2 * time.Second

// ============================================================
// Health Check Handlers
// ============================================================

// Register mounts /health/live, /health/ready and /health/startup on r.
func Register(r fiber.Router, checks map[string]Check) {
	r.Get("/health/live", Live)
	r.Get("/health/ready", Ready(checks))
	r.Get("/health/startup", Startup)
}

// Live reports that the process is up.
func Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Startup reports that startup has finished.
func Startup(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "started"})
}

// Ready runs every check and answers 503 naming the failed ones.
func Ready(checks map[string]Check) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), Timeout)
		defer cancel()

		failed := fiber.Map{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"checks": failed,
			})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	}
}
