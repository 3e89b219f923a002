package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterHealthRoutes adds a liveness/readiness style endpoint reporting the
// account store and, when configured, the Redis replay cache.
func RegisterHealthRoutes(app *fiber.App, d Deps, store string) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		healthy := true
		checks := fiber.Map{"store": store}
		if d.DB != nil {
			status := "ok"
			if err := d.DB.Ping(ctx); err != nil {
				status = err.Error()
				healthy = false
			}
			checks["postgres"] = status
		}
		if d.Cache != nil {
			status := "ok"
			if err := d.Cache.Ping(ctx).Err(); err != nil {
				status = err.Error()
				healthy = false
			}
			checks["redis"] = status
		}

		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":    checks,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}
