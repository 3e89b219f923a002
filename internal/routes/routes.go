package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/account_ledger/internal/config"
	"github.com/congo-pay/account_ledger/internal/ledger"
	"github.com/congo-pay/account_ledger/internal/middleware"
	"github.com/congo-pay/account_ledger/internal/notification"
)

// Deps aggregates shared dependencies required to wire routes. DB, Cache and
// Notifier are optional.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Notifier notification.Notifier
	Logger   *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// main only skips the database in development; enforce it here as well.
	if !d.Cfg.IsDevelopment() && d.DB == nil {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDevelopment() {
		// Plain text access line: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.AccessLog(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	store, storeName, err := newStore(d)
	if err != nil {
		return err
	}
	RegisterHealthRoutes(app, d, storeName)

	notifier := d.Notifier
	if notifier == nil {
		notifier = notification.NewLoggerNotifier(d.Logger)
	}
	ledgerSvc := ledger.NewService(store, notifier, d.Logger)
	RegisterAccountRoutes(app, ledger.NewHandler(ledgerSvc))

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals(middleware.RequestIDHeader).(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	d.Logger.Info("routes ready", slog.String("store", storeName), slog.Bool("idempotency", d.Cache != nil))
	return nil
}

func newStore(d Deps) (ledger.Store, string, error) {
	if d.DB == nil {
		return ledger.NewInMemory(), "memory", nil
	}
	store := ledger.NewPostgresStore(d.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, "", err
	}
	return store, "postgres", nil
}
