package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/Licencias-api/internal/application/catalog"
	"github.com/jhoicas/Licencias-api/internal/application/licensing"
	"github.com/jhoicas/Licencias-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Licencias-api/internal/infrastructure/rediscache"
	httpRouter "github.com/jhoicas/Licencias-api/internal/interfaces/http"
	"github.com/jhoicas/Licencias-api/pkg/config"
	"github.com/jhoicas/Licencias-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Service: cfg.App.Name,
		Level:   cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	brandRepo := postgres.NewBrandRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	licenseKeyRepo := postgres.NewLicenseKeyRepository(pool)
	licenseRepo := postgres.NewLicenseRepository(pool)
	activationRepo := postgres.NewActivationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache de estado opcional: sin REDIS_URL la consulta va siempre a la DB.
	var statusCache licensing.StatusCache
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("REDIS_URL inválido")
		}
		ttl := time.Duration(cfg.Redis.StatusCacheTTLSeconds) * time.Second
		statusCache = rediscache.NewStatusCache(redis.NewClient(opts), ttl)
		log.Info().Dur("ttl", ttl).Msg("cache de estado habilitada")
	}

	directoryUC := catalog.NewDirectoryUseCase(brandRepo, productRepo)
	createBrandUC := catalog.NewCreateBrandUseCase(brandRepo)
	createProductUC := catalog.NewCreateProductUseCase(productRepo)
	activationUC := licensing.NewActivationUseCase(txRunner, licenseKeyRepo, licenseRepo, activationRepo, statusCache)
	provisionUC := licensing.NewProvisionUseCase(txRunner)
	lifecycleUC := licensing.NewLifecycleUseCase(txRunner, licenseRepo, licenseKeyRepo)
	listByEmailUC := licensing.NewListLicensesByEmailUseCase(licenseKeyRepo, licenseRepo, brandRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Licencias API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/ready", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Directory:       directoryUC,
		CreateBrandUC:   createBrandUC,
		CreateProductUC: createProductUC,
		ActivationUC:    activationUC,
		ProvisionUC:     provisionUC,
		LifecycleUC:     lifecycleUC,
		ListByEmailUC:   listByEmailUC,
		Log:             log,
		AppSecret:       cfg.App.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
