package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/Licencias-api/internal/application/catalog"
	"github.com/jhoicas/Licencias-api/internal/application/licensing"
	"github.com/jhoicas/Licencias-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Directory       *catalog.DirectoryUseCase
	CreateBrandUC   *catalog.CreateBrandUseCase
	CreateProductUC *catalog.CreateProductUseCase
	ActivationUC    *licensing.ActivationUseCase
	ProvisionUC     *licensing.ProvisionUseCase
	LifecycleUC     *licensing.LifecycleUseCase
	ListByEmailUC   *licensing.ListLicensesByEmailUseCase
	Log             *logger.Logger
	AppSecret       string
}

// Router registra las rutas de la API: superficie de marca (X-Brand-Key) y
// superficie de producto (X-Product-Token).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Superficie de marca (aprovisionamiento y administración)
	brandGroup := api.Group("/brand", BrandAuth(deps.Directory, deps.Log, deps.AppSecret))
	brandHandler := NewBrandHandler(deps.CreateBrandUC, deps.CreateProductUC, deps.Log)
	licenseHandler := NewLicenseHandler(deps.ProvisionUC, deps.LifecycleUC, deps.ListByEmailUC, deps.Log, deps.AppSecret)
	brandGroup.Post("/brands", brandHandler.CreateBrand)
	brandGroup.Post("/products", brandHandler.CreateProduct)
	brandGroup.Post("/license-keys", licenseHandler.Provision)
	brandGroup.Get("/licenses", licenseHandler.ListByEmail)
	brandGroup.Patch("/licenses/:license_id", licenseHandler.Lifecycle)

	// Superficie de producto (clientes activando instancias)
	productGroup := api.Group("/product", ProductAuth(deps.Directory, deps.Log, deps.AppSecret))
	activationHandler := NewActivationHandler(deps.ActivationUC, deps.Log, deps.AppSecret)
	productGroup.Post("/activate", activationHandler.Activate)
	productGroup.Delete("/deactivate", activationHandler.Deactivate)
	productGroup.Get("/license-keys/:key", activationHandler.Status)

	// Prometheus
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
