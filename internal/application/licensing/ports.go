package licensing

import (
	"context"

	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/domain/repository"
)

// TxRunner ejecuta callbacks dentro de una transacción, con repos atados a la
// tx. El bloqueo de fila (GetForUpdate) solo es efectivo dentro de Run.
type TxRunner interface {
	// Run transacción para la sección crítica de asientos y ciclo de vida:
	// licencia + activaciones.
	Run(ctx context.Context, fn func(
		licenseRepo repository.LicenseRepository,
		activationRepo repository.ActivationRepository,
	) error) error

	// RunProvision transacción para el aprovisionamiento atómico de una
	// license key con sus líneas de licencia (todo o nada).
	RunProvision(ctx context.Context, fn func(
		keyRepo repository.LicenseKeyRepository,
		licenseRepo repository.LicenseRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StatusCache cache opcional (best effort) para la consulta de estado.
// Los campos servidos son informativos y toleran consistencia eventual.
type StatusCache interface {
	Get(ctx context.Context, keyValue string) (*dto.LicenseKeyStatusResponse, bool)
	Set(ctx context.Context, keyValue string, resp *dto.LicenseKeyStatusResponse)
}
