package licensing

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/domain"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
	"github.com/jhoicas/Licencias-api/internal/domain/repository"
	"github.com/jhoicas/Licencias-api/pkg/apikey"
)

// ProvisionUseCase aprovisiona la license key de un cliente con sus líneas de
// licencia, de forma transaccional (todo o nada).
type ProvisionUseCase struct {
	txRunner TxRunner
}

// NewProvisionUseCase construye el caso de uso.
func NewProvisionUseCase(txRunner TxRunner) *ProvisionUseCase {
	return &ProvisionUseCase{txRunner: txRunner}
}

// Provision busca-o-crea la key por (marca, email) y hace upsert de cada línea
// por (license_key_id, product_id), dejándola en status valid. Cualquier
// product_code que no pertenezca a la marca aborta la transacción completa con
// domain.ErrProductNotForBrand: no hay aprovisionamiento parcial.
func (uc *ProvisionUseCase) Provision(ctx context.Context, brand *entity.Brand, in dto.ProvisionRequest) (*dto.ProvisionResponse, error) {
	email := strings.ToLower(in.CustomerEmail)

	var resp *dto.ProvisionResponse
	err := uc.txRunner.RunProvision(ctx, func(
		keyRepo repository.LicenseKeyRepository,
		licenseRepo repository.LicenseRepository,
		productRepo repository.ProductRepository,
	) error {
		key, err := firstOrCreateKey(keyRepo, brand.ID, email)
		if err != nil {
			return err
		}

		for _, line := range in.Licenses {
			product, err := productRepo.GetByBrandAndCode(brand.ID, line.ProductCode)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrProductNotForBrand
			}
			if err := licenseRepo.Upsert(&entity.License{
				ID:           uuid.New().String(),
				LicenseKeyID: key.ID,
				ProductID:    product.ID,
				Status:       entity.StatusValid,
				ExpiresAt:    line.ExpiresAt,
				MaxSeats:     line.MaxSeats,
			}); err != nil {
				return err
			}
		}

		// Releer dentro de la misma tx para responder el estado resultante.
		licenses, err := licenseRepo.ListByLicenseKey(key.ID)
		if err != nil {
			return err
		}
		lines := make([]dto.ProvisionedLicense, 0, len(licenses))
		for _, l := range licenses {
			lines = append(lines, dto.ProvisionedLicense{
				ProductCode: l.ProductCode,
				Status:      l.Status,
				ExpiresAt:   l.ExpiresAt,
				MaxSeats:    l.MaxSeats,
			})
		}
		resp = &dto.ProvisionResponse{
			LicenseKey:    key.Key,
			CustomerEmail: key.CustomerEmail,
			Licenses:      lines,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// firstOrCreateKey semántica first-or-create sobre el unique (brand, email):
// si dos aprovisionamientos concurrentes chocan en el insert, el perdedor
// relee la fila del ganador.
func firstOrCreateKey(keyRepo repository.LicenseKeyRepository, brandID, email string) (*entity.LicenseKey, error) {
	key, err := keyRepo.GetByBrandAndEmail(brandID, email)
	if err != nil {
		return nil, err
	}
	if key != nil {
		return key, nil
	}
	key = &entity.LicenseKey{
		ID:            uuid.New().String(),
		BrandID:       brandID,
		Key:           apikey.NewLicenseKeyValue(),
		CustomerEmail: email,
	}
	if err := keyRepo.Create(key); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return keyRepo.GetByBrandAndEmail(brandID, email)
		}
		return nil, err
	}
	return key, nil
}
