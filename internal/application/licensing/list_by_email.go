package licensing

import (
	"context"
	"strings"

	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/domain"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
	"github.com/jhoicas/Licencias-api/internal/domain/repository"
)

// ListLicensesByEmailUseCase consulta cross-brand de todas las license keys de
// un cliente. Reservado a marcas ecosystem_admin.
type ListLicensesByEmailUseCase struct {
	keyRepo     repository.LicenseKeyRepository
	licenseRepo repository.LicenseRepository
	brandRepo   repository.BrandRepository
}

// NewListLicensesByEmailUseCase construye el caso de uso.
func NewListLicensesByEmailUseCase(
	keyRepo repository.LicenseKeyRepository,
	licenseRepo repository.LicenseRepository,
	brandRepo repository.BrandRepository,
) *ListLicensesByEmailUseCase {
	return &ListLicensesByEmailUseCase{keyRepo: keyRepo, licenseRepo: licenseRepo, brandRepo: brandRepo}
}

// List devuelve las keys del email (normalizado) en todas las marcas.
func (uc *ListLicensesByEmailUseCase) List(ctx context.Context, caller *entity.Brand, email string) (*dto.ListLicensesByEmailResponse, error) {
	if !caller.IsEcosystemAdmin() {
		return nil, domain.ErrForbidden
	}
	email = strings.ToLower(email)

	keys, err := uc.keyRepo.ListByEmail(email)
	if err != nil {
		return nil, err
	}
	summaries := make([]dto.LicenseKeySummary, 0, len(keys))
	for _, key := range keys {
		brand, err := uc.brandRepo.GetByID(key.BrandID)
		if err != nil {
			return nil, err
		}
		brandName := ""
		if brand != nil {
			brandName = brand.Name
		}
		licenses, err := uc.licenseRepo.ListByLicenseKey(key.ID)
		if err != nil {
			return nil, err
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
		summaries = append(summaries, dto.LicenseKeySummary{
			Brand:      brandName,
			LicenseKey: key.Key,
			Licenses:   lines,
		})
	}
	return &dto.ListLicensesByEmailResponse{CustomerEmail: email, LicenseKeys: summaries}, nil
}
