package licensing

import (
	"context"

	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
)

// Status devuelve el estado completo de una license key: valid si algún
// entitlement está operativo, más el detalle por producto con conteo de
// asientos. Si hay cache configurada se sirve de ahí (TTL corto; los campos
// son informativos).
func (uc *ActivationUseCase) Status(ctx context.Context, caller *entity.Product, keyValue string) (*dto.LicenseKeyStatusResponse, error) {
	key, err := uc.keyRepo.GetByValue(keyValue)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return &dto.LicenseKeyStatusResponse{Valid: false, Reason: ReasonLicenseKeyNotFound}, nil
	}

	// Frontera de tenant antes de revelar cualquier dato del entitlement.
	if caller != nil && key.BrandID != caller.BrandID {
		return &dto.LicenseKeyStatusResponse{Valid: false, Reason: ReasonLicenseKeyNotForBrand}, nil
	}

	if uc.cache != nil {
		if cached, ok := uc.cache.Get(ctx, keyValue); ok {
			return cached, nil
		}
	}

	entitlements, err := uc.buildEntitlements(key.ID, true)
	if err != nil {
		return nil, err
	}
	anyValid := false
	for _, e := range entitlements {
		if e.IsValid != nil && *e.IsValid {
			anyValid = true
			break
		}
	}
	resp := &dto.LicenseKeyStatusResponse{
		Valid:         anyValid,
		LicenseKey:    key.Key,
		CustomerEmail: key.CustomerEmail,
		Entitlements:  entitlements,
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, keyValue, resp)
	}
	return resp, nil
}
