package licensing

import (
	"context"
	"time"

	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/domain"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
	licdomain "github.com/jhoicas/Licencias-api/internal/domain/license"
	"github.com/jhoicas/Licencias-api/internal/domain/repository"
)

// LifecycleUseCase aplica acciones de ciclo de vida (renew/suspend/resume/
// cancel) sobre una licencia, bajo la guarda de frontera de tenant.
type LifecycleUseCase struct {
	txRunner    TxRunner
	licenseRepo repository.LicenseRepository
	keyRepo     repository.LicenseKeyRepository
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(
	txRunner TxRunner,
	licenseRepo repository.LicenseRepository,
	keyRepo repository.LicenseKeyRepository,
) *LifecycleUseCase {
	return &LifecycleUseCase{txRunner: txRunner, licenseRepo: licenseRepo, keyRepo: keyRepo}
}

// Update aplica la acción. La marca dueña de la license key debe ser la marca
// autenticada; la violación es un rechazo duro (ErrForbidden), nunca se ignora
// en silencio. renew sobre cancelled devuelve el conflicto de la máquina de
// estados sin mutar expires_at.
func (uc *LifecycleUseCase) Update(ctx context.Context, brand *entity.Brand, licenseID string, in dto.LifecycleRequest) (*dto.LifecycleResponse, error) {
	license, err := uc.licenseRepo.GetByID(licenseID)
	if err != nil {
		return nil, err
	}
	if license == nil {
		return nil, domain.ErrNotFound
	}

	key, err := uc.keyRepo.GetByID(license.LicenseKeyID)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, domain.ErrNotFound
	}
	if key.BrandID != brand.ID {
		return nil, domain.ErrForbidden
	}

	action := licdomain.Action(in.Action)
	if action == licdomain.ActionRenew {
		if in.ExpiresAt == nil || !in.ExpiresAt.After(time.Now()) {
			return nil, domain.ErrInvalidInput
		}
	}

	var updated *entity.License
	err = uc.txRunner.Run(ctx, func(licRepo repository.LicenseRepository, _ repository.ActivationRepository) error {
		locked, err := licRepo.GetForUpdate(license.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		newStatus, err := licdomain.Apply(locked.Status, action)
		if err != nil {
			return err
		}
		locked.Status = newStatus
		if action == licdomain.ActionRenew {
			// renew solo mueve la fecha; nunca reanuda como efecto secundario.
			locked.ExpiresAt = *in.ExpiresAt
		}
		if err := licRepo.Update(locked); err != nil {
			return err
		}
		updated = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.LifecycleResponse{
		LicenseID:   updated.ID,
		ProductCode: license.ProductCode,
		Status:      updated.Status,
		ExpiresAt:   updated.ExpiresAt,
		MaxSeats:    updated.MaxSeats,
	}, nil
}
