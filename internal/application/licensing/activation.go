package licensing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/domain"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
	"github.com/jhoicas/Licencias-api/internal/domain/repository"
)

// ActivationUseCase resuelve si una instancia puede correr y si debe consumir
// un asiento. La admisión de asientos corre dentro de una transacción con
// bloqueo de fila sobre la licencia (SELECT FOR UPDATE): contar y escribir
// deben ser atómicos frente a activaciones concurrentes de la misma licencia.
type ActivationUseCase struct {
	txRunner       TxRunner
	keyRepo        repository.LicenseKeyRepository
	licenseRepo    repository.LicenseRepository
	activationRepo repository.ActivationRepository
	cache          StatusCache // opcional; nil = sin cache
}

// NewActivationUseCase construye el caso de uso. cache puede ser nil.
func NewActivationUseCase(
	txRunner TxRunner,
	keyRepo repository.LicenseKeyRepository,
	licenseRepo repository.LicenseRepository,
	activationRepo repository.ActivationRepository,
	cache StatusCache,
) *ActivationUseCase {
	return &ActivationUseCase{
		txRunner:       txRunner,
		keyRepo:        keyRepo,
		licenseRepo:    licenseRepo,
		activationRepo: activationRepo,
		cache:          cache,
	}
}

// resolvePipeline pasos 1–4 comunes a activate/deactivate: guarda de token de
// producto, resolución de la key, frontera de marca y búsqueda del
// entitlement. Devuelve (key, license, reason); reason != "" corta el flujo.
func (uc *ActivationUseCase) resolvePipeline(caller *entity.Product, keyValue, productCode string) (*entity.LicenseKey, *entity.License, string, error) {
	// 1. El token de producto debe coincidir con el product_code pedido,
	// exista o no la key (guarda contra confusión de tokens entre productos).
	if caller != nil && caller.Code != productCode {
		return nil, nil, ReasonProductTokenMismatch, nil
	}

	// 2. Key inexistente es un resultado normal y frecuente: las keys las
	// teclea el cliente.
	key, err := uc.keyRepo.GetByValue(keyValue)
	if err != nil {
		return nil, nil, "", err
	}
	if key == nil {
		return nil, nil, ReasonLicenseKeyNotFound, nil
	}

	// 3. Frontera de tenant: la key debe pertenecer a la marca del producto.
	if caller != nil && key.BrandID != caller.BrandID {
		return nil, nil, ReasonLicenseKeyNotForBrand, nil
	}

	// 4. Entitlement del producto pedido bajo la key.
	licenses, err := uc.licenseRepo.ListByLicenseKey(key.ID)
	if err != nil {
		return nil, nil, "", err
	}
	for _, l := range licenses {
		if l.ProductCode == productCode {
			return key, l, "", nil
		}
	}
	return key, nil, ReasonNoEntitlementForProduct, nil
}

// Activate evalúa el pipeline ordenado de activación y, si procede, admite el
// asiento bajo el lock de la licencia. caller es la identidad de producto
// autenticada (nil si no aplica).
func (uc *ActivationUseCase) Activate(ctx context.Context, caller *entity.Product, in dto.ActivateRequest) (*dto.ActivateResponse, error) {
	key, license, reason, err := uc.resolvePipeline(caller, in.LicenseKey, in.ProductCode)
	if err != nil {
		return nil, err
	}
	if reason != "" {
		return &dto.ActivateResponse{Valid: false, Reason: reason}, nil
	}

	// 5. Predicado de validez: status=valid y expiración futura, evaluado ahora.
	if !license.IsValid(time.Now()) {
		return &dto.ActivateResponse{Valid: false, Reason: ReasonLicenseNotValid}, nil
	}

	// 6. Admisión de asiento + registro, en una unidad atómica con lock de
	// fila sobre la licencia. Re-leemos max_seats bajo el lock: pudo cambiar
	// entre el paso 5 y aquí.
	var seatsFull bool
	var lockedMaxSeats *int
	err = uc.txRunner.Run(ctx, func(licRepo repository.LicenseRepository, actRepo repository.ActivationRepository) error {
		locked, err := licRepo.GetForUpdate(license.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		lockedMaxSeats = locked.MaxSeats

		// Re-activación idempotente: si la instancia ya tiene una activación
		// activa no se escribe nada ni cuenta dos veces contra el cupo, y
		// reintentar tras un error siempre es seguro.
		existing, err := actRepo.GetActive(locked.ID, in.InstanceIdentifier)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}

		if locked.MaxSeats != nil {
			active, err := actRepo.CountActive(locked.ID)
			if err != nil {
				return err
			}
			if active >= *locked.MaxSeats {
				seatsFull = true // aborta sin escribir
				return nil
			}
		}

		now := time.Now()
		return actRepo.Create(&entity.Activation{
			ID:                 uuid.New().String(),
			LicenseID:          locked.ID,
			InstanceType:       in.InstanceType,
			InstanceIdentifier: in.InstanceIdentifier,
			ActivatedAt:        now,
		})
	})
	if err != nil {
		return nil, err
	}
	if seatsFull {
		return &dto.ActivateResponse{Valid: false, Reason: ReasonMaxSeatsReached, MaxSeats: lockedMaxSeats}, nil
	}

	// Snapshot completo de entitlements (informativo, fuera del lock).
	entitlements, err := uc.buildEntitlements(key.ID, false)
	if err != nil {
		return nil, err
	}
	expiresAt := license.ExpiresAt
	return &dto.ActivateResponse{
		Valid:        true,
		LicenseKey:   key.Key,
		ProductCode:  in.ProductCode,
		ExpiresAt:    &expiresAt,
		Entitlements: entitlements,
	}, nil
}

// Deactivate libera el asiento de una instancia. No exige que la licencia esté
// vigente: las activaciones de una licencia suspendida o expirada se pueden
// liberar explícitamente. Desactivar dos veces es seguro y no es un error.
func (uc *ActivationUseCase) Deactivate(ctx context.Context, caller *entity.Product, in dto.DeactivateRequest) (*dto.DeactivateResponse, error) {
	_, license, reason, err := uc.resolvePipeline(caller, in.LicenseKey, in.ProductCode)
	if err != nil {
		return nil, err
	}
	if reason != "" {
		return &dto.DeactivateResponse{Deactivated: false, Reason: reason}, nil
	}

	var deactivated bool
	err = uc.txRunner.Run(ctx, func(licRepo repository.LicenseRepository, actRepo repository.ActivationRepository) error {
		// Mismo lock que la activación: no puede correr intercalada con un
		// activate() concurrente de la misma licencia.
		locked, err := licRepo.GetForUpdate(license.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		activation, err := actRepo.GetActive(locked.ID, in.InstanceIdentifier)
		if err != nil {
			return err
		}
		if activation == nil {
			return nil // idempotente: nada que revocar
		}
		if err := actRepo.Revoke(activation.ID, time.Now()); err != nil {
			return err
		}
		deactivated = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !deactivated {
		return &dto.DeactivateResponse{Deactivated: false, Reason: ReasonNoActiveActivation}, nil
	}
	return &dto.DeactivateResponse{Deactivated: true}, nil
}

// buildEntitlements arma el snapshot de licencias bajo la key con conteos de
// asientos. withValidity agrega is_valid por entitlement (consulta de estado).
func (uc *ActivationUseCase) buildEntitlements(licenseKeyID string, withValidity bool) ([]dto.Entitlement, error) {
	licenses, err := uc.licenseRepo.ListByLicenseKey(licenseKeyID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	entitlements := make([]dto.Entitlement, 0, len(licenses))
	for _, l := range licenses {
		active, err := uc.activationRepo.CountActive(l.ID)
		if err != nil {
			return nil, err
		}
		e := dto.Entitlement{
			ProductCode:    l.ProductCode,
			Status:         l.Status,
			ExpiresAt:      l.ExpiresAt,
			MaxSeats:       l.MaxSeats,
			ActiveSeats:    active,
			RemainingSeats: l.RemainingSeats(active),
		}
		if withValidity {
			valid := l.IsValid(now)
			e.IsValid = &valid
		}
		entitlements = append(entitlements, e)
	}
	return entitlements, nil
}
