package licensing_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/application/licensing"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
)

func activateReq(key, product, instance string) dto.ActivateRequest {
	return dto.ActivateRequest{
		LicenseKey:         key,
		ProductCode:        product,
		InstanceType:       entity.InstanceTypeHost,
		InstanceIdentifier: instance,
	}
}

func deactivateReq(key, product, instance string) dto.DeactivateRequest {
	return dto.DeactivateRequest{
		LicenseKey:         key,
		ProductCode:        product,
		InstanceType:       entity.InstanceTypeHost,
		InstanceIdentifier: instance,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Pipeline de razones: cada guarda corta el flujo con su razón, en orden.
// ──────────────────────────────────────────────────────────────────────────────

func TestActivate_PipelineDeRazones(t *testing.T) {
	h := newHarness()
	brand := h.seedBrand("acme", entity.RoleStandard)
	otherBrand := h.seedBrand("rival", entity.RoleStandard)
	crm := h.seedProduct(brand.ID, "crm")
	h.seedProduct(brand.ID, "erp")
	key := h.seedKey(brand.ID, "cliente@acme.test")
	otherKey := h.seedKey(otherBrand.ID, "cliente@rival.test")
	h.seedLicense(key.ID, crm.ID, entity.StatusValid, time.Now().Add(24*time.Hour), seats(3))

	uc := h.activationUC(nil)
	ctx := context.Background()

	t.Run("token de producto no coincide con el product_code pedido", func(t *testing.T) {
		out, err := uc.Activate(ctx, crm, activateReq(key.Key, "erp", "host-1"))
		require.NoError(t, err)
		assert.False(t, out.Valid)
		assert.Equal(t, licensing.ReasonProductTokenMismatch, out.Reason)
		assert.True(t, licensing.IsBoundaryViolation(out.Reason))
	})

	t.Run("key inexistente", func(t *testing.T) {
		out, err := uc.Activate(ctx, crm, activateReq("NO-EXISTE", "crm", "host-1"))
		require.NoError(t, err)
		assert.False(t, out.Valid)
		assert.Equal(t, licensing.ReasonLicenseKeyNotFound, out.Reason)
		assert.False(t, licensing.IsBoundaryViolation(out.Reason))
	})

	t.Run("key de otra marca", func(t *testing.T) {
		out, err := uc.Activate(ctx, crm, activateReq(otherKey.Key, "crm", "host-1"))
		require.NoError(t, err)
		assert.False(t, out.Valid)
		assert.Equal(t, licensing.ReasonLicenseKeyNotForBrand, out.Reason)
		assert.True(t, licensing.IsBoundaryViolation(out.Reason))
	})

	t.Run("sin entitlement para el producto", func(t *testing.T) {
		// El producto erp existe en la marca, pero la key no tiene licencia suya.
		erp, err := h.productRepo.GetByBrandAndCode(brand.ID, "erp")
		require.NoError(t, err)
		out, err := uc.Activate(ctx, erp, activateReq(key.Key, "erp", "host-1"))
		require.NoError(t, err)
		assert.False(t, out.Valid)
		assert.Equal(t, licensing.ReasonNoEntitlementForProduct, out.Reason)
	})
}

func TestActivate_LicenciaNoVigente(t *testing.T) {
	h := newHarness()
	brand := h.seedBrand("acme", entity.RoleStandard)
	crm := h.seedProduct(brand.ID, "crm")
	uc := h.activationUC(nil)
	ctx := context.Background()

	t.Run("suspendida", func(t *testing.T) {
		key := h.seedKey(brand.ID, "suspendido@acme.test")
		h.seedLicense(key.ID, crm.ID, entity.StatusSuspended, time.Now().Add(24*time.Hour), nil)
		out, err := uc.Activate(ctx, crm, activateReq(key.Key, "crm", "host-1"))
		require.NoError(t, err)
		assert.False(t, out.Valid)
		assert.Equal(t, licensing.ReasonLicenseNotValid, out.Reason)
	})

	t.Run("expirada aunque status sea valid", func(t *testing.T) {
		key := h.seedKey(brand.ID, "expirado@acme.test")
		h.seedLicense(key.ID, crm.ID, entity.StatusValid, time.Now().Add(-time.Minute), nil)
		out, err := uc.Activate(ctx, crm, activateReq(key.Key, "crm", "host-1"))
		require.NoError(t, err)
		assert.False(t, out.Valid)
		assert.Equal(t, licensing.ReasonLicenseNotValid, out.Reason)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Admisión de asientos
// ──────────────────────────────────────────────────────────────────────────────

func TestActivate_ConcedeAsientoConSnapshot(t *testing.T) {
	h := newHarness()
	brand := h.seedBrand("acme", entity.RoleStandard)
	crm := h.seedProduct(brand.ID, "crm")
	key := h.seedKey(brand.ID, "cliente@acme.test")
	expires := time.Now().Add(30 * 24 * time.Hour)
	h.seedLicense(key.ID, crm.ID, entity.StatusValid, expires, seats(2))

	uc := h.activationUC(nil)
	out, err := uc.Activate(context.Background(), crm, activateReq(key.Key, "crm", "host-1"))
	require.NoError(t, err)

	assert.True(t, out.Valid)
	assert.Empty(t, out.Reason)
	assert.Equal(t, key.Key, out.LicenseKey)
	assert.Equal(t, "crm", out.ProductCode)
	require.NotNil(t, out.ExpiresAt)
	assert.True(t, out.ExpiresAt.Equal(expires))

	require.Len(t, out.Entitlements, 1)
	e := out.Entitlements[0]
	assert.Equal(t, "crm", e.ProductCode)
	assert.Equal(t, entity.StatusValid, e.Status)
	assert.Equal(t, 1, e.ActiveSeats)
	require.NotNil(t, e.RemainingSeats)
	assert.Equal(t, 1, *e.RemainingSeats)
	assert.Nil(t, e.IsValid, "is_valid solo aparece en la consulta de estado")
}

func TestActivate_ReactivacionIdempotente(t *testing.T) {
	h := newHarness()
	brand := h.seedBrand("acme", entity.RoleStandard)
	crm := h.seedProduct(brand.ID, "crm")
	key := h.seedKey(brand.ID, "cliente@acme.test")
	lic := h.seedLicense(key.ID, crm.ID, entity.StatusValid, time.Now().Add(24*time.Hour), seats(1))

	uc := h.activationUC(nil)
	ctx := context.Background()

	// Con el cupo lleno por la propia instancia, reintentar sigue siendo
	// válido y no consume un segundo asiento.
	for i := 0; i < 3; i++ {
		out, err := uc.Activate(ctx, crm, activateReq(key.Key, "crm", "host-1"))
		require.NoError(t, err)
		assert.True(t, out.Valid, "intento %d", i+1)
	}
	active, err := h.activationRepo.CountActive(lic.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, active)
}

func TestActivate_CupoLleno(t *testing.T) {
	h := newHarness()
	brand := h.seedBrand("acme", entity.RoleStandard)
	crm := h.seedProduct(brand.ID, "crm")
	key := h.seedKey(brand.ID, "cliente@acme.test")
	h.seedLicense(key.ID, crm.ID, entity.StatusValid, time.Now().Add(24*time.Hour), seats(1))

	uc := h.activationUC(nil)
	ctx := context.Background()

	out, err := uc.Activate(ctx, crm, activateReq(key.Key, "crm", "host-1"))
	require.NoError(t, err)
	require.True(t, out.Valid)

	out, err = uc.Activate(ctx, crm, activateReq(key.Key, "crm", "host-2"))
	require.NoError(t, err)
	assert.False(t, out.Valid)
	assert.Equal(t, licensing.ReasonMaxSeatsReached, out.Reason)
	require.NotNil(t, out.MaxSeats)
	assert.Equal(t, 1, *out.MaxSeats)
}

func TestActivate_AsientosIlimitados(t *testing.T) {
	h := newHarness()
	brand := h.seedBrand("acme", entity.RoleStandard)
	crm := h.seedProduct(brand.ID, "crm")
	key := h.seedKey(brand.ID, "cliente@acme.test")
	lic := h.seedLicense(key.ID, crm.ID, entity.StatusValid, time.Now().Add(24*time.Hour), nil)

	uc := h.activationUC(nil)
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		out, err := uc.Activate(ctx, crm, activateReq(key.Key, "crm", fmt.Sprintf("host-%d", i)))
		require.NoError(t, err)
		assert.True(t, out.Valid)
	}
	active, err := h.activationRepo.CountActive(lic.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, active)

	out, err := uc.Activate(ctx, crm, activateReq(key.Key, "crm", "host-0"))
	require.NoError(t, err)
	require.Len(t, out.Entitlements, 1)
	assert.Nil(t, out.Entitlements[0].RemainingSeats, "ilimitado: remaining_seats null")
}

// El cupo nunca se sobrepasa bajo carrera: N asientos, N+k instancias
// compitiendo, exactamente N admitidas.
func TestActivate_ConcurrenciaNoSobrepasaElCupo(t *testing.T) {
	h := newHarness()
	brand := h.seedBrand("acme", entity.RoleStandard)
	crm := h.seedProduct(brand.ID, "crm")
	key := h.seedKey(brand.ID, "cliente@acme.test")
	lic := h.seedLicense(key.ID, crm.ID, entity.StatusValid, time.Now().Add(24*time.Hour), seats(3))

	uc := h.activationUC(nil)
	const attempts = 10

	var wg sync.WaitGroup
	results := make([]*dto.ActivateResponse, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := uc.Activate(context.Background(), crm, activateReq(key.Key, "crm", fmt.Sprintf("host-%d", i)))
			if assert.NoError(t, err) {
				results[i] = out
			}
		}(i)
	}
	wg.Wait()

	granted, rejected := 0, 0
	for _, out := range results {
		require.NotNil(t, out)
		if out.Valid {
			granted++
		} else {
			assert.Equal(t, licensing.ReasonMaxSeatsReached, out.Reason)
			rejected++
		}
	}
	assert.Equal(t, 3, granted)
	assert.Equal(t, attempts-3, rejected)

	active, err := h.activationRepo.CountActive(lic.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, active)
}

// Los cupos son por licencia: llenar el del crm no afecta al erp bajo la
// misma key.
func TestActivate_CupoAisladoPorProducto(t *testing.T) {
	h := newHarness()
	brand := h.seedBrand("acme", entity.RoleStandard)
	crm := h.seedProduct(brand.ID, "crm")
	erp := h.seedProduct(brand.ID, "erp")
	key := h.seedKey(brand.ID, "cliente@acme.test")
	h.seedLicense(key.ID, crm.ID, entity.StatusValid, time.Now().Add(24*time.Hour), seats(1))
	h.seedLicense(key.ID, erp.ID, entity.StatusValid, time.Now().Add(24*time.Hour), seats(1))

	uc := h.activationUC(nil)
	ctx := context.Background()

	out, err := uc.Activate(ctx, crm, activateReq(key.Key, "crm", "host-1"))
	require.NoError(t, err)
	require.True(t, out.Valid)

	out, err = uc.Activate(ctx, crm, activateReq(key.Key, "crm", "host-2"))
	require.NoError(t, err)
	require.Equal(t, licensing.ReasonMaxSeatsReached, out.Reason)

	out, err = uc.Activate(ctx, erp, activateReq(key.Key, "erp", "host-2"))
	require.NoError(t, err)
	assert.True(t, out.Valid, "el cupo del crm no debe bloquear al erp")
}

// ──────────────────────────────────────────────────────────────────────────────
// Desactivación
// ──────────────────────────────────────────────────────────────────────────────

func TestDeactivate_LiberaElAsientoYEsIdempotente(t *testing.T) {
	h := newHarness()
	brand := h.seedBrand("acme", entity.RoleStandard)
	crm := h.seedProduct(brand.ID, "crm")
	key := h.seedKey(brand.ID, "cliente@acme.test")
	lic := h.seedLicense(key.ID, crm.ID, entity.StatusValid, time.Now().Add(24*time.Hour), seats(1))

	uc := h.activationUC(nil)
	ctx := context.Background()

	_, err := uc.Activate(ctx, crm, activateReq(key.Key, "crm", "host-1"))
	require.NoError(t, err)

	out, err := uc.Deactivate(ctx, crm, deactivateReq(key.Key, "crm", "host-1"))
	require.NoError(t, err)
	assert.True(t, out.Deactivated)
	assert.Empty(t, out.Reason)

	// Segunda desactivación: resultado exitoso e idempotente, no un error.
	out, err = uc.Deactivate(ctx, crm, deactivateReq(key.Key, "crm", "host-1"))
	require.NoError(t, err)
	assert.False(t, out.Deactivated)
	assert.Equal(t, licensing.ReasonNoActiveActivation, out.Reason)

	active, err := h.activationRepo.CountActive(lic.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, active)
}

func TestDeactivate_NoExigeLicenciaVigente(t *testing.T) {
	h := newHarness()
	brand := h.seedBrand("acme", entity.RoleStandard)
	crm := h.seedProduct(brand.ID, "crm")
	key := h.seedKey(brand.ID, "cliente@acme.test")
	lic := h.seedLicense(key.ID, crm.ID, entity.StatusValid, time.Now().Add(24*time.Hour), seats(1))

	uc := h.activationUC(nil)
	ctx := context.Background()
	_, err := uc.Activate(ctx, crm, activateReq(key.Key, "crm", "host-1"))
	require.NoError(t, err)

	// Suspender después de activar: la liberación sigue permitida.
	lic.Status = entity.StatusSuspended
	require.NoError(t, h.licenseRepo.Update(lic))

	out, err := uc.Deactivate(ctx, crm, deactivateReq(key.Key, "crm", "host-1"))
	require.NoError(t, err)
	assert.True(t, out.Deactivated)
}

func TestDeactivate_RespetaFronteraDeTenant(t *testing.T) {
	h := newHarness()
	brand := h.seedBrand("acme", entity.RoleStandard)
	otherBrand := h.seedBrand("rival", entity.RoleStandard)
	crm := h.seedProduct(brand.ID, "crm")
	otherKey := h.seedKey(otherBrand.ID, "cliente@rival.test")

	uc := h.activationUC(nil)
	out, err := uc.Deactivate(context.Background(), crm, deactivateReq(otherKey.Key, "crm", "host-1"))
	require.NoError(t, err)
	assert.False(t, out.Deactivated)
	assert.Equal(t, licensing.ReasonLicenseKeyNotForBrand, out.Reason)
}

// Ciclo completo con un solo asiento: activar, rechazar la segunda instancia,
// liberar y dejar entrar a la segunda.
func TestActivate_BaileDeUnAsiento(t *testing.T) {
	h := newHarness()
	brand := h.seedBrand("acme", entity.RoleStandard)
	crm := h.seedProduct(brand.ID, "crm")
	key := h.seedKey(brand.ID, "cliente@acme.test")
	h.seedLicense(key.ID, crm.ID, entity.StatusValid, time.Now().Add(24*time.Hour), seats(1))

	uc := h.activationUC(nil)
	ctx := context.Background()

	out, err := uc.Activate(ctx, crm, activateReq(key.Key, "crm", "host-1"))
	require.NoError(t, err)
	require.True(t, out.Valid)

	out, err = uc.Activate(ctx, crm, activateReq(key.Key, "crm", "host-2"))
	require.NoError(t, err)
	require.Equal(t, licensing.ReasonMaxSeatsReached, out.Reason)

	dout, err := uc.Deactivate(ctx, crm, deactivateReq(key.Key, "crm", "host-1"))
	require.NoError(t, err)
	require.True(t, dout.Deactivated)

	out, err = uc.Activate(ctx, crm, activateReq(key.Key, "crm", "host-2"))
	require.NoError(t, err)
	assert.True(t, out.Valid, "el asiento liberado debe poder reasignarse")
}
