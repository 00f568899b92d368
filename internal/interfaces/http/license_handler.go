package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/application/licensing"
	"github.com/jhoicas/Licencias-api/internal/domain"
	"github.com/jhoicas/Licencias-api/pkg/logger"
)

// LicenseHandler maneja aprovisionamiento, ciclo de vida y listado por email
// (superficie de marca).
type LicenseHandler struct {
	provisionUC *licensing.ProvisionUseCase
	lifecycleUC *licensing.LifecycleUseCase
	listUC      *licensing.ListLicensesByEmailUseCase
	log         *logger.Logger
	secret      string
}

// NewLicenseHandler construye el handler.
func NewLicenseHandler(
	provisionUC *licensing.ProvisionUseCase,
	lifecycleUC *licensing.LifecycleUseCase,
	listUC *licensing.ListLicensesByEmailUseCase,
	log *logger.Logger,
	secret string,
) *LicenseHandler {
	return &LicenseHandler{provisionUC: provisionUC, lifecycleUC: lifecycleUC, listUC: listUC, log: log, secret: secret}
}

// Provision godoc
// @Summary      Aprovisionar la license key de un cliente
// @Tags         brand
// @Accept       json
// @Produce      json
// @Param        X-Brand-Key  header  string  true  "Credencial de marca"
// @Param        body  body  dto.ProvisionRequest  true  "Email del cliente y líneas de licencia"
// @Success      201   {object}  dto.ProvisionResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/brand/license-keys [post]
func (h *LicenseHandler) Provision(c *fiber.Ctx) error {
	startedAt := time.Now()
	brand := GetBrand(c)
	var in dto.ProvisionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "petición inválida", Errors: validationErrors(err)})
	}

	h.log.Info().
		Str("event", "license.provision.requested").
		Str("request_id", RequestID(c)).
		Str("customer_email_hash", logger.HashIdentifier(h.secret, in.CustomerEmail)).
		Int("licenses_count", len(in.Licenses)).
		Msg("aprovisionamiento solicitado")

	out, err := h.provisionUC.Provision(c.UserContext(), brand, in)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotForBrand) {
			h.log.Warn().
				Str("event", "license.provision.rejected").
				Str("request_id", RequestID(c)).
				Str("reason", "product_not_found_for_brand").
				Int64("duration_ms", time.Since(startedAt).Milliseconds()).
				Msg("aprovisionamiento rechazado")
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "petición inválida",
				Errors:  map[string][]string{"licenses": {"uno o más product_code no son válidos para esta marca"}},
			})
		}
		h.log.Error().
			Str("event", "license.provision.failed").
			Str("request_id", RequestID(c)).
			Err(err).
			Int64("duration_ms", time.Since(startedAt).Milliseconds()).
			Msg("aprovisionamiento fallido")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error aprovisionando la licencia"})
	}

	h.log.Info().
		Str("event", "license.provision.succeeded").
		Str("request_id", RequestID(c)).
		Int64("duration_ms", time.Since(startedAt).Milliseconds()).
		Msg("aprovisionamiento exitoso")
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Lifecycle godoc
// @Summary      Aplicar una acción de ciclo de vida a una licencia
// @Tags         brand
// @Accept       json
// @Produce      json
// @Param        X-Brand-Key  header  string  true  "Credencial de marca"
// @Param        license_id   path    string  true  "ID de la licencia"
// @Param        body  body  dto.LifecycleRequest  true  "Acción (renew/suspend/resume/cancel)"
// @Success      200   {object}  dto.LifecycleResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/brand/licenses/{license_id} [patch]
func (h *LicenseHandler) Lifecycle(c *fiber.Ctx) error {
	brand := GetBrand(c)
	licenseID := c.Params("license_id")
	if licenseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "license_id es requerido"})
	}
	var in dto.LifecycleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "petición inválida", Errors: validationErrors(err)})
	}

	out, err := h.lifecycleUC.Update(c.UserContext(), brand, licenseID, in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "licencia no encontrada"})
		case errors.Is(err, domain.ErrForbidden):
			h.log.Warn().
				Str("event", "license.lifecycle.update.rejected").
				Str("request_id", RequestID(c)).
				Str("reason", "tenant_boundary_violation").
				Str("license_id", licenseID).
				Msg("acción de ciclo de vida rechazada")
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "no se puede renovar una licencia cancelada"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "petición inválida",
				Errors:  map[string][]string{"expires_at": {"requerido y futuro para renew"}},
			})
		}
		h.log.Error().
			Str("event", "license.lifecycle.update.failed").
			Str("request_id", RequestID(c)).
			Err(err).
			Msg("acción de ciclo de vida fallida")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error aplicando la acción"})
	}

	h.log.Info().
		Str("event", "license.lifecycle.update.succeeded").
		Str("request_id", RequestID(c)).
		Str("license_id", out.LicenseID).
		Str("action", in.Action).
		Str("status", out.Status).
		Msg("acción de ciclo de vida aplicada")
	return c.JSON(out)
}

// ListByEmail godoc
// @Summary      Listar licencias de un cliente en todas las marcas
// @Tags         brand
// @Produce      json
// @Param        X-Brand-Key  header  string  true  "Credencial de marca (ecosystem_admin)"
// @Param        email  query  string  true  "Email del cliente"
// @Success      200  {object}  dto.ListLicensesByEmailResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/brand/licenses [get]
func (h *LicenseHandler) ListByEmail(c *fiber.Ctx) error {
	brand := GetBrand(c)
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_EMAIL", Message: "email es requerido"})
	}
	if err := validate.Var(email, "email"); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email inválido"})
	}

	out, err := h.listUC.List(c.UserContext(), brand, email)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			h.log.Warn().
				Str("event", "license.list_by_email.rejected").
				Str("request_id", RequestID(c)).
				Str("reason", "forbidden_role").
				Str("role", brand.Role).
				Msg("listado por email rechazado")
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
		}
		h.log.Error().
			Str("event", "license.list_by_email.failed").
			Str("request_id", RequestID(c)).
			Err(err).
			Msg("listado por email fallido")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error consultando licencias"})
	}
	return c.JSON(out)
}
