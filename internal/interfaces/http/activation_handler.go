package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/application/licensing"
	"github.com/jhoicas/Licencias-api/pkg/logger"
)

// ActivationHandler maneja activate/deactivate/status (superficie de producto).
type ActivationHandler struct {
	uc     *licensing.ActivationUseCase
	log    *logger.Logger
	secret string
}

// NewActivationHandler construye el handler.
func NewActivationHandler(uc *licensing.ActivationUseCase, log *logger.Logger, secret string) *ActivationHandler {
	return &ActivationHandler{uc: uc, log: log, secret: secret}
}

// Activate godoc
// @Summary      Activar una instancia contra una license key
// @Tags         product
// @Accept       json
// @Produce      json
// @Param        X-Product-Token  header  string  true  "Token de producto"
// @Param        body  body  dto.ActivateRequest  true  "Datos de activación"
// @Success      200   {object}  dto.ActivateResponse
// @Failure      403   {object}  dto.ActivateResponse
// @Router       /api/product/activate [post]
func (h *ActivationHandler) Activate(c *fiber.Ctx) error {
	startedAt := time.Now()
	var in dto.ActivateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "petición inválida", Errors: validationErrors(err)})
	}

	h.log.Info().
		Str("event", "license.activation.requested").
		Str("request_id", RequestID(c)).
		Str("license_key_hash", logger.HashIdentifier(h.secret, in.LicenseKey)).
		Str("product_code", in.ProductCode).
		Str("instance_type", in.InstanceType).
		Msg("activación solicitada")

	out, err := h.uc.Activate(c.UserContext(), GetProduct(c), in)
	if err != nil {
		h.log.Error().
			Str("event", "license.activation.failed").
			Str("request_id", RequestID(c)).
			Err(err).
			Int64("duration_ms", time.Since(startedAt).Milliseconds()).
			Msg("activación fallida")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ActivateResponse{Valid: false, Reason: licensing.ReasonInternalError})
	}

	activationDecisions.WithLabelValues(decisionLabel(out.Valid, out.Reason)).Inc()

	if out.Valid {
		h.log.Info().
			Str("event", "license.activation.succeeded").
			Str("request_id", RequestID(c)).
			Str("product_code", in.ProductCode).
			Str("instance_identifier_hash", logger.HashIdentifier(h.secret, in.InstanceIdentifier)).
			Int64("duration_ms", time.Since(startedAt).Milliseconds()).
			Msg("activación concedida")
		return c.JSON(out)
	}

	status := fiber.StatusOK
	if licensing.IsBoundaryViolation(out.Reason) {
		// Violación de frontera de tenant: rechazo duro, sin revelar datos.
		status = fiber.StatusForbidden
	}
	h.log.Info().
		Str("event", "license.activation.rejected").
		Str("request_id", RequestID(c)).
		Str("reason", out.Reason).
		Int("http_status", status).
		Int64("duration_ms", time.Since(startedAt).Milliseconds()).
		Msg("activación rechazada")
	return c.Status(status).JSON(out)
}

// Deactivate godoc
// @Summary      Liberar el asiento de una instancia
// @Tags         product
// @Accept       json
// @Produce      json
// @Param        X-Product-Token  header  string  true  "Token de producto"
// @Param        body  body  dto.DeactivateRequest  true  "Datos de desactivación"
// @Success      200   {object}  dto.DeactivateResponse
// @Failure      403   {object}  dto.DeactivateResponse
// @Router       /api/product/deactivate [delete]
func (h *ActivationHandler) Deactivate(c *fiber.Ctx) error {
	startedAt := time.Now()
	var in dto.DeactivateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "petición inválida", Errors: validationErrors(err)})
	}

	out, err := h.uc.Deactivate(c.UserContext(), GetProduct(c), in)
	if err != nil {
		h.log.Error().
			Str("event", "license.activation.deactivate.failed").
			Str("request_id", RequestID(c)).
			Err(err).
			Int64("duration_ms", time.Since(startedAt).Milliseconds()).
			Msg("desactivación fallida")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.DeactivateResponse{Deactivated: false, Reason: licensing.ReasonInternalError})
	}

	deactivationDecisions.WithLabelValues(decisionLabel(out.Deactivated, out.Reason)).Inc()

	status := fiber.StatusOK
	if licensing.IsBoundaryViolation(out.Reason) {
		status = fiber.StatusForbidden
	}
	h.log.Info().
		Str("event", "license.activation.deactivate.done").
		Str("request_id", RequestID(c)).
		Bool("deactivated", out.Deactivated).
		Str("reason", out.Reason).
		Str("instance_identifier_hash", logger.HashIdentifier(h.secret, in.InstanceIdentifier)).
		Int64("duration_ms", time.Since(startedAt).Milliseconds()).
		Msg("desactivación resuelta")
	return c.Status(status).JSON(out)
}

// Status godoc
// @Summary      Estado completo de una license key
// @Tags         product
// @Produce      json
// @Param        X-Product-Token  header  string  true  "Token de producto"
// @Param        key  path  string  true  "Valor de la license key"
// @Success      200  {object}  dto.LicenseKeyStatusResponse
// @Failure      403  {object}  dto.LicenseKeyStatusResponse
// @Router       /api/product/license-keys/{key} [get]
func (h *ActivationHandler) Status(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_KEY", Message: "key es requerida"})
	}
	out, err := h.uc.Status(c.UserContext(), GetProduct(c), key)
	if err != nil {
		h.log.Error().
			Str("event", "license.status.failed").
			Str("request_id", RequestID(c)).
			Err(err).
			Msg("consulta de estado fallida")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.LicenseKeyStatusResponse{Valid: false, Reason: licensing.ReasonInternalError})
	}
	status := fiber.StatusOK
	if licensing.IsBoundaryViolation(out.Reason) {
		status = fiber.StatusForbidden
	}
	return c.Status(status).JSON(out)
}
