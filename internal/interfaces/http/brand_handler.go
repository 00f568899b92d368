package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Licencias-api/internal/application/catalog"
	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/domain"
	"github.com/jhoicas/Licencias-api/pkg/logger"
)

// BrandHandler maneja el alta de marcas y productos (superficie de marca).
type BrandHandler struct {
	createBrandUC   *catalog.CreateBrandUseCase
	createProductUC *catalog.CreateProductUseCase
	log             *logger.Logger
}

// NewBrandHandler construye el handler.
func NewBrandHandler(createBrandUC *catalog.CreateBrandUseCase, createProductUC *catalog.CreateProductUseCase, log *logger.Logger) *BrandHandler {
	return &BrandHandler{createBrandUC: createBrandUC, createProductUC: createProductUC, log: log}
}

// CreateBrand godoc
// @Summary      Crear una marca (solo ecosystem_admin)
// @Tags         brand
// @Accept       json
// @Produce      json
// @Param        X-Brand-Key  header  string  true  "Credencial de marca (ecosystem_admin)"
// @Param        body  body  dto.CreateBrandRequest  true  "Nombre y rol"
// @Success      201   {object}  dto.CreateBrandResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/brand/brands [post]
func (h *BrandHandler) CreateBrand(c *fiber.Ctx) error {
	requester := GetBrand(c)
	var in dto.CreateBrandRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "petición inválida", Errors: validationErrors(err)})
	}

	out, err := h.createBrandUC.Create(requester, in)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			h.log.Warn().
				Str("event", "brand.create.rejected").
				Str("request_id", RequestID(c)).
				Str("reason", "forbidden_role").
				Str("requester_role", requester.Role).
				Msg("alta de marca rechazada")
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "marca duplicada"})
		}
		h.log.Error().
			Str("event", "brand.create.failed").
			Str("request_id", RequestID(c)).
			Err(err).
			Msg("alta de marca fallida")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error creando la marca"})
	}

	h.log.Info().
		Str("event", "brand.create.succeeded").
		Str("request_id", RequestID(c)).
		Str("created_brand_id", out.BrandID).
		Str("created_brand_role", out.Role).
		Msg("marca creada")
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateProduct godoc
// @Summary      Crear un producto bajo la marca autenticada
// @Tags         brand
// @Accept       json
// @Produce      json
// @Param        X-Brand-Key  header  string  true  "Credencial de marca"
// @Param        body  body  dto.CreateProductRequest  true  "Código y nombre"
// @Success      201   {object}  dto.CreateProductResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/brand/products [post]
func (h *BrandHandler) CreateProduct(c *fiber.Ctx) error {
	brand := GetBrand(c)
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "petición inválida", Errors: validationErrors(err)})
	}

	out, err := h.createProductUC.Create(brand, in)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "code ya existe en esta marca"})
		}
		h.log.Error().
			Str("event", "product.create.failed").
			Str("request_id", RequestID(c)).
			Str("product_code", in.Code).
			Err(err).
			Msg("alta de producto fallida")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error creando el producto"})
	}

	h.log.Info().
		Str("event", "product.create.succeeded").
		Str("request_id", RequestID(c)).
		Str("product_code", out.Code).
		Msg("producto creado")
	return c.Status(fiber.StatusCreated).JSON(out)
}
