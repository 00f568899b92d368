package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Licencias-api/internal/application/catalog"
	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/domain"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
	"github.com/jhoicas/Licencias-api/pkg/logger"
)

// Locals keys para las identidades de tenant en Fiber.
const (
	LocalBrand   = "brand"
	LocalProduct = "product"
)

// Headers de credencial opaca por superficie.
const (
	HeaderBrandKey     = "X-Brand-Key"
	HeaderProductToken = "X-Product-Token"
)

// BrandAuth valida el header X-Brand-Key contra el directorio de tenants y
// deja la marca en c.Locals. La credencial nunca se loggea: solo un prefijo
// de su hash.
func BrandAuth(directory *catalog.DirectoryUseCase, log *logger.Logger, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderBrandKey)
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_CREDENTIAL", Message: "header " + HeaderBrandKey + " requerido"})
		}
		brand, err := directory.AuthenticateBrand(key)
		if err != nil {
			if err == domain.ErrUnauthorized {
				log.Warn().
					Str("event", "auth.brand.rejected").
					Str("key_hash_prefix", logger.HashPrefix(secret, key)).
					Msg("credencial de marca inválida")
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIAL", Message: "credencial de marca inválida"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error de autenticación"})
		}
		c.Locals(LocalBrand, brand)
		return c.Next()
	}
}

// ProductAuth valida el header X-Product-Token y deja el producto en c.Locals.
func ProductAuth(directory *catalog.DirectoryUseCase, log *logger.Logger, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(HeaderProductToken)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_CREDENTIAL", Message: "header " + HeaderProductToken + " requerido"})
		}
		product, err := directory.AuthenticateProduct(token)
		if err != nil {
			if err == domain.ErrUnauthorized {
				log.Warn().
					Str("event", "auth.product.rejected").
					Str("key_hash_prefix", logger.HashPrefix(secret, token)).
					Msg("token de producto inválido")
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIAL", Message: "token de producto inválido"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error de autenticación"})
		}
		c.Locals(LocalProduct, product)
		return c.Next()
	}
}

// GetBrand devuelve la marca autenticada (después de BrandAuth).
func GetBrand(c *fiber.Ctx) *entity.Brand {
	v := c.Locals(LocalBrand)
	if v == nil {
		return nil
	}
	b, _ := v.(*entity.Brand)
	return b
}

// GetProduct devuelve el producto autenticado (después de ProductAuth).
func GetProduct(c *fiber.Ctx) *entity.Product {
	v := c.Locals(LocalProduct)
	if v == nil {
		return nil
	}
	p, _ := v.(*entity.Product)
	return p
}

// RequestID devuelve el id de la petición (middleware requestid de Fiber).
func RequestID(c *fiber.Ctx) string {
	v := c.Locals("requestid")
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
