package catalog

import (
	"github.com/jhoicas/Licencias-api/internal/domain"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
	"github.com/jhoicas/Licencias-api/internal/domain/repository"
	"github.com/jhoicas/Licencias-api/pkg/apikey"
)

// DirectoryUseCase resuelve credenciales bearer opacas a identidades de marca
// o producto. Lookup puro por hash: sin estado mutable.
type DirectoryUseCase struct {
	brandRepo   repository.BrandRepository
	productRepo repository.ProductRepository
}

// NewDirectoryUseCase construye el directorio de tenants.
func NewDirectoryUseCase(brandRepo repository.BrandRepository, productRepo repository.ProductRepository) *DirectoryUseCase {
	return &DirectoryUseCase{brandRepo: brandRepo, productRepo: productRepo}
}

// AuthenticateBrand resuelve un token X-Brand-Key a su marca.
func (uc *DirectoryUseCase) AuthenticateBrand(token string) (*entity.Brand, error) {
	brand, err := uc.brandRepo.GetByAPIKeyHash(apikey.Hash(token))
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, domain.ErrUnauthorized
	}
	return brand, nil
}

// AuthenticateProduct resuelve un token X-Product-Token a su producto.
func (uc *DirectoryUseCase) AuthenticateProduct(token string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByTokenHash(apikey.Hash(token))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrUnauthorized
	}
	return product, nil
}
