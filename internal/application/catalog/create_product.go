package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
	"github.com/jhoicas/Licencias-api/internal/domain/repository"
	"github.com/jhoicas/Licencias-api/pkg/apikey"
)

// CreateProductUseCase alta de productos bajo la marca autenticada.
type CreateProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewCreateProductUseCase construye el caso de uso.
func NewCreateProductUseCase(productRepo repository.ProductRepository) *CreateProductUseCase {
	return &CreateProductUseCase{productRepo: productRepo}
}

// Create genera el token prd_<slug>_<aleatorio>, guarda solo su hash y
// devuelve el token en claro una única vez. Code es único por marca
// (violación -> domain.ErrDuplicate desde el repositorio).
func (uc *CreateProductUseCase) Create(brand *entity.Brand, in dto.CreateProductRequest) (*dto.CreateProductResponse, error) {
	rawToken := apikey.NewProductToken(in.Code)
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		BrandID:   brand.ID,
		Code:      in.Code,
		Name:      in.Name,
		TokenHash: apikey.Hash(rawToken),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return &dto.CreateProductResponse{
		ProductID:    product.ID,
		BrandID:      brand.ID,
		Code:         product.Code,
		Name:         product.Name,
		ProductToken: rawToken,
	}, nil
}
