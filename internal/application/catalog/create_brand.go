package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/domain"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
	"github.com/jhoicas/Licencias-api/internal/domain/repository"
	"github.com/jhoicas/Licencias-api/pkg/apikey"
)

// CreateBrandUseCase alta de marcas (solo ecosystem_admin).
type CreateBrandUseCase struct {
	brandRepo repository.BrandRepository
}

// NewCreateBrandUseCase construye el caso de uso.
func NewCreateBrandUseCase(brandRepo repository.BrandRepository) *CreateBrandUseCase {
	return &CreateBrandUseCase{brandRepo: brandRepo}
}

// Create genera el token br_<slug>_<aleatorio>, guarda solo su hash y devuelve
// el token en claro una única vez.
func (uc *CreateBrandUseCase) Create(requester *entity.Brand, in dto.CreateBrandRequest) (*dto.CreateBrandResponse, error) {
	if !requester.IsEcosystemAdmin() {
		return nil, domain.ErrForbidden
	}

	rawToken := apikey.NewBrandToken(in.Name)
	now := time.Now()
	brand := &entity.Brand{
		ID:         uuid.New().String(),
		Name:       in.Name,
		APIKeyHash: apikey.Hash(rawToken),
		Role:       in.Role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.brandRepo.Create(brand); err != nil {
		return nil, err
	}
	return &dto.CreateBrandResponse{
		BrandID:  brand.ID,
		Name:     brand.Name,
		Role:     brand.Role,
		APIToken: rawToken,
		Message:  "Guarda este api_token: no se volverá a mostrar. Configúralo como secreto (<MARCA>_BR_TOKEN) en tu gestor de secretos.",
	}, nil
}
