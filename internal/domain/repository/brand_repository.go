package repository

import "github.com/jhoicas/Licencias-api/internal/domain/entity"

// BrandRepository define el puerto de persistencia para Brand (DIP).
type BrandRepository interface {
	Create(brand *entity.Brand) error
	GetByID(id string) (*entity.Brand, error)
	GetByAPIKeyHash(hash string) (*entity.Brand, error)
}
