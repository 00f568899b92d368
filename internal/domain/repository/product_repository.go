package repository

import "github.com/jhoicas/Licencias-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByTokenHash(hash string) (*entity.Product, error)
	GetByBrandAndCode(brandID, code string) (*entity.Product, error)
}
