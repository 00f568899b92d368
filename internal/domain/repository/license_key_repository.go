package repository

import "github.com/jhoicas/Licencias-api/internal/domain/entity"

// LicenseKeyRepository define el puerto de persistencia para LicenseKey (DIP).
type LicenseKeyRepository interface {
	Create(key *entity.LicenseKey) error
	GetByID(id string) (*entity.LicenseKey, error)
	// GetByValue busca por el valor opaco de la key (el que ve el cliente).
	GetByValue(value string) (*entity.LicenseKey, error)
	GetByBrandAndEmail(brandID, customerEmail string) (*entity.LicenseKey, error)
	ListByEmail(customerEmail string) ([]*entity.LicenseKey, error)
}
