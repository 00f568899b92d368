package repository

import "github.com/jhoicas/Licencias-api/internal/domain/entity"

// LicenseRepository define el puerto de persistencia para License (DIP).
type LicenseRepository interface {
	GetByID(id string) (*entity.License, error)
	// GetForUpdate obtiene la licencia bloqueando su fila (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción (TxRunner).
	GetForUpdate(id string) (*entity.License, error)
	// Upsert inserta o actualiza por (license_key_id, product_id).
	Upsert(license *entity.License) error
	Update(license *entity.License) error
	ListByLicenseKey(licenseKeyID string) ([]*entity.License, error)
}
