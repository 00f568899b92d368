package entity

import "time"

// LicenseKey es la credencial que el cliente final presenta para activar: un
// valor opaco único por (marca, email de cliente). Las licencias concretas
// cuelgan de ella como líneas por producto.
type LicenseKey struct {
	ID            string
	BrandID       string
	Key           string
	CustomerEmail string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
