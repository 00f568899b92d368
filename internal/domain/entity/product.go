package entity

import "time"

// Product unidad vendible identificada por un código corto, propiedad de una marca.
// Code es único por marca. TokenHash es el sha256 del token X-Product-Token.
type Product struct {
	ID        string
	BrandID   string
	Code      string
	Name      string
	TokenHash string
	CreatedAt time.Time
	UpdatedAt time.Time
}
