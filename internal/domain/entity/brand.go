package entity

import "time"

// Roles de marca. ecosystem_admin habilita operaciones cross-brand (alta de
// marcas, listado de licencias por email en todo el ecosistema).
const (
	RoleStandard       = "standard"
	RoleEcosystemAdmin = "ecosystem_admin"
)

// Brand es un tenant del sistema: cada marca solo ve sus propios productos,
// license keys y licencias. APIKeyHash es el sha256 de su X-Brand-Key.
type Brand struct {
	ID         string
	Name       string
	APIKeyHash string
	Role       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsEcosystemAdmin indica si la marca puede operar fuera de su frontera.
func (b *Brand) IsEcosystemAdmin() bool {
	return b.Role == RoleEcosystemAdmin
}
