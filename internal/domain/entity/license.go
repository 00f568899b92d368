package entity

import "time"

// Estados del ciclo de vida de una licencia. Las transiciones se gobiernan
// exclusivamente en domain/license (máquina de estados).
const (
	StatusValid     = "valid"
	StatusSuspended = "suspended"
	StatusCancelled = "cancelled"
)

// License es un entitlement de producto bajo una license key, con su propio
// estado, expiración y cupo de asientos.
// Invariante: una sola License por (license_key_id, product_id).
// MaxSeats nil = asientos ilimitados.
type License struct {
	ID           string
	LicenseKeyID string
	ProductID    string
	ProductCode  string // denormalizado vía join con products (solo lectura)
	Status       string
	ExpiresAt    time.Time
	MaxSeats     *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValid indica si la licencia está operativa: status=valid y expiración
// estrictamente en el futuro. Se evalúa siempre contra "now", nunca se cachea.
func (l *License) IsValid(now time.Time) bool {
	return l.Status == StatusValid && l.ExpiresAt.After(now)
}

// RemainingSeats calcula los asientos restantes dado el conteo de activaciones
// activas. nil cuando MaxSeats es ilimitado; nunca negativo.
func (l *License) RemainingSeats(activeSeats int) *int {
	if l.MaxSeats == nil {
		return nil
	}
	remaining := *l.MaxSeats - activeSeats
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
