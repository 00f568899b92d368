package repository

import (
	"time"

	"github.com/jhoicas/Licencias-api/internal/domain/entity"
)

// ActivationRepository define el puerto de persistencia para Activation (DIP).
// La revocación es lógica (revoked_at); el historial nunca se borra.
type ActivationRepository interface {
	Create(activation *entity.Activation) error
	// CountActive cuenta asientos en uso: activaciones con revoked_at null.
	CountActive(licenseID string) (int, error)
	// GetActive devuelve la activación activa de la instancia, o nil.
	GetActive(licenseID, instanceIdentifier string) (*entity.Activation, error)
	// Revoke marca revoked_at; no borra la fila.
	Revoke(id string, at time.Time) error
}
