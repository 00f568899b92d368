package entity

import "time"

// Tipos de instancia que consumen un asiento.
const (
	InstanceTypeURL     = "url"
	InstanceTypeHost    = "host"
	InstanceTypeMachine = "machine"
)

// Activation registra que una instancia (url/host/machine) consume un asiento
// de una licencia. La revocación es lógica (RevokedAt) para conservar el
// historial de consumo; nunca se borra físicamente.
// Invariante: una sola activación activa por (license_id, instance_identifier).
type Activation struct {
	ID                 string
	LicenseID          string
	InstanceType       string
	InstanceIdentifier string
	ActivatedAt        time.Time
	RevokedAt          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsActive indica si la activación sigue consumiendo un asiento.
func (a *Activation) IsActive() bool {
	return a.RevokedAt == nil
}
