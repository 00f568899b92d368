package dto

import "time"

// ProvisionLicenseLine una línea de licencia a aprovisionar bajo la key.
type ProvisionLicenseLine struct {
	ProductCode string    `json:"product_code" validate:"required"`
	ExpiresAt   time.Time `json:"expires_at" validate:"required"`
	MaxSeats    *int      `json:"max_seats" validate:"omitempty,min=1"`
}

// ProvisionRequest aprovisiona (o re-aprovisiona) la license key de un cliente.
type ProvisionRequest struct {
	CustomerEmail string                 `json:"customer_email" validate:"required,email"`
	Licenses      []ProvisionLicenseLine `json:"licenses" validate:"required,min=1,dive"`
}

// ProvisionedLicense línea de licencia en la respuesta de aprovisionamiento.
type ProvisionedLicense struct {
	ProductCode string    `json:"product_code"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	MaxSeats    *int      `json:"max_seats"`
}

// ProvisionResponse respuesta 201 del aprovisionamiento.
type ProvisionResponse struct {
	LicenseKey    string               `json:"license_key"`
	CustomerEmail string               `json:"customer_email"`
	Licenses      []ProvisionedLicense `json:"licenses"`
}

// ActivateRequest petición de activación de una instancia.
type ActivateRequest struct {
	LicenseKey         string `json:"license_key" validate:"required"`
	ProductCode        string `json:"product_code" validate:"required"`
	InstanceType       string `json:"instance_type" validate:"required,oneof=url host machine"`
	InstanceIdentifier string `json:"instance_identifier" validate:"required,max=255"`
}

// Entitlement snapshot de una licencia bajo la key, con conteo de asientos.
// ActiveSeats/RemainingSeats son informativos y pueden ser eventualmente
// consistentes respecto del camino autoritativo bajo lock.
type Entitlement struct {
	ProductCode    string    `json:"product_code"`
	Status         string    `json:"status"`
	ExpiresAt      time.Time `json:"expires_at"`
	IsValid        *bool     `json:"is_valid,omitempty"` // solo en la consulta de estado
	MaxSeats       *int      `json:"max_seats"`
	ActiveSeats    int       `json:"active_seats"`
	RemainingSeats *int      `json:"remaining_seats"`
}

// ActivateResponse decisión de activación. Valid=false con Reason es un
// resultado normal (no un error); el snapshot completo de entitlements permite
// al cliente reconciliar todo su estado en una sola llamada.
type ActivateResponse struct {
	Valid        bool          `json:"valid"`
	Reason       string        `json:"reason,omitempty"`
	LicenseKey   string        `json:"license_key,omitempty"`
	ProductCode  string        `json:"product_code,omitempty"`
	ExpiresAt    *time.Time    `json:"expires_at,omitempty"`
	MaxSeats     *int          `json:"max_seats,omitempty"` // informativo en max_seats_reached
	Entitlements []Entitlement `json:"entitlements,omitempty"`
}

// DeactivateRequest petición de liberación del asiento de una instancia.
type DeactivateRequest struct {
	LicenseKey         string `json:"license_key" validate:"required"`
	ProductCode        string `json:"product_code" validate:"required"`
	InstanceType       string `json:"instance_type" validate:"required,oneof=url host machine"`
	InstanceIdentifier string `json:"instance_identifier" validate:"required,max=255"`
}

// DeactivateResponse Deactivated=false con reason no_active_activation es un
// resultado exitoso e idempotente, no un error.
type DeactivateResponse struct {
	Deactivated bool   `json:"deactivated"`
	Reason      string `json:"reason,omitempty"`
}

// LicenseKeyStatusResponse estado completo de una license key.
// Valid es true si algún entitlement está operativo.
type LicenseKeyStatusResponse struct {
	Valid         bool          `json:"valid"`
	Reason        string        `json:"reason,omitempty"`
	LicenseKey    string        `json:"license_key,omitempty"`
	CustomerEmail string        `json:"customer_email,omitempty"`
	Entitlements  []Entitlement `json:"entitlements,omitempty"`
}

// LifecycleRequest acción de ciclo de vida sobre una licencia.
// ExpiresAt es obligatorio (y futuro) solo para renew.
type LifecycleRequest struct {
	Action    string     `json:"action" validate:"required,oneof=renew suspend resume cancel"`
	ExpiresAt *time.Time `json:"expires_at" validate:"required_if=Action renew"`
}

// LifecycleResponse snapshot de la licencia tras aplicar la acción.
type LifecycleResponse struct {
	LicenseID   string    `json:"license_id"`
	ProductCode string    `json:"product_code"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	MaxSeats    *int      `json:"max_seats"`
}

// LicenseKeySummary una license key con sus licencias (listado por email).
type LicenseKeySummary struct {
	Brand      string               `json:"brand"`
	LicenseKey string               `json:"license_key"`
	Licenses   []ProvisionedLicense `json:"licenses"`
}

// ListLicensesByEmailResponse licencias de un cliente en todas las marcas
// (solo ecosystem_admin).
type ListLicensesByEmailResponse struct {
	CustomerEmail string              `json:"customer_email"`
	LicenseKeys   []LicenseKeySummary `json:"license_keys"`
}
