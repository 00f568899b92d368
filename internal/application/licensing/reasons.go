package licensing

// Códigos de razón de las decisiones de activación/desactivación/estado.
// Los cuatro primeros son resultados negativos esperados (HTTP 200); los dos
// de frontera son violaciones de tenant y se responden 403 sin revelar datos.
const (
	ReasonLicenseKeyNotFound      = "license_key_not_found"
	ReasonNoEntitlementForProduct = "no_entitlement_for_product"
	ReasonLicenseNotValid         = "license_not_valid"
	ReasonMaxSeatsReached         = "max_seats_reached"
	ReasonNoActiveActivation      = "no_active_activation"

	ReasonProductTokenMismatch  = "product_token_mismatch"
	ReasonLicenseKeyNotForBrand = "license_key_not_for_brand"

	ReasonInternalError = "internal_error"
)

// IsBoundaryViolation indica si la razón es una violación de frontera de
// tenant (rechazo duro, 403) y no un resultado negativo normal.
func IsBoundaryViolation(reason string) bool {
	return reason == ReasonProductTokenMismatch || reason == ReasonLicenseKeyNotForBrand
}
