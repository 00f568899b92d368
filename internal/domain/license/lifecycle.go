// Package license contiene la máquina de estados del ciclo de vida de una
// licencia: una función de transición (estado, acción) -> estado | error, en
// una sola tabla exhaustiva en lugar de condicionales dispersos.
package license

import (
	"fmt"

	"github.com/jhoicas/Licencias-api/internal/domain"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
)

// Action acción de ciclo de vida sobre una licencia.
type Action string

const (
	ActionRenew   Action = "renew"
	ActionSuspend Action = "suspend"
	ActionResume  Action = "resume"
	ActionCancel  Action = "cancel"
)

// ErrCancelledRenewal renovar una licencia cancelada es un conflicto explícito:
// resucitar una licencia cancelada debe ser una operación distinguible, no un
// efecto secundario de un cambio de fecha.
var ErrCancelledRenewal = fmt.Errorf("%w: no se puede renovar una licencia cancelada", domain.ErrConflict)

// Apply calcula el nuevo estado para (estado actual, acción).
//
// Reglas:
//   - renew no cambia el estado (renovar != reanudar); falla con conflicto si
//     la licencia está cancelada.
//   - suspend/resume/cancel son no-ops idempotentes fuera de su estado origen,
//     para ser seguros ante entregas at-least-once de un sistema de billing.
//   - resume nunca consulta la expiración: "tiene fecha vigente" y "está
//     operativamente habilitada" son ejes independientes; IsValid es la única
//     fuente de verdad operativa.
func Apply(current string, action Action) (string, error) {
	switch action {
	case ActionRenew:
		if current == entity.StatusCancelled {
			return current, ErrCancelledRenewal
		}
		return current, nil
	case ActionSuspend:
		if current == entity.StatusValid {
			return entity.StatusSuspended, nil
		}
		return current, nil // suspended/cancelled: no-op
	case ActionResume:
		if current == entity.StatusSuspended {
			return entity.StatusValid, nil
		}
		return current, nil // valid/cancelled: no-op
	case ActionCancel:
		return entity.StatusCancelled, nil // cancelled: no-op (ya está)
	default:
		return current, domain.ErrInvalidInput
	}
}
