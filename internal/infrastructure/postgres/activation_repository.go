package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Licencias-api/internal/domain"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
	"github.com/jhoicas/Licencias-api/internal/domain/repository"
)

var _ repository.ActivationRepository = (*ActivationRepo)(nil)

// ActivationRepo implementación del puerto ActivationRepository sobre PostgreSQL (usable con pool o tx).
type ActivationRepo struct {
	q Querier
}

// NewActivationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewActivationRepository(q Querier) *ActivationRepo {
	return &ActivationRepo{q: q}
}

// Create persiste una nueva activación. El índice único parcial
// (license_id, instance_identifier) WHERE revoked_at IS NULL respalda la
// idempotencia por instancia a nivel de storage.
func (r *ActivationRepo) Create(activation *entity.Activation) error {
	query := `
		INSERT INTO activations (id, license_id, instance_type, instance_identifier, activated_at, revoked_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULL, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		activation.ID, activation.LicenseID, activation.InstanceType,
		activation.InstanceIdentifier, activation.ActivatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert activation: %w", err)
	}
	return nil
}

// CountActive cuenta los asientos en uso de una licencia.
func (r *ActivationRepo) CountActive(licenseID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM activations WHERE license_id = $1 AND revoked_at IS NULL`,
		licenseID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active activations: %w", err)
	}
	return count, nil
}

// GetActive devuelve la activación activa de una instancia, o nil.
func (r *ActivationRepo) GetActive(licenseID, instanceIdentifier string) (*entity.Activation, error) {
	query := `
		SELECT id, license_id, instance_type, instance_identifier, activated_at, revoked_at, created_at, updated_at
		FROM activations
		WHERE license_id = $1 AND instance_identifier = $2 AND revoked_at IS NULL`
	var a entity.Activation
	err := r.q.QueryRow(context.Background(), query, licenseID, instanceIdentifier).Scan(
		&a.ID, &a.LicenseID, &a.InstanceType, &a.InstanceIdentifier,
		&a.ActivatedAt, &a.RevokedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active activation: %w", err)
	}
	return &a, nil
}

// Revoke marca revoked_at (borrado lógico): la fila queda como historial.
func (r *ActivationRepo) Revoke(id string, at time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE activations SET revoked_at = $2, updated_at = now() WHERE id = $1 AND revoked_at IS NULL`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("revoke activation: %w", err)
	}
	return nil
}
