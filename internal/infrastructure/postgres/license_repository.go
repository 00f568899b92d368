package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
	"github.com/jhoicas/Licencias-api/internal/domain/repository"
)

var _ repository.LicenseRepository = (*LicenseRepo)(nil)

// LicenseRepo implementación del puerto LicenseRepository sobre PostgreSQL (usable con pool o tx).
// Las lecturas incluyen product_code vía join con products.
type LicenseRepo struct {
	q Querier
}

// NewLicenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLicenseRepository(q Querier) *LicenseRepo {
	return &LicenseRepo{q: q}
}

const licenseSelect = `
	SELECT l.id, l.license_key_id, l.product_id, p.code, l.status, l.expires_at, l.max_seats, l.created_at, l.updated_at
	FROM licenses l
	JOIN products p ON p.id = l.product_id`

// GetByID obtiene una licencia por ID (con product_code).
func (r *LicenseRepo) GetByID(id string) (*entity.License, error) {
	return r.getBy(licenseSelect+` WHERE l.id = $1`, id)
}

// GetForUpdate obtiene la licencia bloqueando su fila (SELECT FOR UPDATE).
// "FOR UPDATE OF l": el lock es sobre la fila de licenses, no sobre products.
// Debe ejecutarse dentro de una transacción; el lock se mantiene hasta el
// Commit o Rollback y serializa conteo e inserción de asientos por licencia.
func (r *LicenseRepo) GetForUpdate(id string) (*entity.License, error) {
	return r.getBy(licenseSelect+` WHERE l.id = $1 FOR UPDATE OF l`, id)
}

// Upsert inserta o actualiza por (license_key_id, product_id). Re-aprovisionar
// una línea existente repone status, expiración y cupo.
func (r *LicenseRepo) Upsert(license *entity.License) error {
	query := `
		INSERT INTO licenses (id, license_key_id, product_id, status, expires_at, max_seats, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (license_key_id, product_id)
		DO UPDATE SET status = EXCLUDED.status, expires_at = EXCLUDED.expires_at,
		              max_seats = EXCLUDED.max_seats, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		license.ID, license.LicenseKeyID, license.ProductID, license.Status,
		license.ExpiresAt, license.MaxSeats,
	)
	if err != nil {
		return fmt.Errorf("upsert license: %w", err)
	}
	return nil
}

// Update actualiza status, expiración y cupo de una licencia existente.
func (r *LicenseRepo) Update(license *entity.License) error {
	query := `
		UPDATE licenses SET status = $2, expires_at = $3, max_seats = $4, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		license.ID, license.Status, license.ExpiresAt, license.MaxSeats,
	)
	if err != nil {
		return fmt.Errorf("update license: %w", err)
	}
	return nil
}

// ListByLicenseKey lista las licencias bajo una key (con product_code).
func (r *LicenseRepo) ListByLicenseKey(licenseKeyID string) ([]*entity.License, error) {
	query := licenseSelect + ` WHERE l.license_key_id = $1 ORDER BY p.code`
	rows, err := r.q.Query(context.Background(), query, licenseKeyID)
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	defer rows.Close()
	var list []*entity.License
	for rows.Next() {
		var l entity.License
		if err := rows.Scan(&l.ID, &l.LicenseKeyID, &l.ProductID, &l.ProductCode,
			&l.Status, &l.ExpiresAt, &l.MaxSeats, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan license: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func (r *LicenseRepo) getBy(query string, arg any) (*entity.License, error) {
	var l entity.License
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&l.ID, &l.LicenseKeyID, &l.ProductID, &l.ProductCode,
		&l.Status, &l.ExpiresAt, &l.MaxSeats, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get license: %w", err)
	}
	return &l, nil
}
