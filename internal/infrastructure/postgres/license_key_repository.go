package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Licencias-api/internal/domain"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
	"github.com/jhoicas/Licencias-api/internal/domain/repository"
)

var _ repository.LicenseKeyRepository = (*LicenseKeyRepo)(nil)

// LicenseKeyRepo implementación del puerto LicenseKeyRepository sobre PostgreSQL (usable con pool o tx).
type LicenseKeyRepo struct {
	q Querier
}

// NewLicenseKeyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLicenseKeyRepository(q Querier) *LicenseKeyRepo {
	return &LicenseKeyRepo{q: q}
}

// Create persiste una nueva license key. El unique (brand_id, customer_email)
// respalda la semántica first-or-create ante aprovisionamientos concurrentes.
func (r *LicenseKeyRepo) Create(key *entity.LicenseKey) error {
	query := `
		INSERT INTO license_keys (id, brand_id, key, customer_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		key.ID, key.BrandID, key.Key, key.CustomerEmail,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert license key: %w", err)
	}
	return nil
}

// GetByID obtiene una license key por ID.
func (r *LicenseKeyRepo) GetByID(id string) (*entity.LicenseKey, error) {
	return r.getBy(`WHERE id = $1`, id)
}

// GetByValue obtiene una license key por su valor opaco.
func (r *LicenseKeyRepo) GetByValue(value string) (*entity.LicenseKey, error) {
	return r.getBy(`WHERE key = $1`, value)
}

// GetByBrandAndEmail obtiene la license key de un cliente bajo una marca.
func (r *LicenseKeyRepo) GetByBrandAndEmail(brandID, customerEmail string) (*entity.LicenseKey, error) {
	query := `
		SELECT id, brand_id, key, customer_email, created_at, updated_at
		FROM license_keys WHERE brand_id = $1 AND customer_email = $2`
	var k entity.LicenseKey
	err := r.q.QueryRow(context.Background(), query, brandID, customerEmail).Scan(
		&k.ID, &k.BrandID, &k.Key, &k.CustomerEmail, &k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get license key by email: %w", err)
	}
	return &k, nil
}

// ListByEmail lista las license keys de un email en todas las marcas.
func (r *LicenseKeyRepo) ListByEmail(customerEmail string) ([]*entity.LicenseKey, error) {
	query := `
		SELECT id, brand_id, key, customer_email, created_at, updated_at
		FROM license_keys WHERE customer_email = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, customerEmail)
	if err != nil {
		return nil, fmt.Errorf("list license keys by email: %w", err)
	}
	defer rows.Close()
	var list []*entity.LicenseKey
	for rows.Next() {
		var k entity.LicenseKey
		if err := rows.Scan(&k.ID, &k.BrandID, &k.Key, &k.CustomerEmail, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan license key: %w", err)
		}
		list = append(list, &k)
	}
	return list, rows.Err()
}

func (r *LicenseKeyRepo) getBy(where string, arg any) (*entity.LicenseKey, error) {
	query := `
		SELECT id, brand_id, key, customer_email, created_at, updated_at
		FROM license_keys ` + where
	var k entity.LicenseKey
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&k.ID, &k.BrandID, &k.Key, &k.CustomerEmail, &k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get license key: %w", err)
	}
	return &k, nil
}
