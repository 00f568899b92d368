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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Code es único por marca.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, brand_id, code, name, token_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.BrandID, product.Code, product.Name, product.TokenHash,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.getBy(`WHERE id = $1`, id)
}

// GetByTokenHash obtiene un producto por el hash de su token.
func (r *ProductRepo) GetByTokenHash(hash string) (*entity.Product, error) {
	return r.getBy(`WHERE token_hash = $1`, hash)
}

// GetByBrandAndCode obtiene un producto por marca y código.
func (r *ProductRepo) GetByBrandAndCode(brandID, code string) (*entity.Product, error) {
	query := `
		SELECT id, brand_id, code, name, token_hash, created_at, updated_at
		FROM products WHERE brand_id = $1 AND code = $2`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, brandID, code).Scan(
		&p.ID, &p.BrandID, &p.Code, &p.Name, &p.TokenHash, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) getBy(where string, arg any) (*entity.Product, error) {
	query := `
		SELECT id, brand_id, code, name, token_hash, created_at, updated_at
		FROM products ` + where
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.BrandID, &p.Code, &p.Name, &p.TokenHash, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}
