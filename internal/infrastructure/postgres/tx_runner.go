package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Licencias-api/internal/application/licensing"
	"github.com/jhoicas/Licencias-api/internal/domain/repository"
)

// Ensure TxRunner implements licensing.TxRunner.
var _ licensing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Los locks
// de fila (SELECT FOR UPDATE) se liberan en el Commit o Rollback.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run transacción de la sección crítica de asientos/ciclo de vida: repos de
// licencias y activaciones atados a la tx.
func (r *TxRunner) Run(ctx context.Context, fn func(
	licenseRepo repository.LicenseRepository,
	activationRepo repository.ActivationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewLicenseRepository(tx), NewActivationRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunProvision transacción del aprovisionamiento (key + líneas, todo o nada).
func (r *TxRunner) RunProvision(ctx context.Context, fn func(
	keyRepo repository.LicenseKeyRepository,
	licenseRepo repository.LicenseRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewLicenseKeyRepository(tx), NewLicenseRepository(tx), NewProductRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
