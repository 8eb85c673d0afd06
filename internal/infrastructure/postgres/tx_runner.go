package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/carniceria-stock/internal/application/ledger"
	"github.com/tu-usuario/carniceria-stock/internal/application/transfer"
	"github.com/tu-usuario/carniceria-stock/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner and transfer.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ transfer.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos del libro atados a la tx y
// hace Commit o Rollback. El apunte del movimiento y el ajuste del lote se
// confirman juntos o ninguno.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	lotRepo := NewLotRepository(tx)

	if err := fn(movRepo, lotRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunTransfer inicia una transacción con los repos de traslados, movimientos y
// lotes (para las transiciones de la máquina de estados del traslado).
func (r *TxRunner) RunTransfer(ctx context.Context, fn func(
	transferRepo repository.TransferRepository,
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	transferRepo := NewTransferRepository(tx)
	movRepo := NewMovementRepository(tx)
	lotRepo := NewLotRepository(tx)

	if err := fn(transferRepo, movRepo, lotRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
