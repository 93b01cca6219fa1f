package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Compras-api/internal/application/fulfillment"
	"github.com/jhoicas/Compras-api/internal/application/request"
	"github.com/jhoicas/Compras-api/internal/application/sourcing"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// Garantiza que el runner (y sus vistas) implementan los puertos de cada engine.
var _ request.TxRunner = (*TxRunner)(nil)
var _ sourcing.TxRunner = sourcingTxRunner{}
var _ fulfillment.TxRunner = fulfillmentTxRunner{}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run implementa request.TxRunner: cambio de estado de solicitud +
// descuento de stock en una sola transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	requests repository.MaterialRequestRepository,
	materials repository.MaterialRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewMaterialRequestRepository(q), NewMaterialRepository(q))
	})
}

type sourcingTxRunner struct{ *TxRunner }

// Sourcing devuelve la vista sourcing.TxRunner del runner.
func (r *TxRunner) Sourcing() sourcing.TxRunner { return sourcingTxRunner{r} }

// Run implementa sourcing.TxRunner: aprobación de cotización + creación
// de PO (+ cierre opcional del RFQ) atómicos.
func (r sourcingTxRunner) Run(ctx context.Context, fn func(
	rfqs repository.QuotationRequestRepository,
	quotations repository.QuotationRepository,
	orders repository.PurchaseOrderRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewQuotationRequestRepository(q), NewQuotationRepository(q), NewPurchaseOrderRepository(q))
	})
}

type fulfillmentTxRunner struct{ *TxRunner }

// Fulfillment devuelve la vista fulfillment.TxRunner del runner.
func (r *TxRunner) Fulfillment() fulfillment.TxRunner { return fulfillmentTxRunner{r} }

// Run implementa fulfillment.TxRunner: cierre de la orden + abono de
// stock por línea en una sola transacción.
func (r fulfillmentTxRunner) Run(ctx context.Context, fn func(
	orders repository.PurchaseOrderRepository,
	materials repository.MaterialRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewPurchaseOrderRepository(q), NewMaterialRepository(q))
	})
}

// inTx inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
