package memory

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/application/fulfillment"
	"github.com/jhoicas/Compras-api/internal/application/request"
	"github.com/jhoicas/Compras-api/internal/application/sourcing"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// Garantiza que el runner (y sus vistas) implementan los puertos de cada engine.
var _ request.TxRunner = (*TxRunner)(nil)
var _ sourcing.TxRunner = sourcingTxRunner{}
var _ fulfillment.TxRunner = fulfillmentTxRunner{}

// TxRunner transacciones en memoria: toma el lock global del store,
// saca un snapshot y lo restaura si el callback falla. Serializa todas
// las transacciones (equivalente a un único writer lógico).
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run implementa request.TxRunner.
func (t *TxRunner) Run(ctx context.Context, fn func(
	requests repository.MaterialRequestRepository,
	materials repository.MaterialRepository,
) error) error {
	return t.inTx(ctx, func() error {
		return fn(
			&MaterialRequestRepo{store: t.store, tx: true},
			&MaterialRepo{store: t.store, tx: true},
		)
	})
}

// RunSourcing implementa sourcing.TxRunner vía el tipo sourcingTxRunner.
// (pgx permite un solo método Run por interfaz; en memoria exponemos
// wrappers tipados para cada engine.)
type sourcingTxRunner struct{ *TxRunner }

// Sourcing devuelve la vista sourcing.TxRunner del runner.
func (t *TxRunner) Sourcing() sourcing.TxRunner { return sourcingTxRunner{t} }

// Run implementa sourcing.TxRunner.
func (t sourcingTxRunner) Run(ctx context.Context, fn func(
	rfqs repository.QuotationRequestRepository,
	quotations repository.QuotationRepository,
	orders repository.PurchaseOrderRepository,
) error) error {
	return t.inTx(ctx, func() error {
		return fn(
			&QuotationRequestRepo{store: t.store, tx: true},
			&QuotationRepo{store: t.store, tx: true},
			&PurchaseOrderRepo{store: t.store, tx: true},
		)
	})
}

type fulfillmentTxRunner struct{ *TxRunner }

// Fulfillment devuelve la vista fulfillment.TxRunner del runner.
func (t *TxRunner) Fulfillment() fulfillment.TxRunner { return fulfillmentTxRunner{t} }

// Run implementa fulfillment.TxRunner.
func (t fulfillmentTxRunner) Run(ctx context.Context, fn func(
	orders repository.PurchaseOrderRepository,
	materials repository.MaterialRepository,
) error) error {
	return t.inTx(ctx, func() error {
		return fn(
			&PurchaseOrderRepo{store: t.store, tx: true},
			&MaterialRepo{store: t.store, tx: true},
		)
	})
}

// inTx lock global + snapshot/rollback.
func (t *TxRunner) inTx(_ context.Context, fn func() error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	snap := t.store.snapshot()
	if err := fn(); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}
