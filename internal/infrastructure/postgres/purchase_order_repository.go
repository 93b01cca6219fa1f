package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
// Líneas originales y parciales como JSONB; total_amount como NUMERIC
// (codec shopspring registrado en el pool).
type PurchaseOrderRepo struct {
	q Querier
}

func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poColumns = `id, quotation_id, supplier_id, created_by, items, partially_delivered_items, total_amount, delivery_date, received_date, rejection_reason, status, version, created_at, updated_at`

// Create persiste una orden nueva (generada al aprobar una cotización).
func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	items, err := json.Marshal(po.Items)
	if err != nil {
		return fmt.Errorf("marshal PO items: %w", err)
	}
	partials, err := json.Marshal(po.PartiallyDeliveredItems)
	if err != nil {
		return fmt.Errorf("marshal PO partial items: %w", err)
	}
	query := `
		INSERT INTO purchase_orders (` + poColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.q.Exec(context.Background(), query,
		po.ID, po.QuotationID, po.SupplierID, po.CreatedBy, items, partials,
		po.TotalAmount, po.DeliveryDate, po.ReceivedDate, po.RejectionReason,
		po.Status, po.Version, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create purchase order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// Update escribe con control optimista por version. QuotationID y
// SupplierID son inmutables, no entran al SET.
func (r *PurchaseOrderRepo) Update(po *entity.PurchaseOrder) error {
	items, err := json.Marshal(po.Items)
	if err != nil {
		return fmt.Errorf("marshal PO items: %w", err)
	}
	partials, err := json.Marshal(po.PartiallyDeliveredItems)
	if err != nil {
		return fmt.Errorf("marshal PO partial items: %w", err)
	}
	query := `
		UPDATE purchase_orders
		SET items = $3, partially_delivered_items = $4, total_amount = $5,
		    delivery_date = $6, received_date = $7, rejection_reason = $8,
		    status = $9, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(context.Background(), query,
		po.ID, po.Version,
		items, partials, po.TotalAmount,
		po.DeliveryDate, po.ReceivedDate, po.RejectionReason, po.Status,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(po.ID); getErr != nil {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// List devuelve una página de órdenes y el total.
func (r *PurchaseOrderRepo) List(limit, offset int) ([]*entity.PurchaseOrder, int, error) {
	ctx := context.Background()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM purchase_orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchase orders: %w", err)
	}
	query := `SELECT ` + poColumns + ` FROM purchase_orders ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchase orders: %w", err)
	}
	out, err := r.scanAll(rows)
	return out, total, err
}

// ListBySupplier devuelve las órdenes de un proveedor.
func (r *PurchaseOrderRepo) ListBySupplier(supplierID string, limit, offset int) ([]*entity.PurchaseOrder, int, error) {
	ctx := context.Background()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM purchase_orders WHERE supplier_id = $1`, supplierID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchase orders: %w", err)
	}
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE supplier_id = $1 ORDER BY created_at LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, supplierID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchase orders: %w", err)
	}
	out, err := r.scanAll(rows)
	return out, total, err
}

func (r *PurchaseOrderRepo) scanOne(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var items, partials []byte
	err := row.Scan(
		&po.ID, &po.QuotationID, &po.SupplierID, &po.CreatedBy, &items, &partials,
		&po.TotalAmount, &po.DeliveryDate, &po.ReceivedDate, &po.RejectionReason,
		&po.Status, &po.Version, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan purchase order: %w", err)
	}
	if err := unmarshalPOItems(items, partials, &po); err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PurchaseOrderRepo) scanAll(rows pgx.Rows) ([]*entity.PurchaseOrder, error) {
	defer rows.Close()
	var out []*entity.PurchaseOrder
	for rows.Next() {
		var po entity.PurchaseOrder
		var items, partials []byte
		if err := rows.Scan(
			&po.ID, &po.QuotationID, &po.SupplierID, &po.CreatedBy, &items, &partials,
			&po.TotalAmount, &po.DeliveryDate, &po.ReceivedDate, &po.RejectionReason,
			&po.Status, &po.Version, &po.CreatedAt, &po.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		if err := unmarshalPOItems(items, partials, &po); err != nil {
			return nil, err
		}
		out = append(out, &po)
	}
	return out, rows.Err()
}

func unmarshalPOItems(items, partials []byte, po *entity.PurchaseOrder) error {
	if err := json.Unmarshal(items, &po.Items); err != nil {
		return fmt.Errorf("unmarshal PO items: %w", err)
	}
	if len(partials) > 0 {
		if err := json.Unmarshal(partials, &po.PartiallyDeliveredItems); err != nil {
			return fmt.Errorf("unmarshal PO partial items: %w", err)
		}
	}
	return nil
}
