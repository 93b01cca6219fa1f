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

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRepo implementación de QuotationRepository sobre PostgreSQL.
// Constraint único (quotation_request_id, supplier_id): una cotización
// por proveedor por RFQ.
type QuotationRepo struct {
	q Querier
}

func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

const quotationColumns = `id, quotation_request_id, supplier_id, items, status, rejection_reason, expected_delivery_date, payment_terms, version, created_at, updated_at`

// Create persiste una cotización nueva.
func (r *QuotationRepo) Create(q *entity.Quotation) error {
	items, err := json.Marshal(q.Items)
	if err != nil {
		return fmt.Errorf("marshal quotation items: %w", err)
	}
	query := `
		INSERT INTO quotations (` + quotationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.q.Exec(context.Background(), query,
		q.ID, q.QuotationRequestID, q.SupplierID, items, q.Status,
		q.RejectionReason, q.ExpectedDeliveryDate, q.PaymentTerms,
		q.Version, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create quotation: %w", err)
	}
	return nil
}

// GetByID obtiene una cotización por ID.
func (r *QuotationRepo) GetByID(id string) (*entity.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// Update escribe con control optimista por version (0 filas = ErrConflict).
func (r *QuotationRepo) Update(q *entity.Quotation) error {
	items, err := json.Marshal(q.Items)
	if err != nil {
		return fmt.Errorf("marshal quotation items: %w", err)
	}
	query := `
		UPDATE quotations
		SET items = $3, status = $4, rejection_reason = $5,
		    expected_delivery_date = $6, payment_terms = $7,
		    version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(context.Background(), query,
		q.ID, q.Version,
		items, q.Status, q.RejectionReason, q.ExpectedDeliveryDate, q.PaymentTerms,
	)
	if err != nil {
		return fmt.Errorf("update quotation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(q.ID); getErr != nil {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// ListByRequest devuelve todas las cotizaciones de un RFQ.
func (r *QuotationRepo) ListByRequest(quotationRequestID string) ([]*entity.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE quotation_request_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, quotationRequestID)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	return r.scanAll(rows)
}

// ListBySupplier devuelve las cotizaciones de un proveedor.
func (r *QuotationRepo) ListBySupplier(supplierID string, limit, offset int) ([]*entity.Quotation, int, error) {
	ctx := context.Background()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM quotations WHERE supplier_id = $1`, supplierID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotations: %w", err)
	}
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE supplier_id = $1 ORDER BY created_at LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, supplierID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotations: %w", err)
	}
	out, err := r.scanAll(rows)
	return out, total, err
}

func (r *QuotationRepo) scanOne(row pgx.Row) (*entity.Quotation, error) {
	var q entity.Quotation
	var items []byte
	err := row.Scan(
		&q.ID, &q.QuotationRequestID, &q.SupplierID, &items, &q.Status,
		&q.RejectionReason, &q.ExpectedDeliveryDate, &q.PaymentTerms,
		&q.Version, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan quotation: %w", err)
	}
	if err := json.Unmarshal(items, &q.Items); err != nil {
		return nil, fmt.Errorf("unmarshal quotation items: %w", err)
	}
	return &q, nil
}

func (r *QuotationRepo) scanAll(rows pgx.Rows) ([]*entity.Quotation, error) {
	defer rows.Close()
	var out []*entity.Quotation
	for rows.Next() {
		var q entity.Quotation
		var items []byte
		if err := rows.Scan(
			&q.ID, &q.QuotationRequestID, &q.SupplierID, &items, &q.Status,
			&q.RejectionReason, &q.ExpectedDeliveryDate, &q.PaymentTerms,
			&q.Version, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		if err := json.Unmarshal(items, &q.Items); err != nil {
			return nil, fmt.Errorf("unmarshal quotation items: %w", err)
		}
		out = append(out, &q)
	}
	return out, rows.Err()
}
