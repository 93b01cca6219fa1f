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

var _ repository.QuotationRequestRepository = (*QuotationRequestRepo)(nil)

// QuotationRequestRepo implementación de QuotationRequestRepository sobre
// PostgreSQL. Las líneas van como JSONB (snapshot, nunca se consultan por
// columna) y los destinatarios como text[].
type QuotationRequestRepo struct {
	q Querier
}

func NewQuotationRequestRepository(q Querier) *QuotationRequestRepo {
	return &QuotationRequestRepo{q: q}
}

const rfqColumns = `id, items, due_date, supplier_ids, notes, status, created_by, version, created_at, updated_at`

// Create persiste un RFQ nuevo.
func (r *QuotationRequestRepo) Create(rfq *entity.QuotationRequest) error {
	items, err := json.Marshal(rfq.Items)
	if err != nil {
		return fmt.Errorf("marshal RFQ items: %w", err)
	}
	query := `
		INSERT INTO quotation_requests (` + rfqColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(context.Background(), query,
		rfq.ID, items, rfq.DueDate, rfq.SupplierIDs, rfq.Notes,
		rfq.Status, rfq.CreatedBy, rfq.Version, rfq.CreatedAt, rfq.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create RFQ: %w", err)
	}
	return nil
}

// GetByID obtiene un RFQ por ID.
func (r *QuotationRequestRepo) GetByID(id string) (*entity.QuotationRequest, error) {
	query := `SELECT ` + rfqColumns + ` FROM quotation_requests WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// Update escribe con control optimista por version (0 filas = ErrConflict).
func (r *QuotationRequestRepo) Update(rfq *entity.QuotationRequest) error {
	items, err := json.Marshal(rfq.Items)
	if err != nil {
		return fmt.Errorf("marshal RFQ items: %w", err)
	}
	query := `
		UPDATE quotation_requests
		SET items = $3, due_date = $4, supplier_ids = $5, notes = $6, status = $7,
		    version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(context.Background(), query,
		rfq.ID, rfq.Version,
		items, rfq.DueDate, rfq.SupplierIDs, rfq.Notes, rfq.Status,
	)
	if err != nil {
		return fmt.Errorf("update RFQ: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(rfq.ID); getErr != nil {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// List devuelve una página de RFQs y el total.
func (r *QuotationRequestRepo) List(limit, offset int) ([]*entity.QuotationRequest, int, error) {
	ctx := context.Background()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM quotation_requests`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count RFQs: %w", err)
	}
	query := `SELECT ` + rfqColumns + ` FROM quotation_requests ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list RFQs: %w", err)
	}
	out, err := r.scanAll(rows)
	return out, total, err
}

// ListBySupplier devuelve los RFQs dirigidos al proveedor dado.
func (r *QuotationRequestRepo) ListBySupplier(supplierID string, limit, offset int) ([]*entity.QuotationRequest, int, error) {
	ctx := context.Background()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM quotation_requests WHERE $1 = ANY(supplier_ids)`, supplierID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count RFQs: %w", err)
	}
	query := `SELECT ` + rfqColumns + ` FROM quotation_requests WHERE $1 = ANY(supplier_ids) ORDER BY created_at LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, supplierID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list RFQs: %w", err)
	}
	out, err := r.scanAll(rows)
	return out, total, err
}

func (r *QuotationRequestRepo) scanOne(row pgx.Row) (*entity.QuotationRequest, error) {
	var rfq entity.QuotationRequest
	var items []byte
	err := row.Scan(
		&rfq.ID, &items, &rfq.DueDate, &rfq.SupplierIDs, &rfq.Notes,
		&rfq.Status, &rfq.CreatedBy, &rfq.Version, &rfq.CreatedAt, &rfq.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan RFQ: %w", err)
	}
	if err := json.Unmarshal(items, &rfq.Items); err != nil {
		return nil, fmt.Errorf("unmarshal RFQ items: %w", err)
	}
	return &rfq, nil
}

func (r *QuotationRequestRepo) scanAll(rows pgx.Rows) ([]*entity.QuotationRequest, error) {
	defer rows.Close()
	var out []*entity.QuotationRequest
	for rows.Next() {
		var rfq entity.QuotationRequest
		var items []byte
		if err := rows.Scan(
			&rfq.ID, &items, &rfq.DueDate, &rfq.SupplierIDs, &rfq.Notes,
			&rfq.Status, &rfq.CreatedBy, &rfq.Version, &rfq.CreatedAt, &rfq.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan RFQ: %w", err)
		}
		if err := json.Unmarshal(items, &rfq.Items); err != nil {
			return nil, fmt.Errorf("unmarshal RFQ items: %w", err)
		}
		out = append(out, &rfq)
	}
	return out, rows.Err()
}
