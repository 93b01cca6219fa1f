package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.MaterialRequestRepository = (*MaterialRequestRepo)(nil)

// MaterialRequestRepo implementación de MaterialRequestRepository sobre PostgreSQL.
type MaterialRequestRepo struct {
	q Querier
}

func NewMaterialRequestRepository(q Querier) *MaterialRequestRepo {
	return &MaterialRequestRepo{q: q}
}

const requestColumns = `id, requester_id, material_id, quantity, supplied_quantity, purpose, status, reason, request_date, approval_date, received_date, version, created_at, updated_at`

// Create persiste una solicitud nueva.
func (r *MaterialRequestRepo) Create(req *entity.MaterialRequest) error {
	query := `
		INSERT INTO material_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.RequesterID, req.MaterialID, req.Quantity, req.SuppliedQuantity,
		req.Purpose, req.Status, req.Reason, req.RequestDate,
		req.ApprovalDate, req.ReceivedDate, req.Version, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create material request: %w", err)
	}
	return nil
}

// CreateBatch inserta el lote en una sola sentencia multi-fila: entran
// todas las solicitudes o ninguna, también sobre el pool sin tx explícita.
func (r *MaterialRequestRepo) CreateBatch(rs []*entity.MaterialRequest) error {
	if len(rs) == 0 {
		return nil
	}
	args := make([]any, 0, len(rs)*14)
	for _, req := range rs {
		args = append(args,
			req.ID, req.RequesterID, req.MaterialID, req.Quantity, req.SuppliedQuantity,
			req.Purpose, req.Status, req.Reason, req.RequestDate,
			req.ApprovalDate, req.ReceivedDate, req.Version, req.CreatedAt, req.UpdatedAt,
		)
	}
	query := `INSERT INTO material_requests (` + requestColumns + `) VALUES ` + valuesPlaceholders(len(rs), 14)
	if _, err := r.q.Exec(context.Background(), query, args...); err != nil {
		return fmt.Errorf("create material requests batch: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *MaterialRequestRepo) GetByID(id string) (*entity.MaterialRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM material_requests WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// Update escribe con control optimista: el WHERE exige la version leída
// y el SET la incrementa. Cero filas afectadas = otra escritura ganó.
func (r *MaterialRequestRepo) Update(req *entity.MaterialRequest) error {
	query := `
		UPDATE material_requests
		SET quantity = $3, supplied_quantity = $4, purpose = $5, status = $6,
		    reason = $7, approval_date = $8, received_date = $9,
		    version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(context.Background(), query,
		req.ID, req.Version,
		req.Quantity, req.SuppliedQuantity, req.Purpose, req.Status,
		req.Reason, req.ApprovalDate, req.ReceivedDate,
	)
	if err != nil {
		return fmt.Errorf("update material request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(req.ID); getErr != nil {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// List devuelve una página de solicitudes y el total.
func (r *MaterialRequestRepo) List(limit, offset int) ([]*entity.MaterialRequest, int, error) {
	ctx := context.Background()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM material_requests`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count material requests: %w", err)
	}
	query := `SELECT ` + requestColumns + ` FROM material_requests ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list material requests: %w", err)
	}
	out, err := r.scanAll(rows)
	return out, total, err
}

// ListByRequester devuelve las solicitudes del solicitante dado.
func (r *MaterialRequestRepo) ListByRequester(requesterID string, limit, offset int) ([]*entity.MaterialRequest, int, error) {
	ctx := context.Background()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM material_requests WHERE requester_id = $1`, requesterID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count material requests: %w", err)
	}
	query := `SELECT ` + requestColumns + ` FROM material_requests WHERE requester_id = $1 ORDER BY created_at LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, requesterID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list material requests: %w", err)
	}
	out, err := r.scanAll(rows)
	return out, total, err
}

func (r *MaterialRequestRepo) scanAll(rows pgx.Rows) ([]*entity.MaterialRequest, error) {
	defer rows.Close()
	var out []*entity.MaterialRequest
	for rows.Next() {
		var req entity.MaterialRequest
		if err := rows.Scan(
			&req.ID, &req.RequesterID, &req.MaterialID, &req.Quantity, &req.SuppliedQuantity,
			&req.Purpose, &req.Status, &req.Reason, &req.RequestDate,
			&req.ApprovalDate, &req.ReceivedDate, &req.Version, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan material request: %w", err)
		}
		out = append(out, &req)
	}
	return out, rows.Err()
}

func (r *MaterialRequestRepo) scanOne(row pgx.Row) (*entity.MaterialRequest, error) {
	var req entity.MaterialRequest
	err := row.Scan(
		&req.ID, &req.RequesterID, &req.MaterialID, &req.Quantity, &req.SuppliedQuantity,
		&req.Purpose, &req.Status, &req.Reason, &req.RequestDate,
		&req.ApprovalDate, &req.ReceivedDate, &req.Version, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan material request: %w", err)
	}
	return &req, nil
}
