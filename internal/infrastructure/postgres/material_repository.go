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

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL
// (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialColumns = `id, maximo_id, description, unit, item_type, initial_stock, current_stock, low_stock_value, low_stock, created_at, updated_at`

// Create persiste un material nuevo. MaximoID con constraint único.
func (r *MaterialRepo) Create(m *entity.Material) error {
	query := `
		INSERT INTO materials (` + materialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.MaximoID, m.Description, m.Unit, m.ItemType,
		m.InitialStock, m.CurrentStock, m.LowStockValue, m.LowStock,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

// CreateBatch inserta el lote en una sola sentencia multi-fila: entran
// todas las filas o ninguna, también sobre el pool sin tx explícita.
func (r *MaterialRepo) CreateBatch(ms []*entity.Material) error {
	if len(ms) == 0 {
		return nil
	}
	args := make([]any, 0, len(ms)*11)
	for _, m := range ms {
		args = append(args,
			m.ID, m.MaximoID, m.Description, m.Unit, m.ItemType,
			m.InitialStock, m.CurrentStock, m.LowStockValue, m.LowStock,
			m.CreatedAt, m.UpdatedAt,
		)
	}
	query := `INSERT INTO materials (` + materialColumns + `) VALUES ` + valuesPlaceholders(len(ms), 11)
	if _, err := r.q.Exec(context.Background(), query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create materials batch: %w", err)
	}
	return nil
}

// GetByID obtiene un material por ID.
func (r *MaterialRepo) GetByID(id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByMaximoID obtiene un material por su código externo.
func (r *MaterialRepo) GetByMaximoID(maximoID string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE maximo_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, maximoID))
}

// Update persiste metadatos; el stock solo cambia vía AdjustStock.
func (r *MaterialRepo) Update(m *entity.Material) error {
	query := `
		UPDATE materials
		SET description = $2, unit = $3, item_type = $4, low_stock_value = $5,
		    low_stock = current_stock < $5, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		m.ID, m.Description, m.Unit, m.ItemType, m.LowStockValue,
	)
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock compare-and-set: el UPDATE solo aplica si el resultado no
// es negativo, así dos ajustes concurrentes nunca dejan stock < 0.
func (r *MaterialRepo) AdjustStock(id string, delta int64) (*entity.Material, error) {
	query := `
		UPDATE materials
		SET current_stock = current_stock + $2,
		    low_stock = (current_stock + $2) < low_stock_value,
		    updated_at = now()
		WHERE id = $1 AND current_stock + $2 >= 0
		RETURNING ` + materialColumns
	m, err := r.scanOne(r.q.QueryRow(context.Background(), query, id, delta))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Distinguir inexistente de stock insuficiente.
			if _, getErr := r.GetByID(id); getErr != nil {
				return nil, domain.ErrNotFound
			}
			return nil, domain.ErrInsufficientStock
		}
		return nil, err
	}
	return m, nil
}

// List devuelve una página del maestro y el total.
func (r *MaterialRepo) List(limit, offset int) ([]*entity.Material, int, error) {
	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM materials`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count materials: %w", err)
	}
	query := `SELECT ` + materialColumns + ` FROM materials ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var out []*entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(
			&m.ID, &m.MaximoID, &m.Description, &m.Unit, &m.ItemType,
			&m.InitialStock, &m.CurrentStock, &m.LowStockValue, &m.LowStock,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, &m)
	}
	return out, total, rows.Err()
}

func (r *MaterialRepo) scanOne(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(
		&m.ID, &m.MaximoID, &m.Description, &m.Unit, &m.ItemType,
		&m.InitialStock, &m.CurrentStock, &m.LowStockValue, &m.LowStock,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan material: %w", err)
	}
	return &m, nil
}
