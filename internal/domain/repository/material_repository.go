package repository

import "github.com/jhoicas/Compras-api/internal/domain/entity"

// MaterialRepository puerto de persistencia del maestro de materiales.
// AdjustStock es un read-modify-write atómico (compare-and-set sobre
// current_stock): si el resultado fuera negativo devuelve
// domain.ErrInsufficientStock sin mutar nada.
type MaterialRepository interface {
	Create(m *entity.Material) error
	// CreateBatch inserta todas las filas o ninguna.
	CreateBatch(ms []*entity.Material) error
	GetByID(id string) (*entity.Material, error)
	GetByMaximoID(maximoID string) (*entity.Material, error)
	// Update persiste metadatos (descripción, unit, itemType, umbral).
	// No toca CurrentStock; para eso está AdjustStock.
	Update(m *entity.Material) error
	// AdjustStock aplica delta (positivo o negativo) de forma atómica y
	// devuelve el material actualizado con LowStock recalculado.
	AdjustStock(id string, delta int64) (*entity.Material, error)
	List(limit, offset int) ([]*entity.Material, int, error)
}
