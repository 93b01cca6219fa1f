package repository

import "github.com/jhoicas/Compras-api/internal/domain/entity"

// MaterialRequestRepository puerto de persistencia de solicitudes.
// Update usa control optimista: exige la Version leída y la incrementa;
// si otra escritura ganó, devuelve domain.ErrConflict sin mutar.
type MaterialRequestRepository interface {
	Create(r *entity.MaterialRequest) error
	// CreateBatch inserta todas las solicitudes o ninguna.
	CreateBatch(rs []*entity.MaterialRequest) error
	GetByID(id string) (*entity.MaterialRequest, error)
	Update(r *entity.MaterialRequest) error
	List(limit, offset int) ([]*entity.MaterialRequest, int, error)
	ListByRequester(requesterID string, limit, offset int) ([]*entity.MaterialRequest, int, error)
}
