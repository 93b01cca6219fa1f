package request

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el cambio de estado de la
// solicitud y el descuento de stock sean todo-o-nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		requests repository.MaterialRequestRepository,
		materials repository.MaterialRepository,
	) error) error
}
