package sourcing

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD. La
// aprobación de una cotización y la creación de su orden de compra
// (más el cierre opcional del RFQ) deben ser atómicas: ambas o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		rfqs repository.QuotationRequestRepository,
		quotations repository.QuotationRepository,
		orders repository.PurchaseOrderRepository,
	) error) error
}

// Config políticas del engine de sourcing. El comportamiento de cierre
// del RFQ es deliberadamente configurable: el sistema original era
// ambiguo al respecto.
type Config struct {
	// AutoCloseOnApproval cierra el RFQ en la misma transacción en la
	// que se aprueba una de sus cotizaciones.
	AutoCloseOnApproval bool
	// CloseOnAllRejected cierra el RFQ cuando la última cotización
	// pendiente queda rechazada.
	CloseOnAllRejected bool
}
