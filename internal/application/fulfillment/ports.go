package fulfillment

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD. El paso
// a received debe actualizar la orden y abonar el stock de cada línea de
// forma todo-o-nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orders repository.PurchaseOrderRepository,
		materials repository.MaterialRepository,
	) error) error
}

// PDFGenerator genera la representación imprimible de una orden de compra.
type PDFGenerator interface {
	GeneratePurchaseOrderPDF(ctx context.Context, po PDFData) ([]byte, error)
}

// PDFData datos resueltos para el PDF (orden + descripciones de material).
type PDFData struct {
	OrderID      string
	SupplierName string
	Status       string
	Lines        []PDFLine
	TotalAmount  string
	DeliveryDate string
}

// PDFLine línea imprimible de la orden.
type PDFLine struct {
	MaximoID     string
	Description  string
	Quantity     int64
	PricePerUnit string
	TotalAmount  string
}
