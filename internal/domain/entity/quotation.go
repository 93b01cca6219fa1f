package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotationStatus estado de una cotización de proveedor.
type QuotationStatus string

const (
	QuotationPending  QuotationStatus = "pending"
	QuotationApproved QuotationStatus = "approved"
	QuotationRejected QuotationStatus = "rejected"
)

// QuotationItem línea cotizada. Invariante: TotalPrice = Quantity × PricePerUnit
// (se recalcula server-side, nunca se confía en el valor del cliente).
type QuotationItem struct {
	MaterialID   string          `json:"materialId"`
	Quantity     int64           `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"` // >= 0
	TotalPrice   decimal.Decimal `json:"totalPrice"`
}

// Quotation oferta de un proveedor contra un RFQ. Como máximo una
// cotización por RFQ alcanza approved; las hermanas quedan consultables
// pero no re-aprobables.
type Quotation struct {
	ID                 string
	QuotationRequestID string
	SupplierID         string
	Items              []QuotationItem
	Status             QuotationStatus
	RejectionReason    string
	// Metadatos de aprobación, fijados solo al aprobar.
	ExpectedDeliveryDate *time.Time
	PaymentTerms         string
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Total suma de los TotalPrice de todas las líneas.
func (q *Quotation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range q.Items {
		total = total.Add(it.TotalPrice)
	}
	return total
}
