package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// CreateRFQInput payload de creación de un RFQ.
type CreateRFQInput struct {
	Items       []RFQItemInput `json:"items"`
	DueDate     time.Time      `json:"dueDate"`
	SupplierIDs []string       `json:"supplierIds"`
	Notes       string         `json:"notes"`
}

// RFQItemInput línea solicitada (material + cantidad).
type RFQItemInput struct {
	MaterialID string `json:"materialId"`
	Quantity   int64  `json:"quantity"`
}

// SubmitQuotationInput oferta de un proveedor contra un RFQ. El
// totalPrice por línea se recalcula server-side.
type SubmitQuotationInput struct {
	Items []QuotationItemInput `json:"items"`
}

// QuotationItemInput línea cotizada por el proveedor.
type QuotationItemInput struct {
	MaterialID   string          `json:"materialId"`
	Quantity     int64           `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
}

// ApproveQuotationInput metadatos de aprobación.
type ApproveQuotationInput struct {
	ExpectedDeliveryDate time.Time `json:"expectedDeliveryDate"`
	PaymentTerms         string    `json:"paymentTerms"`
}

// RejectQuotationInput rechazo con razón obligatoria.
type RejectQuotationInput struct {
	Reason string `json:"reason"`
}

// RFQResponse representación HTTP de un RFQ.
type RFQResponse struct {
	ID          string           `json:"id"`
	Items       []entity.RFQItem `json:"items"`
	DueDate     time.Time        `json:"dueDate"`
	SupplierIDs []string         `json:"supplierIds"`
	Notes       string           `json:"notes,omitempty"`
	Status      string           `json:"status"`
	CreatedBy   string           `json:"createdBy"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// FromRFQ mapea la entidad a su respuesta HTTP.
func FromRFQ(q *entity.QuotationRequest) *RFQResponse {
	return &RFQResponse{
		ID:          q.ID,
		Items:       q.Items,
		DueDate:     q.DueDate,
		SupplierIDs: q.SupplierIDs,
		Notes:       q.Notes,
		Status:      string(q.Status),
		CreatedBy:   q.CreatedBy,
		CreatedAt:   q.CreatedAt,
	}
}

// FromRFQs mapea un listado.
func FromRFQs(qs []*entity.QuotationRequest) []*RFQResponse {
	out := make([]*RFQResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, FromRFQ(q))
	}
	return out
}

// QuotationResponse representación HTTP de una cotización.
type QuotationResponse struct {
	ID                   string                 `json:"id"`
	QuotationRequestID   string                 `json:"quotationRequestId"`
	SupplierID           string                 `json:"supplierId"`
	Items                []entity.QuotationItem `json:"items"`
	Total                decimal.Decimal        `json:"total"`
	Status               string                 `json:"status"`
	RejectionReason      string                 `json:"rejectionReason,omitempty"`
	ExpectedDeliveryDate *time.Time             `json:"expectedDeliveryDate,omitempty"`
	PaymentTerms         string                 `json:"paymentTerms,omitempty"`
	CreatedAt            time.Time              `json:"createdAt"`
}

// FromQuotation mapea la entidad a su respuesta HTTP.
func FromQuotation(q *entity.Quotation) *QuotationResponse {
	return &QuotationResponse{
		ID:                   q.ID,
		QuotationRequestID:   q.QuotationRequestID,
		SupplierID:           q.SupplierID,
		Items:                q.Items,
		Total:                q.Total(),
		Status:               string(q.Status),
		RejectionReason:      q.RejectionReason,
		ExpectedDeliveryDate: q.ExpectedDeliveryDate,
		PaymentTerms:         q.PaymentTerms,
		CreatedAt:            q.CreatedAt,
	}
}

// FromQuotations mapea un listado.
func FromQuotations(qs []*entity.Quotation) []*QuotationResponse {
	out := make([]*QuotationResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, FromQuotation(q))
	}
	return out
}
