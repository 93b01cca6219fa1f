package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// PartialDispatchInput líneas entregadas en un despacho parcial.
type PartialDispatchInput struct {
	Items []PartialItemInput `json:"items"`
}

// PartialItemInput cantidad entregada de una línea (≤ cantidad original).
type PartialItemInput struct {
	MaterialID string `json:"materialId"`
	Quantity   int64  `json:"quantity"`
}

// RejectDeliveryInput rechazo de despacho con razón obligatoria.
type RejectDeliveryInput struct {
	Reason string `json:"reason"`
}

// ChangePOStatusInput cierre de la orden: received | not received.
type ChangePOStatusInput struct {
	Status string `json:"status"`
}

// PurchaseOrderResponse representación HTTP de una orden de compra.
type PurchaseOrderResponse struct {
	ID                      string          `json:"id"`
	QuotationID             string          `json:"quotationId"`
	SupplierID              string          `json:"supplierId"`
	CreatedBy               string          `json:"createdBy"`
	Items                   []entity.POItem `json:"items"`
	PartiallyDeliveredItems []entity.POItem `json:"partiallyDeliveredItems,omitempty"`
	TotalAmount             decimal.Decimal `json:"totalAmount"`
	DeliveryDate            *time.Time      `json:"deliveryDate,omitempty"`
	ReceivedDate            *time.Time      `json:"receivedDate,omitempty"`
	RejectionReason         string          `json:"rejectionReason,omitempty"`
	Status                  string          `json:"status"`
	CreatedAt               time.Time       `json:"createdAt"`
}

// FromPurchaseOrder mapea la entidad a su respuesta HTTP.
func FromPurchaseOrder(po *entity.PurchaseOrder) *PurchaseOrderResponse {
	return &PurchaseOrderResponse{
		ID:                      po.ID,
		QuotationID:             po.QuotationID,
		SupplierID:              po.SupplierID,
		CreatedBy:               po.CreatedBy,
		Items:                   po.Items,
		PartiallyDeliveredItems: po.PartiallyDeliveredItems,
		TotalAmount:             po.TotalAmount,
		DeliveryDate:            po.DeliveryDate,
		ReceivedDate:            po.ReceivedDate,
		RejectionReason:         po.RejectionReason,
		Status:                  string(po.Status),
		CreatedAt:               po.CreatedAt,
	}
}

// FromPurchaseOrders mapea un listado.
func FromPurchaseOrders(pos []*entity.PurchaseOrder) []*PurchaseOrderResponse {
	out := make([]*PurchaseOrderResponse, 0, len(pos))
	for _, po := range pos {
		out = append(out, FromPurchaseOrder(po))
	}
	return out
}
