package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// POStatus estado de una orden de compra.
type POStatus string

const (
	POPending             POStatus = "pending"
	PODispatched          POStatus = "dispatched"
	POPartiallyDispatched POStatus = "partially dispatched"
	PODispatchRejected    POStatus = "dispatching rejected"
	POReceived            POStatus = "received"
	PONotReceived         POStatus = "not received"
)

// poTransitions tabla de transiciones legales de la orden de compra.
var poTransitions = map[POStatus][]POStatus{
	POPending:             {PODispatched, POPartiallyDispatched, PODispatchRejected},
	PODispatched:          {POReceived, PONotReceived},
	POPartiallyDispatched: {POReceived, PONotReceived},
	PODispatchRejected:    {},
	POReceived:            {},
	PONotReceived:         {},
}

// CanTransition indica si el paso from -> to está en la tabla.
func (s POStatus) CanTransition(to POStatus) bool {
	for _, next := range poTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// POItem línea de la orden. TotalAmount = Quantity × PricePerUnit.
type POItem struct {
	MaterialID   string          `json:"materialId"`
	Quantity     int64           `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// PurchaseOrder orden creada automáticamente al aprobar una cotización.
// Las referencias (QuotationID, SupplierID) son inmutables tras la
// creación; solo status y campos derivados cambian.
// Invariantes:
//   - cada PartiallyDeliveredItems[i].Quantity <= la línea original
//   - TotalAmount = suma de los totales de las líneas activas
//     (las parciales si hubo despacho parcial, las originales si no)
type PurchaseOrder struct {
	ID                      string
	QuotationID             string
	SupplierID              string
	CreatedBy               string
	Items                   []POItem
	PartiallyDeliveredItems []POItem
	TotalAmount             decimal.Decimal
	DeliveryDate            *time.Time
	ReceivedDate            *time.Time
	RejectionReason         string
	Status                  POStatus
	Version                 int64
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// ItemFor devuelve la línea original para un material, o nil.
func (po *PurchaseOrder) ItemFor(materialID string) *POItem {
	for i := range po.Items {
		if po.Items[i].MaterialID == materialID {
			return &po.Items[i]
		}
	}
	return nil
}

// ActiveItems devuelve las líneas que cuentan para el estado de entrega
// vigente: las parciales si hubo despacho parcial, si no las originales.
// Las parciales mandan también después del cierre (received/not
// received); el despacho parcial es el único que las escribe.
func (po *PurchaseOrder) ActiveItems() []POItem {
	if len(po.PartiallyDeliveredItems) > 0 {
		return po.PartiallyDeliveredItems
	}
	return po.Items
}

// SumTotals suma los TotalAmount de un set de líneas.
func SumTotals(items []POItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalAmount)
	}
	return total
}
