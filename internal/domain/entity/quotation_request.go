package entity

import "time"

// RFQStatus estado de una solicitud de cotización (RFQ).
type RFQStatus string

const (
	RFQOpen   RFQStatus = "open"
	RFQClosed RFQStatus = "closed"
)

// RFQItem línea de un RFQ. Lleva un snapshot de maximoId/description/unit
// para que el proveedor cotice sin acceso al maestro de materiales.
type RFQItem struct {
	MaterialID  string `json:"materialId"`
	MaximoID    string `json:"maximoId"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Quantity    int64  `json:"quantity"` // > 0
}

// QuotationRequest (RFQ) llamado a ofertas sobre un conjunto de líneas de
// material, dirigido a un set no vacío de proveedores. Un RFQ vencido sin
// cotizaciones queda open: la expiración no la maneja el core.
type QuotationRequest struct {
	ID          string
	Items       []RFQItem
	DueDate     time.Time
	SupplierIDs []string
	Notes       string
	Status      RFQStatus
	CreatedBy   string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AddressedTo indica si el RFQ está dirigido al proveedor dado.
func (q *QuotationRequest) AddressedTo(supplierID string) bool {
	for _, id := range q.SupplierIDs {
		if id == supplierID {
			return true
		}
	}
	return false
}

// ItemFor devuelve la línea del RFQ para un material, o nil si el
// material no forma parte del RFQ.
func (q *QuotationRequest) ItemFor(materialID string) *RFQItem {
	for i := range q.Items {
		if q.Items[i].MaterialID == materialID {
			return &q.Items[i]
		}
	}
	return nil
}
