// Package event define los eventos de dominio que emiten los engines y
// el puerto Sink hacia el colaborador de notificaciones. La entrega es
// responsabilidad del adaptador; el core solo publica.
package event

import (
	"time"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// Type tipo de evento de dominio.
type Type string

const (
	RequestCreated   Type = "request.created"
	RequestApproved  Type = "request.approved"
	RequestRejected  Type = "request.rejected"
	RequestRepaired  Type = "request.repaired"
	RequestSupplied  Type = "request.supplied"
	RequestReceived  Type = "request.received"
	RFQCreated       Type = "rfq.created"
	RFQClosed        Type = "rfq.closed"
	QuotationSubmitted Type = "quotation.submitted"
	QuotationApproved  Type = "quotation.approved"
	QuotationRejected  Type = "quotation.rejected"
	POCreated          Type = "po.created"
	PODispatched       Type = "po.dispatched"
	POPartialDispatch  Type = "po.partially_dispatched"
	PODeliveryRejected Type = "po.delivery_rejected"
	POReceived         Type = "po.received"
	PONotReceived      Type = "po.not_received"
	MaterialLowStock   Type = "material.low_stock"
)

// Event evento de dominio con la entidad afectada y el actor que disparó
// la transición.
type Event struct {
	Type       Type
	EntityID   string
	ActorID    string
	OccurredAt time.Time
	Data       map[string]any
}

// Sink puerto de publicación. Las implementaciones no deben bloquear a
// los engines ni propagar errores de entrega.
type Sink interface {
	Publish(e Event)
}

// New construye un evento con timestamp actual.
func New(t Type, entityID, actorID string, data map[string]any) Event {
	return Event{Type: t, EntityID: entityID, ActorID: actorID, OccurredAt: time.Now(), Data: data}
}

// LowStockCrossed arma el evento material.low_stock solo cuando el
// ajuste por delta cruzó el umbral hacia abajo: antes no estaba bajo y
// ahora sí. El estado previo se reconstruye del resultado del ajuste
// (stock - delta), sin lecturas extra. Lo comparten el ajuste manual y
// el descuento por suministro.
func LowStockCrossed(m *entity.Material, delta int64, actorID string) (Event, bool) {
	wasLow := m.CurrentStock-delta < m.LowStockValue
	if !m.LowStock || wasLow {
		return Event{}, false
	}
	return New(MaterialLowStock, m.ID, actorID, map[string]any{
		"maximoId":     m.MaximoID,
		"currentStock": m.CurrentStock,
		"threshold":    m.LowStockValue,
	}), true
}

// NopSink descarta todos los eventos (wiring sin notificaciones).
type NopSink struct{}

// Publish descarta el evento.
func (NopSink) Publish(Event) {}
