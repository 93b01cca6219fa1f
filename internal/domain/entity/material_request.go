package entity

import "time"

// RequestStatus estado de una solicitud de material. Enum cerrado:
// cualquier transición fuera de la tabla es rechazada con ErrInvalidState.
type RequestStatus string

const (
	RequestPendingApproval   RequestStatus = "pending approval"
	RequestApproved          RequestStatus = "approved"
	RequestRejected          RequestStatus = "rejected"
	RequestSupplied          RequestStatus = "supplied"
	RequestPartiallySupplied RequestStatus = "partially supplied"
	RequestReceivedConfirmed RequestStatus = "received - confirmed quality"
	RequestReceivedRejected  RequestStatus = "received - rejected quality"
)

// requestTransitions tabla de transiciones legales de la solicitud.
// El camino de reparación (rejected -> pending approval) reenvía el
// payload editado por el departamento dueño.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPendingApproval:   {RequestApproved, RequestRejected},
	RequestApproved:          {RequestSupplied, RequestPartiallySupplied},
	RequestRejected:          {RequestPendingApproval},
	RequestSupplied:          {RequestReceivedConfirmed, RequestReceivedRejected},
	RequestPartiallySupplied: {RequestReceivedConfirmed, RequestReceivedRejected},
	RequestReceivedConfirmed: {},
	RequestReceivedRejected:  {},
}

// CanTransition indica si el paso from -> to está en la tabla.
func (s RequestStatus) CanTransition(to RequestStatus) bool {
	for _, next := range requestTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// MaterialRequest solicitud de material de un departamento.
// Version implementa el control optimista de escritura única por entidad.
type MaterialRequest struct {
	ID               string
	RequesterID      string
	MaterialID       string
	Quantity         int64 // > 0
	SuppliedQuantity int64 // fijada en supply (parcial o total)
	Purpose          string
	Status           RequestStatus
	Reason           string // solo poblada cuando está rechazada
	RequestDate      time.Time
	ApprovalDate     *time.Time
	ReceivedDate     *time.Time
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Owner indica si userID es el solicitante (las acciones repair/receive
// solo las ejecuta el dueño).
func (r *MaterialRequest) Owner(userID string) bool {
	return r.RequesterID == userID
}
