package dto

import (
	"time"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// CreateRequestInput payload de creación de solicitud de material.
type CreateRequestInput struct {
	MaterialID string `json:"materialId"`
	Quantity   int64  `json:"quantity"`
	Purpose    string `json:"purpose"`
}

// RejectRequestInput rechazo con razón obligatoria.
type RejectRequestInput struct {
	Reason string `json:"reason"`
}

// RepairRequestInput reenvío del payload editado tras un rechazo.
type RepairRequestInput struct {
	Quantity int64  `json:"quantity"`
	Purpose  string `json:"purpose"`
}

// SupplyRequestInput cantidad a suministrar (total o parcial).
type SupplyRequestInput struct {
	Quantity int64 `json:"quantity"`
}

// ReceiveRequestInput resultado de calidad reportado por el solicitante.
type ReceiveRequestInput struct {
	QualityConfirmed bool `json:"qualityConfirmed"`
}

// MaterialRequestResponse representación HTTP de una solicitud.
type MaterialRequestResponse struct {
	ID               string     `json:"id"`
	RequesterID      string     `json:"requesterId"`
	MaterialID       string     `json:"materialId"`
	Quantity         int64      `json:"quantity"`
	SuppliedQuantity int64      `json:"suppliedQuantity,omitempty"`
	Purpose          string     `json:"purpose"`
	Status           string     `json:"status"`
	Reason           string     `json:"reason,omitempty"`
	RequestDate      time.Time  `json:"requestDate"`
	ApprovalDate     *time.Time `json:"approvalDate,omitempty"`
	ReceivedDate     *time.Time `json:"receivedDate,omitempty"`
}

// FromMaterialRequest mapea la entidad a su respuesta HTTP.
func FromMaterialRequest(r *entity.MaterialRequest) *MaterialRequestResponse {
	return &MaterialRequestResponse{
		ID:               r.ID,
		RequesterID:      r.RequesterID,
		MaterialID:       r.MaterialID,
		Quantity:         r.Quantity,
		SuppliedQuantity: r.SuppliedQuantity,
		Purpose:          r.Purpose,
		Status:           string(r.Status),
		Reason:           r.Reason,
		RequestDate:      r.RequestDate,
		ApprovalDate:     r.ApprovalDate,
		ReceivedDate:     r.ReceivedDate,
	}
}

// FromMaterialRequests mapea un listado.
func FromMaterialRequests(rs []*entity.MaterialRequest) []*MaterialRequestResponse {
	out := make([]*MaterialRequestResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromMaterialRequest(r))
	}
	return out
}
