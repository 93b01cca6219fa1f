// Package request implementa el RequestEngine: ciclo de vida de la
// solicitud de material (pending approval -> approved -> supplied ->
// received, con rama de rechazo/reparación). Toda transición consulta
// la AccessPolicy y la tabla de transiciones antes de mutar.
package request

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/authz"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/event"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// UseCase casos de uso del ciclo de vida de solicitudes.
type UseCase struct {
	txRunner  TxRunner
	requests  repository.MaterialRequestRepository
	materials repository.MaterialRepository
	events    event.Sink
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	requests repository.MaterialRequestRepository,
	materials repository.MaterialRepository,
	events event.Sink,
) *UseCase {
	return &UseCase{txRunner: txRunner, requests: requests, materials: materials, events: events}
}

// Create crea una solicitud en pending approval. Solo department.
func (uc *UseCase) Create(actor authz.Actor, in dto.CreateRequestInput) (*entity.MaterialRequest, error) {
	if !authz.Allowed(actor.Role, authz.ActionCreateRequest) {
		return nil, domain.ErrForbidden
	}
	if reason := uc.validateCreateInput(in); reason != "" {
		return nil, domain.ErrInvalidInput
	}
	r := newRequest(actor.UserID, in)
	if err := uc.requests.Create(r); err != nil {
		return nil, err
	}
	uc.events.Publish(event.New(event.RequestCreated, r.ID, actor.UserID, map[string]any{
		"materialId": r.MaterialID, "quantity": r.Quantity,
	}))
	return r, nil
}

// BulkCreate alta masiva todo-o-nada: cada fila se valida de forma
// independiente y cualquier fila inválida aborta el lote completo con
// BatchError (índice + motivo).
func (uc *UseCase) BulkCreate(actor authz.Actor, rows []dto.CreateRequestInput) ([]*entity.MaterialRequest, error) {
	if !authz.Allowed(actor.Role, authz.ActionCreateRequest) {
		return nil, domain.ErrForbidden
	}
	if len(rows) == 0 {
		return nil, domain.ErrInvalidInput
	}
	batchErr := &domain.BatchError{}
	rs := make([]*entity.MaterialRequest, 0, len(rows))
	for i, row := range rows {
		if reason := uc.validateCreateInput(row); reason != "" {
			batchErr.Add(i, reason)
			continue
		}
		rs = append(rs, newRequest(actor.UserID, row))
	}
	if batchErr.HasErrors() {
		return nil, batchErr
	}
	if err := uc.requests.CreateBatch(rs); err != nil {
		return nil, err
	}
	for _, r := range rs {
		uc.events.Publish(event.New(event.RequestCreated, r.ID, actor.UserID, map[string]any{
			"materialId": r.MaterialID, "quantity": r.Quantity,
		}))
	}
	return rs, nil
}

// Approve aprueba una solicitud pendiente. Solo purchasing/admin.
func (uc *UseCase) Approve(actor authz.Actor, id string) (*entity.MaterialRequest, error) {
	if !authz.Allowed(actor.Role, authz.ActionApproveRequest) {
		return nil, domain.ErrForbidden
	}
	r, err := uc.requests.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !r.Status.CanTransition(entity.RequestApproved) {
		return nil, domain.ErrInvalidState
	}
	now := time.Now()
	r.Status = entity.RequestApproved
	r.ApprovalDate = &now
	if err := uc.requests.Update(r); err != nil {
		return nil, err
	}
	uc.events.Publish(event.New(event.RequestApproved, r.ID, actor.UserID, nil))
	return r, nil
}

// Reject rechaza una solicitud pendiente; la razón es obligatoria.
func (uc *UseCase) Reject(actor authz.Actor, id string, in dto.RejectRequestInput) (*entity.MaterialRequest, error) {
	if !authz.Allowed(actor.Role, authz.ActionRejectRequest) {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrInvalidInput
	}
	r, err := uc.requests.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !r.Status.CanTransition(entity.RequestRejected) {
		return nil, domain.ErrInvalidState
	}
	r.Status = entity.RequestRejected
	r.Reason = strings.TrimSpace(in.Reason)
	if err := uc.requests.Update(r); err != nil {
		return nil, err
	}
	uc.events.Publish(event.New(event.RequestRejected, r.ID, actor.UserID, map[string]any{"reason": r.Reason}))
	return r, nil
}

// Repair reenvía una solicitud rechazada con el payload editado. Solo el
// departamento dueño; limpia la razón de rechazo y vuelve a pending.
func (uc *UseCase) Repair(actor authz.Actor, id string, in dto.RepairRequestInput) (*entity.MaterialRequest, error) {
	if !authz.Allowed(actor.Role, authz.ActionRepairRequest) {
		return nil, domain.ErrForbidden
	}
	r, err := uc.requests.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !r.Owner(actor.UserID) {
		return nil, domain.ErrForbidden
	}
	if !r.Status.CanTransition(entity.RequestPendingApproval) {
		return nil, domain.ErrInvalidState
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	r.Quantity = in.Quantity
	if strings.TrimSpace(in.Purpose) != "" {
		r.Purpose = strings.TrimSpace(in.Purpose)
	}
	r.Status = entity.RequestPendingApproval
	r.Reason = ""
	r.ApprovalDate = nil
	if err := uc.requests.Update(r); err != nil {
		return nil, err
	}
	uc.events.Publish(event.New(event.RequestRepaired, r.ID, actor.UserID, nil))
	return r, nil
}

// Supply suministra una solicitud aprobada, total o parcialmente, y
// descuenta el stock del material en la misma transacción. Si el stock
// es insuficiente falla con ErrInsufficientStock y la solicitud queda
// en approved (nunca se degrada en silencio).
func (uc *UseCase) Supply(ctx context.Context, actor authz.Actor, id string, in dto.SupplyRequestInput) (*entity.MaterialRequest, error) {
	if !authz.Allowed(actor.Role, authz.ActionSupplyRequest) {
		return nil, domain.ErrForbidden
	}
	var (
		out      *entity.MaterialRequest
		adjusted *entity.Material
		delta    int64
	)
	err := uc.txRunner.Run(ctx, func(
		requests repository.MaterialRequestRepository,
		materials repository.MaterialRepository,
	) error {
		r, err := requests.GetByID(id)
		if err != nil {
			return err
		}
		qty := in.Quantity
		if qty == 0 {
			qty = r.Quantity
		}
		if qty < 0 || qty > r.Quantity {
			return domain.ErrInvalidInput
		}
		target := entity.RequestSupplied
		if qty < r.Quantity {
			target = entity.RequestPartiallySupplied
		}
		if !r.Status.CanTransition(target) {
			return domain.ErrInvalidState
		}
		// El CAS de stock corre primero: si no alcanza, la tx aborta
		// y la solicitud permanece approved.
		delta = -qty
		adjusted, err = materials.AdjustStock(r.MaterialID, delta)
		if err != nil {
			return err
		}
		r.Status = target
		r.SuppliedQuantity = qty
		if err := requests.Update(r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.events.Publish(event.New(event.RequestSupplied, out.ID, actor.UserID, map[string]any{
		"materialId": out.MaterialID, "quantity": out.SuppliedQuantity, "status": string(out.Status),
	}))
	if e, crossed := event.LowStockCrossed(adjusted, delta, actor.UserID); crossed {
		uc.events.Publish(e)
	}
	return out, nil
}

// Receive cierra la solicitud con el resultado de calidad del dueño.
func (uc *UseCase) Receive(actor authz.Actor, id string, in dto.ReceiveRequestInput) (*entity.MaterialRequest, error) {
	if !authz.Allowed(actor.Role, authz.ActionReceiveRequest) {
		return nil, domain.ErrForbidden
	}
	r, err := uc.requests.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !r.Owner(actor.UserID) {
		return nil, domain.ErrForbidden
	}
	target := entity.RequestReceivedConfirmed
	if !in.QualityConfirmed {
		target = entity.RequestReceivedRejected
	}
	if !r.Status.CanTransition(target) {
		return nil, domain.ErrInvalidState
	}
	now := time.Now()
	r.Status = target
	r.ReceivedDate = &now
	if err := uc.requests.Update(r); err != nil {
		return nil, err
	}
	uc.events.Publish(event.New(event.RequestReceived, r.ID, actor.UserID, map[string]any{"status": string(r.Status)}))
	return r, nil
}

// Get devuelve una solicitud por ID.
func (uc *UseCase) Get(id string) (*entity.MaterialRequest, error) {
	return uc.requests.GetByID(id)
}

// List devuelve una página de todas las solicitudes.
func (uc *UseCase) List(limit, offset int) ([]*entity.MaterialRequest, int, error) {
	return uc.requests.List(limit, offset)
}

// ListMine devuelve las solicitudes del actor.
func (uc *UseCase) ListMine(actor authz.Actor, limit, offset int) ([]*entity.MaterialRequest, int, error) {
	return uc.requests.ListByRequester(actor.UserID, limit, offset)
}

// validateCreateInput devuelve el motivo de invalidez o "" si el payload es válido.
func (uc *UseCase) validateCreateInput(in dto.CreateRequestInput) string {
	if strings.TrimSpace(in.MaterialID) == "" {
		return "materialId requerido"
	}
	if in.Quantity <= 0 {
		return "quantity debe ser mayor que cero"
	}
	if m, err := uc.materials.GetByID(in.MaterialID); err != nil || m == nil {
		return "material no encontrado: " + in.MaterialID
	}
	return ""
}

func newRequest(requesterID string, in dto.CreateRequestInput) *entity.MaterialRequest {
	now := time.Now()
	return &entity.MaterialRequest{
		ID:          uuid.New().String(),
		RequesterID: requesterID,
		MaterialID:  in.MaterialID,
		Quantity:    in.Quantity,
		Purpose:     strings.TrimSpace(in.Purpose),
		Status:      entity.RequestPendingApproval,
		RequestDate: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
