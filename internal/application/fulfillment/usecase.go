// Package fulfillment implementa el FulfillmentEngine: ciclo de vida de
// la orden de compra desde pending hasta received/not received, con
// despacho parcial y abono de stock al recibir.
package fulfillment

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/authz"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/event"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// UseCase casos de uso del ciclo de vida de órdenes de compra.
type UseCase struct {
	txRunner  TxRunner
	orders    repository.PurchaseOrderRepository
	materials repository.MaterialRepository
	users     repository.UserRepository
	pdf       PDFGenerator
	events    event.Sink
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	orders repository.PurchaseOrderRepository,
	materials repository.MaterialRepository,
	users repository.UserRepository,
	pdf PDFGenerator,
	events event.Sink,
) *UseCase {
	return &UseCase{txRunner: txRunner, orders: orders, materials: materials, users: users, pdf: pdf, events: events}
}

// Dispatch despacho completo: pending -> dispatched. Solo el proveedor
// dueño de la orden.
func (uc *UseCase) Dispatch(actor authz.Actor, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.supplierOrder(actor, id, authz.ActionDispatchPO)
	if err != nil {
		return nil, err
	}
	if !po.Status.CanTransition(entity.PODispatched) {
		return nil, domain.ErrInvalidState
	}
	po.Status = entity.PODispatched
	if err := uc.orders.Update(po); err != nil {
		return nil, err
	}
	uc.events.Publish(event.New(event.PODispatched, po.ID, actor.UserID, nil))
	return po, nil
}

// PartialDispatch despacho parcial: cada cantidad entregada debe ser
// positiva y no exceder la línea original; el TotalAmount se recalcula
// sobre el subconjunto entregado.
func (uc *UseCase) PartialDispatch(actor authz.Actor, id string, in dto.PartialDispatchInput) (*entity.PurchaseOrder, error) {
	po, err := uc.supplierOrder(actor, id, authz.ActionPartialDispatch)
	if err != nil {
		return nil, err
	}
	if !po.Status.CanTransition(entity.POPartiallyDispatched) {
		return nil, domain.ErrInvalidState
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	delivered := make([]entity.POItem, 0, len(in.Items))
	for _, it := range in.Items {
		original := po.ItemFor(it.MaterialID)
		if original == nil {
			return nil, domain.ErrInvalidInput
		}
		if it.Quantity <= 0 || it.Quantity > original.Quantity {
			return nil, domain.ErrInvalidInput
		}
		delivered = append(delivered, entity.POItem{
			MaterialID:   it.MaterialID,
			Quantity:     it.Quantity,
			PricePerUnit: original.PricePerUnit,
			TotalAmount:  original.PricePerUnit.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}
	po.Status = entity.POPartiallyDispatched
	po.PartiallyDeliveredItems = delivered
	po.TotalAmount = entity.SumTotals(delivered)
	if err := uc.orders.Update(po); err != nil {
		return nil, err
	}
	uc.events.Publish(event.New(event.POPartialDispatch, po.ID, actor.UserID, map[string]any{
		"lines": len(delivered), "totalAmount": po.TotalAmount.String(),
	}))
	return po, nil
}

// RejectDelivery el proveedor rechaza el despacho: pending -> dispatching rejected.
func (uc *UseCase) RejectDelivery(actor authz.Actor, id string, in dto.RejectDeliveryInput) (*entity.PurchaseOrder, error) {
	po, err := uc.supplierOrder(actor, id, authz.ActionRejectDelivery)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrInvalidInput
	}
	if !po.Status.CanTransition(entity.PODispatchRejected) {
		return nil, domain.ErrInvalidState
	}
	po.Status = entity.PODispatchRejected
	po.RejectionReason = strings.TrimSpace(in.Reason)
	if err := uc.orders.Update(po); err != nil {
		return nil, err
	}
	uc.events.Publish(event.New(event.PODeliveryRejected, po.ID, actor.UserID, map[string]any{"reason": po.RejectionReason}))
	return po, nil
}

// ChangeStatus cierra la orden: received abona el stock de cada línea
// activa (las parciales si hubo despacho parcial) en la misma
// transacción; not received deja el stock intacto y marca la orden para
// seguimiento.
func (uc *UseCase) ChangeStatus(ctx context.Context, actor authz.Actor, id string, in dto.ChangePOStatusInput) (*entity.PurchaseOrder, error) {
	if !authz.Allowed(actor.Role, authz.ActionChangePOStatus) {
		return nil, domain.ErrForbidden
	}
	var target entity.POStatus
	switch entity.POStatus(in.Status) {
	case entity.POReceived:
		target = entity.POReceived
	case entity.PONotReceived:
		target = entity.PONotReceived
	default:
		return nil, domain.ErrInvalidInput
	}

	var out *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(
		orders repository.PurchaseOrderRepository,
		materials repository.MaterialRepository,
	) error {
		po, err := orders.GetByID(id)
		if err != nil {
			return err
		}
		if !po.Status.CanTransition(target) {
			return domain.ErrInvalidState
		}
		if target == entity.POReceived {
			for _, it := range po.ActiveItems() {
				if _, err := materials.AdjustStock(it.MaterialID, it.Quantity); err != nil {
					return err
				}
			}
			now := time.Now()
			po.ReceivedDate = &now
		}
		po.Status = target
		if err := orders.Update(po); err != nil {
			return err
		}
		out = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	evt := event.POReceived
	if target == entity.PONotReceived {
		evt = event.PONotReceived
	}
	uc.events.Publish(event.New(evt, out.ID, actor.UserID, nil))
	return out, nil
}

// Get devuelve una orden por ID.
func (uc *UseCase) Get(id string) (*entity.PurchaseOrder, error) {
	return uc.orders.GetByID(id)
}

// List devuelve una página de órdenes.
func (uc *UseCase) List(limit, offset int) ([]*entity.PurchaseOrder, int, error) {
	return uc.orders.List(limit, offset)
}

// ListMine devuelve las órdenes del proveedor actor.
func (uc *UseCase) ListMine(actor authz.Actor, limit, offset int) ([]*entity.PurchaseOrder, int, error) {
	return uc.orders.ListBySupplier(actor.UserID, limit, offset)
}

// GeneratePDF arma la representación imprimible de la orden, resolviendo
// descripciones de material y nombre de proveedor.
func (uc *UseCase) GeneratePDF(ctx context.Context, id string) ([]byte, error) {
	po, err := uc.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	supplierName := po.SupplierID
	if u, err := uc.users.GetByID(po.SupplierID); err == nil && u != nil {
		supplierName = u.Username
	}
	data := PDFData{
		OrderID:      po.ID,
		SupplierName: supplierName,
		Status:       string(po.Status),
		TotalAmount:  po.TotalAmount.StringFixed(2),
	}
	if po.DeliveryDate != nil {
		data.DeliveryDate = po.DeliveryDate.Format("2006-01-02")
	}
	for _, it := range po.ActiveItems() {
		line := PDFLine{
			MaximoID:     it.MaterialID,
			Quantity:     it.Quantity,
			PricePerUnit: it.PricePerUnit.StringFixed(2),
			TotalAmount:  it.TotalAmount.StringFixed(2),
		}
		if m, err := uc.materials.GetByID(it.MaterialID); err == nil && m != nil {
			line.MaximoID = m.MaximoID
			line.Description = m.Description
		}
		data.Lines = append(data.Lines, line)
	}
	return uc.pdf.GeneratePurchaseOrderPDF(ctx, data)
}

// supplierOrder carga la orden y verifica política + ownership del proveedor.
func (uc *UseCase) supplierOrder(actor authz.Actor, id string, action authz.Action) (*entity.PurchaseOrder, error) {
	if !authz.Allowed(actor.Role, action) {
		return nil, domain.ErrForbidden
	}
	po, err := uc.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po.SupplierID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return po, nil
}
