// Package sourcing implementa el SourcingEngine: RFQ (quotation request),
// cotizaciones de proveedores y su aprobación/rechazo. Aprobar una
// cotización crea la orden de compra de forma atómica y deja a las
// hermanas consultables pero no re-aprobables.
package sourcing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/authz"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/event"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// UseCase casos de uso del flujo RFQ -> quotation -> PO.
type UseCase struct {
	cfg        Config
	txRunner   TxRunner
	rfqs       repository.QuotationRequestRepository
	quotations repository.QuotationRepository
	materials  repository.MaterialRepository
	users      repository.UserRepository
	events     event.Sink
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	cfg Config,
	txRunner TxRunner,
	rfqs repository.QuotationRequestRepository,
	quotations repository.QuotationRepository,
	materials repository.MaterialRepository,
	users repository.UserRepository,
	events event.Sink,
) *UseCase {
	return &UseCase{
		cfg:        cfg,
		txRunner:   txRunner,
		rfqs:       rfqs,
		quotations: quotations,
		materials:  materials,
		users:      users,
		events:     events,
	}
}

// CreateQuotationRequest crea un RFQ abierto dirigido a uno o más
// proveedores. Valida que cada línea refiera un material existente con
// cantidad positiva y que cada destinatario tenga rol supplier.
func (uc *UseCase) CreateQuotationRequest(actor authz.Actor, in dto.CreateRFQInput) (*entity.QuotationRequest, error) {
	if !authz.Allowed(actor.Role, authz.ActionCreateRFQ) {
		return nil, domain.ErrForbidden
	}
	if len(in.Items) == 0 || len(in.SupplierIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items := make([]entity.RFQItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		m, err := uc.materials.GetByID(it.MaterialID)
		if err != nil || m == nil {
			return nil, domain.ErrInvalidInput
		}
		items = append(items, entity.RFQItem{
			MaterialID:  m.ID,
			MaximoID:    m.MaximoID,
			Description: m.Description,
			Unit:        m.Unit,
			Quantity:    it.Quantity,
		})
	}
	for _, supplierID := range in.SupplierIDs {
		u, err := uc.users.GetByID(supplierID)
		if err != nil || u == nil || u.Role != entity.RoleSupplier {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	q := &entity.QuotationRequest{
		ID:          uuid.New().String(),
		Items:       items,
		DueDate:     in.DueDate,
		SupplierIDs: in.SupplierIDs,
		Notes:       strings.TrimSpace(in.Notes),
		Status:      entity.RFQOpen,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.rfqs.Create(q); err != nil {
		return nil, err
	}
	uc.events.Publish(event.New(event.RFQCreated, q.ID, actor.UserID, map[string]any{
		"suppliers": len(q.SupplierIDs), "items": len(q.Items),
	}))
	return q, nil
}

// CloseQuotationRequest cierra explícitamente un RFQ abierto.
func (uc *UseCase) CloseQuotationRequest(actor authz.Actor, id string) (*entity.QuotationRequest, error) {
	if !authz.Allowed(actor.Role, authz.ActionCloseRFQ) {
		return nil, domain.ErrForbidden
	}
	q, err := uc.rfqs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if q.Status != entity.RFQOpen {
		return nil, domain.ErrInvalidState
	}
	q.Status = entity.RFQClosed
	if err := uc.rfqs.Update(q); err != nil {
		return nil, err
	}
	uc.events.Publish(event.New(event.RFQClosed, q.ID, actor.UserID, nil))
	return q, nil
}

// SubmitQuotation registra la oferta de un proveedor contra un RFQ
// abierto que lo tenga como destinatario. El totalPrice de cada línea se
// recalcula server-side (quantity × pricePerUnit). Un proveedor no puede
// cotizar dos veces el mismo RFQ.
func (uc *UseCase) SubmitQuotation(actor authz.Actor, rfqID string, in dto.SubmitQuotationInput) (*entity.Quotation, error) {
	if !authz.Allowed(actor.Role, authz.ActionSubmitQuotation) {
		return nil, domain.ErrForbidden
	}
	rfq, err := uc.rfqs.GetByID(rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.Status != entity.RFQOpen {
		return nil, domain.ErrInvalidState
	}
	if !rfq.AddressedTo(actor.UserID) {
		return nil, domain.ErrForbidden
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.quotations.ListByRequest(rfqID)
	if err != nil {
		return nil, err
	}
	for _, q := range existing {
		if q.SupplierID == actor.UserID {
			return nil, domain.ErrConflict
		}
	}
	items := make([]entity.QuotationItem, 0, len(in.Items))
	for _, it := range in.Items {
		if rfq.ItemFor(it.MaterialID) == nil {
			return nil, domain.ErrInvalidInput
		}
		if it.Quantity <= 0 || it.PricePerUnit.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		items = append(items, entity.QuotationItem{
			MaterialID:   it.MaterialID,
			Quantity:     it.Quantity,
			PricePerUnit: it.PricePerUnit,
			TotalPrice:   it.PricePerUnit.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}
	now := time.Now()
	q := &entity.Quotation{
		ID:                 uuid.New().String(),
		QuotationRequestID: rfqID,
		SupplierID:         actor.UserID,
		Items:              items,
		Status:             entity.QuotationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.quotations.Create(q); err != nil {
		return nil, err
	}
	uc.events.Publish(event.New(event.QuotationSubmitted, q.ID, actor.UserID, map[string]any{
		"quotationRequestId": rfqID, "total": q.Total().String(),
	}))
	return q, nil
}

// ApproveQuotation aprueba una cotización pendiente y crea su orden de
// compra en la misma transacción. Solo una cotización por RFQ puede
// quedar aprobada: una segunda aprobación falla con ErrConflict. Según
// configuración, el RFQ se cierra también dentro de la transacción.
func (uc *UseCase) ApproveQuotation(ctx context.Context, actor authz.Actor, id string, in dto.ApproveQuotationInput) (*entity.Quotation, *entity.PurchaseOrder, error) {
	if !authz.Allowed(actor.Role, authz.ActionApproveQuotation) {
		return nil, nil, domain.ErrForbidden
	}
	if in.ExpectedDeliveryDate.IsZero() {
		return nil, nil, domain.ErrInvalidInput
	}
	var (
		outQ  *entity.Quotation
		outPO *entity.PurchaseOrder
	)
	err := uc.txRunner.Run(ctx, func(
		rfqs repository.QuotationRequestRepository,
		quotations repository.QuotationRepository,
		orders repository.PurchaseOrderRepository,
	) error {
		q, err := quotations.GetByID(id)
		if err != nil {
			return err
		}
		if q.Status != entity.QuotationPending {
			return domain.ErrInvalidState
		}
		siblings, err := quotations.ListByRequest(q.QuotationRequestID)
		if err != nil {
			return err
		}
		for _, s := range siblings {
			if s.Status == entity.QuotationApproved {
				return domain.ErrConflict
			}
		}
		delivery := in.ExpectedDeliveryDate
		q.Status = entity.QuotationApproved
		q.ExpectedDeliveryDate = &delivery
		q.PaymentTerms = strings.TrimSpace(in.PaymentTerms)
		if err := quotations.Update(q); err != nil {
			return err
		}

		po := buildPurchaseOrder(q, actor.UserID)
		if err := orders.Create(po); err != nil {
			return err
		}

		if uc.cfg.AutoCloseOnApproval {
			rfq, err := rfqs.GetByID(q.QuotationRequestID)
			if err != nil {
				return err
			}
			if rfq.Status == entity.RFQOpen {
				rfq.Status = entity.RFQClosed
				if err := rfqs.Update(rfq); err != nil {
					return err
				}
			}
		}
		outQ, outPO = q, po
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	uc.events.Publish(event.New(event.QuotationApproved, outQ.ID, actor.UserID, nil))
	uc.events.Publish(event.New(event.POCreated, outPO.ID, actor.UserID, map[string]any{
		"quotationId": outQ.ID, "supplierId": outPO.SupplierID, "totalAmount": outPO.TotalAmount.String(),
	}))
	return outQ, outPO, nil
}

// RejectQuotation rechaza una cotización pendiente; la razón es
// obligatoria. Si la política lo indica y todas las cotizaciones del RFQ
// quedaron rechazadas, el RFQ se cierra.
func (uc *UseCase) RejectQuotation(actor authz.Actor, id string, in dto.RejectQuotationInput) (*entity.Quotation, error) {
	if !authz.Allowed(actor.Role, authz.ActionRejectQuotation) {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrInvalidInput
	}
	q, err := uc.quotations.GetByID(id)
	if err != nil {
		return nil, err
	}
	if q.Status != entity.QuotationPending {
		return nil, domain.ErrInvalidState
	}
	q.Status = entity.QuotationRejected
	q.RejectionReason = strings.TrimSpace(in.Reason)
	if err := uc.quotations.Update(q); err != nil {
		return nil, err
	}
	uc.events.Publish(event.New(event.QuotationRejected, q.ID, actor.UserID, map[string]any{"reason": q.RejectionReason}))

	if uc.cfg.CloseOnAllRejected {
		if err := uc.closeIfAllRejected(actor, q.QuotationRequestID); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// closeIfAllRejected cierra el RFQ si todas sus cotizaciones están rechazadas.
func (uc *UseCase) closeIfAllRejected(actor authz.Actor, rfqID string) error {
	siblings, err := uc.quotations.ListByRequest(rfqID)
	if err != nil {
		return err
	}
	for _, s := range siblings {
		if s.Status != entity.QuotationRejected {
			return nil
		}
	}
	rfq, err := uc.rfqs.GetByID(rfqID)
	if err != nil {
		return err
	}
	if rfq.Status != entity.RFQOpen {
		return nil
	}
	rfq.Status = entity.RFQClosed
	if err := uc.rfqs.Update(rfq); err != nil {
		return err
	}
	uc.events.Publish(event.New(event.RFQClosed, rfq.ID, actor.UserID, map[string]any{"cause": "all quotations rejected"}))
	return nil
}

// GetQuotationRequest devuelve un RFQ por ID.
func (uc *UseCase) GetQuotationRequest(id string) (*entity.QuotationRequest, error) {
	return uc.rfqs.GetByID(id)
}

// ListQuotationRequests devuelve una página de RFQs.
func (uc *UseCase) ListQuotationRequests(limit, offset int) ([]*entity.QuotationRequest, int, error) {
	return uc.rfqs.List(limit, offset)
}

// ListMyQuotationRequests devuelve los RFQs dirigidos al proveedor actor.
func (uc *UseCase) ListMyQuotationRequests(actor authz.Actor, limit, offset int) ([]*entity.QuotationRequest, int, error) {
	return uc.rfqs.ListBySupplier(actor.UserID, limit, offset)
}

// ListQuotationsByRequest devuelve las cotizaciones de un RFQ.
func (uc *UseCase) ListQuotationsByRequest(rfqID string) ([]*entity.Quotation, error) {
	return uc.quotations.ListByRequest(rfqID)
}

// ListMyQuotations devuelve las cotizaciones del proveedor actor.
func (uc *UseCase) ListMyQuotations(actor authz.Actor, limit, offset int) ([]*entity.Quotation, int, error) {
	return uc.quotations.ListBySupplier(actor.UserID, limit, offset)
}

// buildPurchaseOrder copia las líneas de la cotización aprobada hacia la
// orden. Referencias inmutables: quotationId y supplierId no cambian más.
func buildPurchaseOrder(q *entity.Quotation, createdBy string) *entity.PurchaseOrder {
	now := time.Now()
	items := make([]entity.POItem, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, entity.POItem{
			MaterialID:   it.MaterialID,
			Quantity:     it.Quantity,
			PricePerUnit: it.PricePerUnit,
			TotalAmount:  it.TotalPrice,
		})
	}
	return &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		QuotationID:  q.ID,
		SupplierID:   q.SupplierID,
		CreatedBy:    createdBy,
		Items:        items,
		TotalAmount:  entity.SumTotals(items),
		DeliveryDate: q.ExpectedDeliveryDate,
		Status:       entity.POPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
