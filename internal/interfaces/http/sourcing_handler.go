package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/sourcing"
)

// SourcingHandler maneja las peticiones HTTP del flujo RFQ -> quotation -> PO (protegido).
type SourcingHandler struct {
	uc *sourcing.UseCase
}

// NewSourcingHandler construye el handler.
func NewSourcingHandler(uc *sourcing.UseCase) *SourcingHandler {
	return &SourcingHandler{uc: uc}
}

// CreateRFQ godoc
// @Summary      Crear solicitud de cotización (RFQ)
// @Tags         rfqs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRFQInput  true  "Datos del RFQ"
// @Success      201   {object}  dto.RFQResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/rfqs [post]
func (h *SourcingHandler) CreateRFQ(c *fiber.Ctx) error {
	var in dto.CreateRFQInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	q, err := h.uc.CreateQuotationRequest(ActorFromCtx(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromRFQ(q))
}

// CloseRFQ godoc
// @Summary      Cerrar RFQ abierto
// @Tags         rfqs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del RFQ"
// @Success      200  {object}  dto.RFQResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/rfqs/{id}/close [post]
func (h *SourcingHandler) CloseRFQ(c *fiber.Ctx) error {
	q, err := h.uc.CloseQuotationRequest(ActorFromCtx(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromRFQ(q))
}

// GetRFQ godoc
// @Summary      Obtener RFQ por ID
// @Tags         rfqs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del RFQ"
// @Success      200  {object}  dto.RFQResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rfqs/{id} [get]
func (h *SourcingHandler) GetRFQ(c *fiber.Ctx) error {
	q, err := h.uc.GetQuotationRequest(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromRFQ(q))
}

// ListRFQs godoc
// @Summary      Listar RFQs
// @Tags         rfqs
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int   false  "Límite"   default(20)
// @Param        offset  query  int   false  "Offset"   default(0)
// @Param        mine    query  bool  false  "Solo los dirigidos al proveedor actor"
// @Success      200     {object}  map[string]any
// @Router       /api/rfqs [get]
func (h *SourcingHandler) ListRFQs(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	var (
		list  []*dto.RFQResponse
		total int
	)
	if c.QueryBool("mine", false) {
		qs, t, err := h.uc.ListMyQuotationRequests(ActorFromCtx(c), page.Limit, page.Offset)
		if err != nil {
			return respondError(c, err)
		}
		list, total = dto.FromRFQs(qs), t
	} else {
		qs, t, err := h.uc.ListQuotationRequests(page.Limit, page.Offset)
		if err != nil {
			return respondError(c, err)
		}
		list, total = dto.FromRFQs(qs), t
	}
	return c.JSON(fiber.Map{
		"items": list,
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// SubmitQuotation godoc
// @Summary      Cotizar un RFQ (solo proveedor destinatario)
// @Tags         quotations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del RFQ"
// @Param        body  body  dto.SubmitQuotationInput  true  "Líneas cotizadas"
// @Success      201   {object}  dto.QuotationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/rfqs/{id}/quotations [post]
func (h *SourcingHandler) SubmitQuotation(c *fiber.Ctx) error {
	var in dto.SubmitQuotationInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	q, err := h.uc.SubmitQuotation(ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromQuotation(q))
}

// ListQuotationsByRFQ godoc
// @Summary      Listar cotizaciones de un RFQ
// @Tags         quotations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del RFQ"
// @Success      200  {array}  dto.QuotationResponse
// @Router       /api/rfqs/{id}/quotations [get]
func (h *SourcingHandler) ListQuotationsByRFQ(c *fiber.Ctx) error {
	qs, err := h.uc.ListQuotationsByRequest(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromQuotations(qs))
}

// ListMyQuotations godoc
// @Summary      Listar cotizaciones del proveedor actor
// @Tags         quotations
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  map[string]any
// @Router       /api/quotations [get]
func (h *SourcingHandler) ListMyQuotations(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	qs, total, err := h.uc.ListMyQuotations(ActorFromCtx(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": dto.FromQuotations(qs),
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// ApproveQuotation godoc
// @Summary      Aprobar cotización (crea la orden de compra atómicamente)
// @Tags         quotations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cotización"
// @Param        body  body  dto.ApproveQuotationInput  true  "Metadatos de aprobación"
// @Success      200   {object}  map[string]any
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotations/{id}/approve [post]
func (h *SourcingHandler) ApproveQuotation(c *fiber.Ctx) error {
	var in dto.ApproveQuotationInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	q, po, err := h.uc.ApproveQuotation(c.UserContext(), ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"quotation":     dto.FromQuotation(q),
		"purchaseOrder": dto.FromPurchaseOrder(po),
	})
}

// RejectQuotation godoc
// @Summary      Rechazar cotización (razón obligatoria)
// @Tags         quotations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cotización"
// @Param        body  body  dto.RejectQuotationInput  true  "Razón de rechazo"
// @Success      200   {object}  dto.QuotationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/quotations/{id}/reject [post]
func (h *SourcingHandler) RejectQuotation(c *fiber.Ctx) error {
	var in dto.RejectQuotationInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	q, err := h.uc.RejectQuotation(ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromQuotation(q))
}
