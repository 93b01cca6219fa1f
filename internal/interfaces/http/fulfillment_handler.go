package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/fulfillment"
)

// FulfillmentHandler maneja las peticiones HTTP de órdenes de compra (protegido).
type FulfillmentHandler struct {
	uc *fulfillment.UseCase
}

// NewFulfillmentHandler construye el handler.
func NewFulfillmentHandler(uc *fulfillment.UseCase) *FulfillmentHandler {
	return &FulfillmentHandler{uc: uc}
}

// Dispatch godoc
// @Summary      Despachar orden completa (solo proveedor dueño)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/dispatch [post]
func (h *FulfillmentHandler) Dispatch(c *fiber.Ctx) error {
	po, err := h.uc.Dispatch(ActorFromCtx(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(po))
}

// PartialDispatch godoc
// @Summary      Despacho parcial (cantidades ≤ línea original)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.PartialDispatchInput  true  "Líneas entregadas"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/partial-dispatch [post]
func (h *FulfillmentHandler) PartialDispatch(c *fiber.Ctx) error {
	var in dto.PartialDispatchInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	po, err := h.uc.PartialDispatch(ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(po))
}

// RejectDelivery godoc
// @Summary      Rechazar despacho (razón obligatoria)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.RejectDeliveryInput  true  "Razón de rechazo"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/reject-delivery [post]
func (h *FulfillmentHandler) RejectDelivery(c *fiber.Ctx) error {
	var in dto.RejectDeliveryInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	po, err := h.uc.RejectDelivery(ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(po))
}

// ChangeStatus godoc
// @Summary      Cerrar orden (received abona stock; not received no)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ChangePOStatusInput  true  "Estado destino"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/status [patch]
func (h *FulfillmentHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangePOStatusInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	po, err := h.uc.ChangeStatus(c.UserContext(), ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(po))
}

// GetByID godoc
// @Summary      Obtener orden por ID
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *FulfillmentHandler) GetByID(c *fiber.Ctx) error {
	po, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(po))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int   false  "Límite"   default(20)
// @Param        offset  query  int   false  "Offset"   default(0)
// @Param        mine    query  bool  false  "Solo las del proveedor actor"
// @Success      200     {object}  map[string]any
// @Router       /api/purchase-orders [get]
func (h *FulfillmentHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	var (
		list  []*dto.PurchaseOrderResponse
		total int
	)
	if c.QueryBool("mine", false) {
		pos, t, err := h.uc.ListMine(ActorFromCtx(c), page.Limit, page.Offset)
		if err != nil {
			return respondError(c, err)
		}
		list, total = dto.FromPurchaseOrders(pos), t
	} else {
		pos, t, err := h.uc.List(page.Limit, page.Offset)
		if err != nil {
			return respondError(c, err)
		}
		list, total = dto.FromPurchaseOrders(pos), t
	}
	return c.JSON(fiber.Map{
		"items": list,
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// GetPDF godoc
// @Summary      Descargar la orden de compra en PDF
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/pdf [get]
func (h *FulfillmentHandler) GetPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	pdfBytes, err := h.uc.GeneratePDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="orden-`+id+`.pdf"`)
	return c.Send(pdfBytes)
}
