package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/request"
)

// RequestHandler maneja las peticiones HTTP de solicitudes de material (protegido).
type RequestHandler struct {
	uc *request.UseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *request.UseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de material
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestInput  true  "Datos de la solicitud"
// @Success      201   {object}  dto.MaterialRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	r, err := h.uc.Create(ActorFromCtx(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMaterialRequest(r))
}

// BulkCreate godoc
// @Summary      Alta masiva de solicitudes (todo o nada)
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  []dto.CreateRequestInput  true  "Lote de solicitudes"
// @Success      201   {array}   dto.MaterialRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/requests/bulk [post]
func (h *RequestHandler) BulkCreate(c *fiber.Ctx) error {
	var rows []dto.CreateRequestInput
	if err := c.BodyParser(&rows); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rs, err := h.uc.BulkCreate(ActorFromCtx(c), rows)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMaterialRequests(rs))
}

// Approve godoc
// @Summary      Aprobar solicitud pendiente
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.MaterialRequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	r, err := h.uc.Approve(ActorFromCtx(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromMaterialRequest(r))
}

// Reject godoc
// @Summary      Rechazar solicitud pendiente (razón obligatoria)
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.RejectRequestInput  true  "Razón de rechazo"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequestInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	r, err := h.uc.Reject(ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromMaterialRequest(r))
}

// Repair godoc
// @Summary      Reenviar solicitud rechazada con payload editado
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.RepairRequestInput  true  "Payload corregido"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/repair [post]
func (h *RequestHandler) Repair(c *fiber.Ctx) error {
	var in dto.RepairRequestInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	r, err := h.uc.Repair(ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromMaterialRequest(r))
}

// Supply godoc
// @Summary      Suministrar solicitud aprobada (total o parcial, descuenta stock)
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.SupplyRequestInput  true  "Cantidad a suministrar (0 = total)"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/supply [post]
func (h *RequestHandler) Supply(c *fiber.Ctx) error {
	var in dto.SupplyRequestInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	r, err := h.uc.Supply(c.UserContext(), ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromMaterialRequest(r))
}

// Receive godoc
// @Summary      Confirmar recepción con resultado de calidad
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ReceiveRequestInput  true  "Resultado de calidad"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/receive [post]
func (h *RequestHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequestInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	r, err := h.uc.Receive(ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromMaterialRequest(r))
}

// GetByID godoc
// @Summary      Obtener solicitud por ID
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.MaterialRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	r, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromMaterialRequest(r))
}

// List godoc
// @Summary      Listar solicitudes
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int   false  "Límite"   default(20)
// @Param        offset  query  int   false  "Offset"   default(0)
// @Param        mine    query  bool  false  "Solo las del actor"
// @Success      200     {object}  map[string]any
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	var (
		rs    []*dto.MaterialRequestResponse
		total int
	)
	if c.QueryBool("mine", false) {
		list, t, err := h.uc.ListMine(ActorFromCtx(c), page.Limit, page.Offset)
		if err != nil {
			return respondError(c, err)
		}
		rs, total = dto.FromMaterialRequests(list), t
	} else {
		list, t, err := h.uc.List(page.Limit, page.Offset)
		if err != nil {
			return respondError(c, err)
		}
		rs, total = dto.FromMaterialRequests(list), t
	}
	return c.JSON(fiber.Map{
		"items": rs,
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}
