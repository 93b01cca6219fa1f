package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Compras-api/internal/application/catalog"
	"github.com/jhoicas/Compras-api/internal/application/fulfillment"
	"github.com/jhoicas/Compras-api/internal/application/request"
	"github.com/jhoicas/Compras-api/internal/application/sourcing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC     *catalog.UseCase
	RequestUC     *request.UseCase
	SourcingUC    *sourcing.UseCase
	FulfillmentUC *fulfillment.UseCase
	JWTSecret     string
}

// Router registra las rutas de la API. Todo el flujo de compras exige
// Bearer Token; la autorización fina por rol la decide el core.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de materiales
	materials := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.CatalogUC)
	materials.Post("/", materialHandler.Create)
	materials.Post("/bulk", materialHandler.BulkCreate)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", materialHandler.Update)
	materials.Patch("/:id/stock", materialHandler.AdjustStock)

	// Solicitudes de material
	requests := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.RequestUC)
	requests.Post("/", requestHandler.Create)
	requests.Post("/bulk", requestHandler.BulkCreate)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Post("/:id/approve", requestHandler.Approve)
	requests.Post("/:id/reject", requestHandler.Reject)
	requests.Post("/:id/repair", requestHandler.Repair)
	requests.Post("/:id/supply", requestHandler.Supply)
	requests.Post("/:id/receive", requestHandler.Receive)

	// RFQs y cotizaciones
	sourcingHandler := NewSourcingHandler(deps.SourcingUC)
	rfqs := protected.Group("/rfqs")
	rfqs.Post("/", sourcingHandler.CreateRFQ)
	rfqs.Get("/", sourcingHandler.ListRFQs)
	rfqs.Get("/:id", sourcingHandler.GetRFQ)
	rfqs.Post("/:id/close", sourcingHandler.CloseRFQ)
	rfqs.Post("/:id/quotations", sourcingHandler.SubmitQuotation)
	rfqs.Get("/:id/quotations", sourcingHandler.ListQuotationsByRFQ)

	quotations := protected.Group("/quotations")
	quotations.Get("/", sourcingHandler.ListMyQuotations)
	quotations.Post("/:id/approve", sourcingHandler.ApproveQuotation)
	quotations.Post("/:id/reject", sourcingHandler.RejectQuotation)

	// Órdenes de compra
	orders := protected.Group("/purchase-orders")
	fulfillmentHandler := NewFulfillmentHandler(deps.FulfillmentUC)
	orders.Get("/", fulfillmentHandler.List)
	orders.Get("/:id", fulfillmentHandler.GetByID)
	orders.Get("/:id/pdf", fulfillmentHandler.GetPDF)
	orders.Post("/:id/dispatch", fulfillmentHandler.Dispatch)
	orders.Post("/:id/partial-dispatch", fulfillmentHandler.PartialDispatch)
	orders.Post("/:id/reject-delivery", fulfillmentHandler.RejectDelivery)
	orders.Patch("/:id/status", fulfillmentHandler.ChangeStatus)
}
