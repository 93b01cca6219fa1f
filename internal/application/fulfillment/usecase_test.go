package fulfillment_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/fulfillment"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/authz"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/infrastructure/memory"
)

var (
	proveedor = authz.Actor{UserID: "sup-1", Role: entity.RoleSupplier}
	intruso   = authz.Actor{UserID: "sup-2", Role: entity.RoleSupplier}
	bodega    = authz.Actor{UserID: "u-bodega", Role: entity.RoleStore}
)

// pdfStub evita arrastrar el generador real a los tests del engine.
type pdfStub struct{ captured fulfillment.PDFData }

func (p *pdfStub) GeneratePurchaseOrderPDF(_ context.Context, data fulfillment.PDFData) ([]byte, error) {
	p.captured = data
	return []byte("%PDF-1.7 stub"), nil
}

type fixture struct {
	uc        *fulfillment.UseCase
	materials *memory.MaterialRepo
	orders    *memory.PurchaseOrderRepo
	pdf       *pdfStub
}

func newFixture(t *testing.T) (*fixture, *entity.PurchaseOrder) {
	t.Helper()
	store := memory.NewStore()
	materials := memory.NewMaterialRepository(store)
	orders := memory.NewPurchaseOrderRepository(store)

	require.NoError(t, materials.Create(&entity.Material{
		ID: "mat-1", MaximoID: "MX-001", Description: "Filtro de aceite",
		Unit: "unidad", ItemType: entity.ItemTypeConsumable, CurrentStock: 5,
	}))
	require.NoError(t, materials.Create(&entity.Material{
		ID: "mat-2", MaximoID: "MX-002", Description: "Correa dentada",
		Unit: "unidad", ItemType: entity.ItemTypeSparePart, CurrentStock: 0,
	}))
	store.SeedUser(entity.User{ID: "sup-1", Username: "Aceros SAS", Role: entity.RoleSupplier})

	delivery := time.Now().Add(7 * 24 * time.Hour)
	items := []entity.POItem{
		{MaterialID: "mat-1", Quantity: 10, PricePerUnit: decimal.NewFromInt(100), TotalAmount: decimal.NewFromInt(1000)},
		{MaterialID: "mat-2", Quantity: 4, PricePerUnit: decimal.NewFromInt(250), TotalAmount: decimal.NewFromInt(1000)},
	}
	po := &entity.PurchaseOrder{
		ID: "po-1", QuotationID: "quo-1", SupplierID: "sup-1", CreatedBy: "u-compras",
		Items: items, TotalAmount: entity.SumTotals(items),
		DeliveryDate: &delivery, Status: entity.POPending,
	}
	require.NoError(t, orders.Create(po))

	pdf := &pdfStub{}
	uc := fulfillment.NewUseCase(
		memory.NewTxRunner(store).Fulfillment(),
		orders,
		materials,
		memory.NewUserRepository(store),
		pdf,
		memory.NewEventSink(),
	)
	return &fixture{uc: uc, materials: materials, orders: orders, pdf: pdf}, po
}

func (f *fixture) stock(t *testing.T, materialID string) int64 {
	t.Helper()
	m, err := f.materials.GetByID(materialID)
	require.NoError(t, err)
	return m.CurrentStock
}

func TestDispatch_SoloElProveedorDueno(t *testing.T) {
	f, po := newFixture(t)

	_, err := f.uc.Dispatch(intruso, po.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := f.uc.Dispatch(proveedor, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PODispatched, got.Status)
}

func TestDispatch_RepetidoFallaConEstadoInvalido(t *testing.T) {
	f, po := newFixture(t)
	_, err := f.uc.Dispatch(proveedor, po.ID)
	require.NoError(t, err)

	_, err = f.uc.Dispatch(proveedor, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// Despacho parcial: las líneas entregadas reemplazan a las originales como
// líneas activas y el total se recalcula sobre lo entregado.
func TestPartialDispatch_RecalculaElTotal(t *testing.T) {
	f, po := newFixture(t)

	got, err := f.uc.PartialDispatch(proveedor, po.ID, dto.PartialDispatchInput{
		Items: []dto.PartialItemInput{{MaterialID: "mat-1", Quantity: 6}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.POPartiallyDispatched, got.Status)
	require.Len(t, got.PartiallyDeliveredItems, 1)
	// 6×100 = 600: el total ya no incluye la línea no entregada.
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(600)), "total = %s", got.TotalAmount)
}

func TestPartialDispatch_CantidadMayorALaLineaEsInvalida(t *testing.T) {
	f, po := newFixture(t)

	_, err := f.uc.PartialDispatch(proveedor, po.ID, dto.PartialDispatchInput{
		Items: []dto.PartialItemInput{{MaterialID: "mat-1", Quantity: 11}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.PartialDispatch(proveedor, po.ID, dto.PartialDispatchInput{
		Items: []dto.PartialItemInput{{MaterialID: "mat-fantasma", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRejectDelivery_RazonObligatoria(t *testing.T) {
	f, po := newFixture(t)

	_, err := f.uc.RejectDelivery(proveedor, po.ID, dto.RejectDeliveryInput{Reason: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.uc.RejectDelivery(proveedor, po.ID, dto.RejectDeliveryInput{Reason: "sin inventario del fabricante"})
	require.NoError(t, err)
	assert.Equal(t, entity.PODispatchRejected, got.Status)
	assert.Equal(t, "sin inventario del fabricante", got.RejectionReason)
}

// Recibir abona el stock de cada línea activa dentro de la transacción.
func TestChangeStatus_RecibidaAbonaElStock(t *testing.T) {
	f, po := newFixture(t)
	_, err := f.uc.Dispatch(proveedor, po.ID)
	require.NoError(t, err)

	got, err := f.uc.ChangeStatus(context.Background(), bodega, po.ID, dto.ChangePOStatusInput{Status: string(entity.POReceived)})
	require.NoError(t, err)

	assert.Equal(t, entity.POReceived, got.Status)
	assert.NotNil(t, got.ReceivedDate)
	assert.Equal(t, int64(15), f.stock(t, "mat-1"), "5 + 10 de la orden")
	assert.Equal(t, int64(4), f.stock(t, "mat-2"))
}

// Tras despacho parcial solo entran las cantidades entregadas.
func TestChangeStatus_ParcialAbonaSoloLoEntregado(t *testing.T) {
	f, po := newFixture(t)
	_, err := f.uc.PartialDispatch(proveedor, po.ID, dto.PartialDispatchInput{
		Items: []dto.PartialItemInput{{MaterialID: "mat-1", Quantity: 6}},
	})
	require.NoError(t, err)

	_, err = f.uc.ChangeStatus(context.Background(), bodega, po.ID, dto.ChangePOStatusInput{Status: string(entity.POReceived)})
	require.NoError(t, err)

	assert.Equal(t, int64(11), f.stock(t, "mat-1"), "5 + 6 entregados")
	assert.Equal(t, int64(0), f.stock(t, "mat-2"), "la línea no entregada no toca stock")
}

// Tras recibir un despacho parcial las líneas activas siguen siendo las
// entregadas y el total persiste consistente con ellas.
func TestChangeStatus_ParcialRecibidaMantieneLasLineasActivas(t *testing.T) {
	f, po := newFixture(t)
	_, err := f.uc.PartialDispatch(proveedor, po.ID, dto.PartialDispatchInput{
		Items: []dto.PartialItemInput{{MaterialID: "mat-1", Quantity: 6}},
	})
	require.NoError(t, err)

	got, err := f.uc.ChangeStatus(context.Background(), bodega, po.ID, dto.ChangePOStatusInput{Status: string(entity.POReceived)})
	require.NoError(t, err)

	require.Len(t, got.ActiveItems(), 1, "las originales no entregadas no reaparecen")
	assert.True(t, got.TotalAmount.Equal(entity.SumTotals(got.ActiveItems())),
		"TotalAmount=%s debe igualar la suma de líneas activas", got.TotalAmount)

	// El PDF de la orden cerrada también rinde solo lo entregado.
	_, err = f.uc.GeneratePDF(context.Background(), po.ID)
	require.NoError(t, err)
	require.Len(t, f.pdf.captured.Lines, 1)
	assert.Equal(t, "MX-001", f.pdf.captured.Lines[0].MaximoID)
}

func TestChangeStatus_NoRecibidaDejaElStockIntacto(t *testing.T) {
	f, po := newFixture(t)
	_, err := f.uc.Dispatch(proveedor, po.ID)
	require.NoError(t, err)

	got, err := f.uc.ChangeStatus(context.Background(), bodega, po.ID, dto.ChangePOStatusInput{Status: string(entity.PONotReceived)})
	require.NoError(t, err)

	assert.Equal(t, entity.PONotReceived, got.Status)
	assert.Nil(t, got.ReceivedDate)
	assert.Equal(t, int64(5), f.stock(t, "mat-1"))
}

func TestChangeStatus_DestinoFueraDelCierreEsInvalido(t *testing.T) {
	f, po := newFixture(t)
	_, err := f.uc.Dispatch(proveedor, po.ID)
	require.NoError(t, err)

	_, err = f.uc.ChangeStatus(context.Background(), bodega, po.ID, dto.ChangePOStatusInput{Status: "dispatched"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChangeStatus_PendienteNoSePuedeCerrar(t *testing.T) {
	f, po := newFixture(t)

	_, err := f.uc.ChangeStatus(context.Background(), bodega, po.ID, dto.ChangePOStatusInput{Status: string(entity.POReceived)})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(5), f.stock(t, "mat-1"), "un cierre rechazado no abona stock")
}

// El PDF resuelve maximoId y descripción del maestro de materiales y el
// nombre del proveedor.
func TestGeneratePDF_ResuelveMaestroYProveedor(t *testing.T) {
	f, po := newFixture(t)

	out, err := f.uc.GeneratePDF(context.Background(), po.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	data := f.pdf.captured
	assert.Equal(t, po.ID, data.OrderID)
	assert.Equal(t, "Aceros SAS", data.SupplierName)
	require.Len(t, data.Lines, 2)
	assert.Equal(t, "MX-001", data.Lines[0].MaximoID)
	assert.Equal(t, "Filtro de aceite", data.Lines[0].Description)
}
