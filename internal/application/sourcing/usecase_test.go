package sourcing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/sourcing"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/authz"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/infrastructure/memory"
)

var (
	compras    = authz.Actor{UserID: "u-compras", Role: entity.RolePurchasing}
	proveedor1 = authz.Actor{UserID: "sup-1", Role: entity.RoleSupplier}
	proveedor2 = authz.Actor{UserID: "sup-2", Role: entity.RoleSupplier}
)

type fixture struct {
	uc     *sourcing.UseCase
	store  *memory.Store
	orders *memory.PurchaseOrderRepo
}

func newFixture(t *testing.T, cfg sourcing.Config) *fixture {
	t.Helper()
	store := memory.NewStore()
	materials := memory.NewMaterialRepository(store)

	require.NoError(t, materials.Create(&entity.Material{
		ID: "mat-1", MaximoID: "MX-001", Description: "Filtro de aceite",
		Unit: "unidad", ItemType: entity.ItemTypeConsumable, CurrentStock: 50,
	}))
	require.NoError(t, materials.Create(&entity.Material{
		ID: "mat-2", MaximoID: "MX-002", Description: "Correa dentada",
		Unit: "unidad", ItemType: entity.ItemTypeSparePart, CurrentStock: 20,
	}))
	store.SeedUser(entity.User{ID: "sup-1", Username: "Aceros SAS", Role: entity.RoleSupplier})
	store.SeedUser(entity.User{ID: "sup-2", Username: "Filtros Ltda", Role: entity.RoleSupplier})
	store.SeedUser(entity.User{ID: "u-depto", Username: "Mantenimiento", Role: entity.RoleDepartment})

	uc := sourcing.NewUseCase(
		cfg,
		memory.NewTxRunner(store).Sourcing(),
		memory.NewQuotationRequestRepository(store),
		memory.NewQuotationRepository(store),
		materials,
		memory.NewUserRepository(store),
		memory.NewEventSink(),
	)
	return &fixture{uc: uc, store: store, orders: memory.NewPurchaseOrderRepository(store)}
}

func (f *fixture) createRFQ(t *testing.T, suppliers ...string) *entity.QuotationRequest {
	t.Helper()
	rfq, err := f.uc.CreateQuotationRequest(compras, dto.CreateRFQInput{
		Items: []dto.RFQItemInput{
			{MaterialID: "mat-1", Quantity: 10},
			{MaterialID: "mat-2", Quantity: 5},
		},
		DueDate:     time.Now().Add(72 * time.Hour),
		SupplierIDs: suppliers,
	})
	require.NoError(t, err)
	return rfq
}

func (f *fixture) submit(t *testing.T, actor authz.Actor, rfqID string, price int64) *entity.Quotation {
	t.Helper()
	q, err := f.uc.SubmitQuotation(actor, rfqID, dto.SubmitQuotationInput{
		Items: []dto.QuotationItemInput{
			{MaterialID: "mat-1", Quantity: 10, PricePerUnit: decimal.NewFromInt(price)},
			{MaterialID: "mat-2", Quantity: 5, PricePerUnit: decimal.NewFromInt(price * 2)},
		},
	})
	require.NoError(t, err)
	return q
}

func TestCreateRFQ_SnapshotDeLineas(t *testing.T) {
	f := newFixture(t, sourcing.Config{})
	rfq := f.createRFQ(t, "sup-1")

	require.Len(t, rfq.Items, 2)
	assert.Equal(t, "MX-001", rfq.Items[0].MaximoID, "la línea lleva snapshot del maestro")
	assert.Equal(t, "Filtro de aceite", rfq.Items[0].Description)
	assert.Equal(t, entity.RFQOpen, rfq.Status)
}

func TestCreateRFQ_DestinatarioSinRolSupplier(t *testing.T) {
	f := newFixture(t, sourcing.Config{})

	_, err := f.uc.CreateQuotationRequest(compras, dto.CreateRFQInput{
		Items:       []dto.RFQItemInput{{MaterialID: "mat-1", Quantity: 1}},
		DueDate:     time.Now().Add(24 * time.Hour),
		SupplierIDs: []string{"u-depto"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmitQuotation_TotalRecalculadoServerSide(t *testing.T) {
	f := newFixture(t, sourcing.Config{})
	rfq := f.createRFQ(t, "sup-1")

	q := f.submit(t, proveedor1, rfq.ID, 100)
	// 10×100 + 5×200 = 2000
	assert.True(t, q.Total().Equal(decimal.NewFromInt(2000)), "total = %s", q.Total())
	assert.Equal(t, entity.QuotationPending, q.Status)
}

func TestSubmitQuotation_SoloDestinatarios(t *testing.T) {
	f := newFixture(t, sourcing.Config{})
	rfq := f.createRFQ(t, "sup-1")

	_, err := f.uc.SubmitQuotation(proveedor2, rfq.ID, dto.SubmitQuotationInput{
		Items: []dto.QuotationItemInput{{MaterialID: "mat-1", Quantity: 10, PricePerUnit: decimal.NewFromInt(90)}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSubmitQuotation_DobleCotizacionDelMismoProveedor(t *testing.T) {
	f := newFixture(t, sourcing.Config{})
	rfq := f.createRFQ(t, "sup-1")
	f.submit(t, proveedor1, rfq.ID, 100)

	_, err := f.uc.SubmitQuotation(proveedor1, rfq.ID, dto.SubmitQuotationInput{
		Items: []dto.QuotationItemInput{{MaterialID: "mat-1", Quantity: 10, PricePerUnit: decimal.NewFromInt(95)}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSubmitQuotation_MaterialFueraDelRFQ(t *testing.T) {
	f := newFixture(t, sourcing.Config{})
	rfq, err := f.uc.CreateQuotationRequest(compras, dto.CreateRFQInput{
		Items:       []dto.RFQItemInput{{MaterialID: "mat-1", Quantity: 10}},
		DueDate:     time.Now().Add(24 * time.Hour),
		SupplierIDs: []string{"sup-1"},
	})
	require.NoError(t, err)

	_, err = f.uc.SubmitQuotation(proveedor1, rfq.ID, dto.SubmitQuotationInput{
		Items: []dto.QuotationItemInput{{MaterialID: "mat-2", Quantity: 5, PricePerUnit: decimal.NewFromInt(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Aprobar crea la orden de compra en la misma transacción, copiando
// líneas y total de la cotización.
func TestApproveQuotation_CreaLaOrden(t *testing.T) {
	f := newFixture(t, sourcing.Config{AutoCloseOnApproval: true})
	rfq := f.createRFQ(t, "sup-1")
	q := f.submit(t, proveedor1, rfq.ID, 100)

	delivery := time.Now().Add(7 * 24 * time.Hour)
	gotQ, po, err := f.uc.ApproveQuotation(context.Background(), compras, q.ID, dto.ApproveQuotationInput{
		ExpectedDeliveryDate: delivery,
		PaymentTerms:         "30 días",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.QuotationApproved, gotQ.Status)
	assert.Equal(t, "30 días", gotQ.PaymentTerms)

	require.NotNil(t, po)
	assert.Equal(t, q.ID, po.QuotationID)
	assert.Equal(t, "sup-1", po.SupplierID)
	assert.Equal(t, entity.POPending, po.Status)
	assert.True(t, po.TotalAmount.Equal(gotQ.Total()), "el total de la orden iguala al de la cotización")
	assert.Len(t, po.Items, 2)

	// La orden quedó persistida.
	stored, err := f.orders.GetByID(po.ID)
	require.NoError(t, err)
	assert.Equal(t, po.ID, stored.ID)

	// Con AutoCloseOnApproval el RFQ queda cerrado.
	gotRFQ, err := f.uc.GetQuotationRequest(rfq.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RFQClosed, gotRFQ.Status)
}

func TestApproveQuotation_SinAutoCierreElRFQSigueAbierto(t *testing.T) {
	f := newFixture(t, sourcing.Config{AutoCloseOnApproval: false})
	rfq := f.createRFQ(t, "sup-1", "sup-2")
	q := f.submit(t, proveedor1, rfq.ID, 100)

	_, _, err := f.uc.ApproveQuotation(context.Background(), compras, q.ID, dto.ApproveQuotationInput{
		ExpectedDeliveryDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	gotRFQ, err := f.uc.GetQuotationRequest(rfq.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RFQOpen, gotRFQ.Status)
}

// Única aprobada por RFQ: aprobar una segunda cotización hermana falla
// con ErrConflict y no crea una segunda orden.
func TestApproveQuotation_SegundaAprobacionEntraEnConflicto(t *testing.T) {
	f := newFixture(t, sourcing.Config{})
	rfq := f.createRFQ(t, "sup-1", "sup-2")
	q1 := f.submit(t, proveedor1, rfq.ID, 100)
	q2 := f.submit(t, proveedor2, rfq.ID, 90)

	_, _, err := f.uc.ApproveQuotation(context.Background(), compras, q1.ID, dto.ApproveQuotationInput{
		ExpectedDeliveryDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	_, _, err = f.uc.ApproveQuotation(context.Background(), compras, q2.ID, dto.ApproveQuotationInput{
		ExpectedDeliveryDate: time.Now().Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, total, err := f.orders.List(20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total, "solo la primera aprobación creó orden")
}

func TestRejectQuotation_RazonObligatoria(t *testing.T) {
	f := newFixture(t, sourcing.Config{})
	rfq := f.createRFQ(t, "sup-1")
	q := f.submit(t, proveedor1, rfq.ID, 100)

	_, err := f.uc.RejectQuotation(compras, q.ID, dto.RejectQuotationInput{Reason: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.uc.RejectQuotation(compras, q.ID, dto.RejectQuotationInput{Reason: "precio fuera de presupuesto"})
	require.NoError(t, err)
	assert.Equal(t, entity.QuotationRejected, got.Status)
}

// Con CloseOnAllRejected, el último rechazo cierra el RFQ.
func TestRejectQuotation_CierreAlRechazarTodas(t *testing.T) {
	f := newFixture(t, sourcing.Config{CloseOnAllRejected: true})
	rfq := f.createRFQ(t, "sup-1", "sup-2")
	q1 := f.submit(t, proveedor1, rfq.ID, 100)
	q2 := f.submit(t, proveedor2, rfq.ID, 90)

	_, err := f.uc.RejectQuotation(compras, q1.ID, dto.RejectQuotationInput{Reason: "caro"})
	require.NoError(t, err)

	gotRFQ, err := f.uc.GetQuotationRequest(rfq.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RFQOpen, gotRFQ.Status, "queda una pendiente, el RFQ sigue abierto")

	_, err = f.uc.RejectQuotation(compras, q2.ID, dto.RejectQuotationInput{Reason: "plazo largo"})
	require.NoError(t, err)

	gotRFQ, err = f.uc.GetQuotationRequest(rfq.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RFQClosed, gotRFQ.Status)
}

func TestSubmitQuotation_RFQCerradoNoAceptaOfertas(t *testing.T) {
	f := newFixture(t, sourcing.Config{})
	rfq := f.createRFQ(t, "sup-1")
	_, err := f.uc.CloseQuotationRequest(compras, rfq.ID)
	require.NoError(t, err)

	_, err = f.uc.SubmitQuotation(proveedor1, rfq.ID, dto.SubmitQuotationInput{
		Items: []dto.QuotationItemInput{{MaterialID: "mat-1", Quantity: 10, PricePerUnit: decimal.NewFromInt(100)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
