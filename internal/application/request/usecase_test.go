package request_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/request"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/authz"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/event"
	"github.com/jhoicas/Compras-api/internal/infrastructure/memory"
)

var (
	compras = authz.Actor{UserID: "u-compras", Role: entity.RolePurchasing}
	depto   = authz.Actor{UserID: "u-depto", Role: entity.RoleDepartment, Department: "mantenimiento"}
	otro    = authz.Actor{UserID: "u-otro", Role: entity.RoleDepartment, Department: "produccion"}
)

type fixture struct {
	uc       *request.UseCase
	sink     *memory.EventSink
	material *entity.Material
}

func newFixture(t *testing.T, stock int64) *fixture {
	t.Helper()
	store := memory.NewStore()
	sink := memory.NewEventSink()
	materials := memory.NewMaterialRepository(store)

	m := &entity.Material{
		ID:           "mat-1",
		MaximoID:     "MX-001",
		Description:  "Filtro de aceite",
		Unit:         "unidad",
		ItemType:     entity.ItemTypeConsumable,
		InitialStock: stock,
		CurrentStock: stock,
	}
	require.NoError(t, materials.Create(m))

	uc := request.NewUseCase(
		memory.NewTxRunner(store),
		memory.NewMaterialRequestRepository(store),
		materials,
		sink,
	)
	return &fixture{uc: uc, sink: sink, material: m}
}

func (f *fixture) create(t *testing.T, qty int64) *entity.MaterialRequest {
	t.Helper()
	r, err := f.uc.Create(depto, dto.CreateRequestInput{
		MaterialID: f.material.ID, Quantity: qty, Purpose: "mantenimiento preventivo",
	})
	require.NoError(t, err)
	return r
}

func TestCreate_SoloDepartamento(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.uc.Create(compras, dto.CreateRequestInput{MaterialID: f.material.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	r := f.create(t, 5)
	assert.Equal(t, entity.RequestPendingApproval, r.Status)
	assert.Equal(t, depto.UserID, r.RequesterID)
}

func TestCreate_MaterialInexistente(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.uc.Create(depto, dto.CreateRequestInput{MaterialID: "no-existe", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Camino feliz completo: crear -> aprobar -> suministrar -> recibir.
// El suministro descuenta stock; la recepción con calidad confirmada cierra.
func TestCicloCompleto_SolicitudSuministradaYRecibida(t *testing.T) {
	f := newFixture(t, 10)
	r := f.create(t, 4)

	r, err := f.uc.Approve(compras, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestApproved, r.Status)
	assert.NotNil(t, r.ApprovalDate)

	r, err = f.uc.Supply(context.Background(), compras, r.ID, dto.SupplyRequestInput{})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestSupplied, r.Status)
	assert.Equal(t, int64(4), r.SuppliedQuantity)

	r, err = f.uc.Receive(depto, r.ID, dto.ReceiveRequestInput{QualityConfirmed: true})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestReceivedConfirmed, r.Status)
	assert.NotNil(t, r.ReceivedDate)
}

// Aprobar dos veces no es idempotente: la segunda es transición ilegal.
func TestApprove_RepetidoFallaConEstadoInvalido(t *testing.T) {
	f := newFixture(t, 10)
	r := f.create(t, 2)

	_, err := f.uc.Approve(compras, r.ID)
	require.NoError(t, err)

	_, err = f.uc.Approve(compras, r.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReject_RazonObligatoria(t *testing.T) {
	f := newFixture(t, 10)
	r := f.create(t, 2)

	_, err := f.uc.Reject(compras, r.ID, dto.RejectRequestInput{Reason: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.uc.Reject(compras, r.ID, dto.RejectRequestInput{Reason: "cantidad excesiva"})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestRejected, got.Status)
	assert.Equal(t, "cantidad excesiva", got.Reason)
}

// Reparación: el dueño reenvía la solicitud rechazada con el payload
// corregido; vuelve a pending y la razón de rechazo se limpia.
func TestRepair_SoloElDuenoYVuelveAPendiente(t *testing.T) {
	f := newFixture(t, 10)
	r := f.create(t, 8)

	_, err := f.uc.Reject(compras, r.ID, dto.RejectRequestInput{Reason: "cantidad excesiva"})
	require.NoError(t, err)

	_, err = f.uc.Repair(otro, r.ID, dto.RepairRequestInput{Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrForbidden, "otro departamento no puede reparar")

	got, err := f.uc.Repair(depto, r.ID, dto.RepairRequestInput{Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestPendingApproval, got.Status)
	assert.Equal(t, int64(3), got.Quantity)
	assert.Empty(t, got.Reason)
	assert.Nil(t, got.ApprovalDate)
}

// Suministro parcial: cantidad menor a la pedida deja la solicitud en
// partially supplied y descuenta solo lo entregado.
func TestSupply_ParcialDescuentaSoloLoEntregado(t *testing.T) {
	f := newFixture(t, 10)
	r := f.create(t, 6)
	_, err := f.uc.Approve(compras, r.ID)
	require.NoError(t, err)

	got, err := f.uc.Supply(context.Background(), compras, r.ID, dto.SupplyRequestInput{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestPartiallySupplied, got.Status)
	assert.Equal(t, int64(4), got.SuppliedQuantity)
}

func TestSupply_CantidadMayorALaPedidaEsInvalida(t *testing.T) {
	f := newFixture(t, 10)
	r := f.create(t, 3)
	_, err := f.uc.Approve(compras, r.ID)
	require.NoError(t, err)

	_, err = f.uc.Supply(context.Background(), compras, r.ID, dto.SupplyRequestInput{Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Stock insuficiente: la transacción aborta, la solicitud permanece
// approved y el stock no cambia. Nunca se degrada a parcial en silencio.
func TestSupply_StockInsuficienteDejaLaSolicitudAprobada(t *testing.T) {
	f := newFixture(t, 2)
	r := f.create(t, 5)
	_, err := f.uc.Approve(compras, r.ID)
	require.NoError(t, err)

	_, err = f.uc.Supply(context.Background(), compras, r.ID, dto.SupplyRequestInput{})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.uc.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestApproved, got.Status)
	assert.Zero(t, got.SuppliedQuantity)
}

func TestReceive_CalidadRechazada(t *testing.T) {
	f := newFixture(t, 10)
	r := f.create(t, 2)
	_, err := f.uc.Approve(compras, r.ID)
	require.NoError(t, err)
	_, err = f.uc.Supply(context.Background(), compras, r.ID, dto.SupplyRequestInput{})
	require.NoError(t, err)

	got, err := f.uc.Receive(depto, r.ID, dto.ReceiveRequestInput{QualityConfirmed: false})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestReceivedRejected, got.Status)
}

func TestReceive_SoloElDueno(t *testing.T) {
	f := newFixture(t, 10)
	r := f.create(t, 2)
	_, err := f.uc.Approve(compras, r.ID)
	require.NoError(t, err)
	_, err = f.uc.Supply(context.Background(), compras, r.ID, dto.SupplyRequestInput{})
	require.NoError(t, err)

	_, err = f.uc.Receive(otro, r.ID, dto.ReceiveRequestInput{QualityConfirmed: true})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// BulkCreate todo-o-nada con BatchError por fila.
func TestBulkCreate_FilaInvalidaAbortaElLote(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.uc.BulkCreate(depto, []dto.CreateRequestInput{
		{MaterialID: f.material.ID, Quantity: 2},
		{MaterialID: f.material.ID, Quantity: 0},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, total, err := f.uc.List(20, 0)
	require.NoError(t, err)
	assert.Zero(t, total, "el lote no debe persistir parcialmente")
}

// Escritura concurrente: la segunda escritura sobre la misma versión
// pierde con ErrConflict (control optimista).
func TestUpdate_ConflictoDeVersion(t *testing.T) {
	store := memory.NewStore()
	materials := memory.NewMaterialRepository(store)
	require.NoError(t, materials.Create(&entity.Material{ID: "mat-1", MaximoID: "MX-001", CurrentStock: 10}))
	requests := memory.NewMaterialRequestRepository(store)

	r := &entity.MaterialRequest{
		ID: "req-1", RequesterID: depto.UserID, MaterialID: "mat-1",
		Quantity: 2, Status: entity.RequestPendingApproval,
	}
	require.NoError(t, requests.Create(r))

	// Dos lecturas de la misma versión.
	first, err := requests.GetByID(r.ID)
	require.NoError(t, err)
	second, err := requests.GetByID(r.ID)
	require.NoError(t, err)

	first.Status = entity.RequestApproved
	require.NoError(t, requests.Update(first))

	second.Status = entity.RequestRejected
	second.Reason = "otro ganó"
	err = requests.Update(second)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := requests.GetByID(r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestApproved, got.Status, "gana la primera escritura")
}

// El descuento por suministro también avisa cuando cruza el umbral de
// stock bajo, igual que el ajuste manual del catálogo.
func TestSupply_PublicaEventoDeStockBajoAlCruzarElUmbral(t *testing.T) {
	store := memory.NewStore()
	sink := memory.NewEventSink()
	materials := memory.NewMaterialRepository(store)
	require.NoError(t, materials.Create(&entity.Material{
		ID: "mat-1", MaximoID: "MX-001", Description: "Filtro de aceite",
		Unit: "unidad", ItemType: entity.ItemTypeConsumable,
		CurrentStock: 10, LowStockValue: 5,
	}))
	uc := request.NewUseCase(
		memory.NewTxRunner(store),
		memory.NewMaterialRequestRepository(store),
		materials,
		sink,
	)

	r, err := uc.Create(depto, dto.CreateRequestInput{MaterialID: "mat-1", Quantity: 7, Purpose: "correctivo"})
	require.NoError(t, err)
	_, err = uc.Approve(compras, r.ID)
	require.NoError(t, err)

	_, err = uc.Supply(context.Background(), compras, r.ID, dto.SupplyRequestInput{})
	require.NoError(t, err)

	// 10 - 7 = 3 < 5: el suministro cruzó el umbral.
	events := sink.OfType(event.MaterialLowStock)
	require.Len(t, events, 1)
	assert.Equal(t, "mat-1", events[0].EntityID)
}

func TestEventos_SePublicanTrasCadaTransicion(t *testing.T) {
	f := newFixture(t, 10)
	r := f.create(t, 2)
	_, err := f.uc.Approve(compras, r.ID)
	require.NoError(t, err)

	assert.Len(t, f.sink.OfType(event.RequestCreated), 1)
	assert.Len(t, f.sink.OfType(event.RequestApproved), 1)
}
