package catalog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/application/catalog"
	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/authz"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/event"
	"github.com/jhoicas/Compras-api/internal/infrastructure/memory"
)

var (
	compras      = authz.Actor{UserID: "u-compras", Role: entity.RolePurchasing}
	departamento = authz.Actor{UserID: "u-depto", Role: entity.RoleDepartment, Department: "mantenimiento"}
)

func newCatalog(t *testing.T) (*catalog.UseCase, *memory.EventSink) {
	t.Helper()
	store := memory.NewStore()
	sink := memory.NewEventSink()
	return catalog.NewUseCase(memory.NewMaterialRepository(store), sink), sink
}

func validMaterial(maximoID string) dto.CreateMaterialRequest {
	return dto.CreateMaterialRequest{
		MaximoID:      maximoID,
		Description:   "Rodamiento 6205",
		Unit:          "unidad",
		ItemType:      entity.ItemTypeSparePart,
		InitialStock:  10,
		LowStockValue: 3,
	}
}

func TestCreate_AltaConStockInicial(t *testing.T) {
	uc, _ := newCatalog(t)

	m, err := uc.Create(compras, validMaterial("MX-001"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), m.CurrentStock, "el stock actual arranca en el inicial")
	assert.False(t, m.LowStock)
}

func TestCreate_RolSinPermisoRechazado(t *testing.T) {
	uc, _ := newCatalog(t)

	_, err := uc.Create(departamento, validMaterial("MX-001"))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_MaximoIDDuplicado(t *testing.T) {
	uc, _ := newCatalog(t)

	_, err := uc.Create(compras, validMaterial("MX-001"))
	require.NoError(t, err)

	_, err = uc.Create(compras, validMaterial("MX-001"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Alta masiva todo-o-nada: una fila inválida aborta el lote completo y el
// BatchError lista índice y motivo de cada fila mala.
func TestBulkCreate_FilaInvalidaAbortaElLote(t *testing.T) {
	uc, _ := newCatalog(t)

	rows := []dto.CreateMaterialRequest{
		validMaterial("MX-001"),
		{MaximoID: "MX-002", Description: "", Unit: "unidad", ItemType: entity.ItemTypeConsumable},
		validMaterial("MX-003"),
	}
	_, err := uc.BulkCreate(compras, rows)
	require.Error(t, err)

	var batchErr *domain.BatchError
	require.True(t, errors.As(err, &batchErr))
	require.Len(t, batchErr.Rows, 1)
	assert.Equal(t, 1, batchErr.Rows[0].Index)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "BatchError debe desenvolver a ErrInvalidInput")

	// Ninguna fila quedó persistida, ni siquiera las válidas.
	_, total, err := uc.List(20, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestBulkCreate_DuplicadoDentroDelLote(t *testing.T) {
	uc, _ := newCatalog(t)

	rows := []dto.CreateMaterialRequest{
		validMaterial("MX-001"),
		validMaterial("MX-001"),
	}
	_, err := uc.BulkCreate(compras, rows)

	var batchErr *domain.BatchError
	require.True(t, errors.As(err, &batchErr))
	require.Len(t, batchErr.Rows, 1)
	assert.Equal(t, 1, batchErr.Rows[0].Index)
}

func TestBulkCreate_LoteValidoPersisteTodo(t *testing.T) {
	uc, _ := newCatalog(t)

	ms, err := uc.BulkCreate(compras, []dto.CreateMaterialRequest{
		validMaterial("MX-001"), validMaterial("MX-002"), validMaterial("MX-003"),
	})
	require.NoError(t, err)
	assert.Len(t, ms, 3)

	_, total, err := uc.List(20, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestAdjustStock_NoBajaDeCero(t *testing.T) {
	uc, _ := newCatalog(t)
	m, err := uc.Create(compras, validMaterial("MX-001"))
	require.NoError(t, err)

	_, err = uc.AdjustStock(compras, m.ID, -11)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := uc.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.CurrentStock, "un ajuste fallido no debe tocar el stock")
}

func TestAdjustStock_PublicaEventoDeStockBajo(t *testing.T) {
	uc, sink := newCatalog(t)
	m, err := uc.Create(compras, validMaterial("MX-001"))
	require.NoError(t, err)

	got, err := uc.AdjustStock(compras, m.ID, -8)
	require.NoError(t, err)
	assert.True(t, got.LowStock, "2 < umbral 3")

	events := sink.OfType(event.MaterialLowStock)
	require.Len(t, events, 1)
	assert.Equal(t, m.ID, events[0].EntityID)

	// El evento es de cruce, no de estado: un ajuste que deja al material
	// igual de bajo no re-emite.
	_, err = uc.AdjustStock(compras, m.ID, -1)
	require.NoError(t, err)
	assert.Len(t, sink.OfType(event.MaterialLowStock), 1)
}

// umbral devuelve el puntero que UpdateMaterialRequest espera.
func umbral(v int64) *int64 { return &v }

func TestUpdate_NoTocaElStock(t *testing.T) {
	uc, _ := newCatalog(t)
	m, err := uc.Create(compras, validMaterial("MX-001"))
	require.NoError(t, err)

	got, err := uc.Update(compras, m.ID, dto.UpdateMaterialRequest{
		Description:   "Rodamiento 6205-2RS",
		Unit:          "unidad",
		ItemType:      entity.ItemTypeSparePart,
		LowStockValue: umbral(15),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.CurrentStock)
	assert.True(t, got.LowStock, "al subir el umbral por encima del stock el material queda en stock bajo")
}

// Edición parcial: un payload sin lowStockValue conserva el umbral
// vigente en vez de resetearlo a cero.
func TestUpdate_UmbralOmitidoSeConserva(t *testing.T) {
	uc, _ := newCatalog(t)
	m, err := uc.Create(compras, validMaterial("MX-001"))
	require.NoError(t, err)

	got, err := uc.Update(compras, m.ID, dto.UpdateMaterialRequest{
		Description: "Rodamiento 6205-ZZ",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.LowStockValue)
	assert.Equal(t, "Rodamiento 6205-ZZ", got.Description)

	_, err = uc.Update(compras, m.ID, dto.UpdateMaterialRequest{LowStockValue: umbral(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
