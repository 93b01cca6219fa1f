// Package catalog implementa el catálogo de materiales: alta individual
// y masiva, ajuste atómico de stock y consultas. Es la dependencia hoja
// del resto de engines; nadie más muta stock.
package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/authz"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/event"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// UseCase casos de uso del catálogo de materiales.
type UseCase struct {
	materials repository.MaterialRepository
	events    event.Sink
}

// NewUseCase construye el caso de uso.
func NewUseCase(materials repository.MaterialRepository, events event.Sink) *UseCase {
	return &UseCase{materials: materials, events: events}
}

// Create da de alta un material. CurrentStock arranca en InitialStock.
func (uc *UseCase) Create(actor authz.Actor, in dto.CreateMaterialRequest) (*entity.Material, error) {
	if !authz.Allowed(actor.Role, authz.ActionCreateMaterial) {
		return nil, domain.ErrForbidden
	}
	if reason := validateMaterialInput(in); reason != "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.materials.GetByMaximoID(in.MaximoID)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	m := newMaterial(in)
	if err := uc.materials.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

// BulkCreate alta masiva todo-o-nada. Cada fila se valida de forma
// independiente; si alguna es inválida la operación completa falla con
// un BatchError que lista índice y motivo, sin commit parcial.
func (uc *UseCase) BulkCreate(actor authz.Actor, rows []dto.CreateMaterialRequest) ([]*entity.Material, error) {
	if !authz.Allowed(actor.Role, authz.ActionCreateMaterial) {
		return nil, domain.ErrForbidden
	}
	if len(rows) == 0 {
		return nil, domain.ErrInvalidInput
	}
	batchErr := &domain.BatchError{}
	seen := make(map[string]int)
	ms := make([]*entity.Material, 0, len(rows))
	for i, row := range rows {
		if reason := validateMaterialInput(row); reason != "" {
			batchErr.Add(i, reason)
			continue
		}
		if prev, dup := seen[row.MaximoID]; dup {
			batchErr.Add(i, "maximoId repetido en el lote (fila "+strconv.Itoa(prev)+")")
			continue
		}
		seen[row.MaximoID] = i
		if existing, _ := uc.materials.GetByMaximoID(row.MaximoID); existing != nil {
			batchErr.Add(i, "maximoId ya registrado: "+row.MaximoID)
			continue
		}
		ms = append(ms, newMaterial(row))
	}
	if batchErr.HasErrors() {
		return nil, batchErr
	}
	if err := uc.materials.CreateBatch(ms); err != nil {
		return nil, err
	}
	return ms, nil
}

// Update edita metadatos del material (no toca CurrentStock).
func (uc *UseCase) Update(actor authz.Actor, id string, in dto.UpdateMaterialRequest) (*entity.Material, error) {
	if !authz.Allowed(actor.Role, authz.ActionUpdateMaterial) {
		return nil, domain.ErrForbidden
	}
	m, err := uc.materials.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.ItemType != "" && !entity.ValidItemType(in.ItemType) {
		return nil, domain.ErrInvalidInput
	}
	if in.LowStockValue != nil && *in.LowStockValue < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Description != "" {
		m.Description = in.Description
	}
	if in.Unit != "" {
		m.Unit = in.Unit
	}
	if in.ItemType != "" {
		m.ItemType = in.ItemType
	}
	if in.LowStockValue != nil {
		m.LowStockValue = *in.LowStockValue
	}
	m.RecomputeLowStock()
	m.UpdatedAt = time.Now()
	if err := uc.materials.Update(m); err != nil {
		return nil, err
	}
	return m, nil
}

// AdjustStock ajuste manual de stock por compras/admin. Los ajustes que
// disparan los otros engines (supply, receive) no pasan por aquí sino
// directo por el repositorio dentro de su transacción.
func (uc *UseCase) AdjustStock(actor authz.Actor, id string, delta int64) (*entity.Material, error) {
	if !authz.Allowed(actor.Role, authz.ActionAdjustStock) {
		return nil, domain.ErrForbidden
	}
	if delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	m, err := uc.materials.AdjustStock(id, delta)
	if err != nil {
		return nil, err
	}
	if e, crossed := event.LowStockCrossed(m, delta, actor.UserID); crossed {
		uc.events.Publish(e)
	}
	return m, nil
}

// Get devuelve un material por ID.
func (uc *UseCase) Get(id string) (*entity.Material, error) {
	return uc.materials.GetByID(id)
}

// List devuelve una página del maestro de materiales.
func (uc *UseCase) List(limit, offset int) ([]*entity.Material, int, error) {
	return uc.materials.List(limit, offset)
}

// validateMaterialInput devuelve el motivo de invalidez o "" si la fila es válida.
func validateMaterialInput(in dto.CreateMaterialRequest) string {
	switch {
	case strings.TrimSpace(in.MaximoID) == "":
		return "maximoId requerido"
	case strings.TrimSpace(in.Description) == "":
		return "description requerida"
	case strings.TrimSpace(in.Unit) == "":
		return "unit requerida"
	case !entity.ValidItemType(in.ItemType):
		return "itemType debe ser consumable o spare-part"
	case in.InitialStock < 0:
		return "initialStock no puede ser negativo"
	case in.LowStockValue < 0:
		return "lowStockValue no puede ser negativo"
	}
	return ""
}

func newMaterial(in dto.CreateMaterialRequest) *entity.Material {
	now := time.Now()
	m := &entity.Material{
		ID:            uuid.New().String(),
		MaximoID:      strings.TrimSpace(in.MaximoID),
		Description:   strings.TrimSpace(in.Description),
		Unit:          strings.TrimSpace(in.Unit),
		ItemType:      in.ItemType,
		InitialStock:  in.InitialStock,
		CurrentStock:  in.InitialStock,
		LowStockValue: in.LowStockValue,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.RecomputeLowStock()
	return m
}
