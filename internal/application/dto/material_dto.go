package dto

import (
	"time"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// CreateMaterialRequest payload de alta de material.
type CreateMaterialRequest struct {
	MaximoID      string `json:"maximoId"`
	Description   string `json:"description"`
	Unit          string `json:"unit"`
	ItemType      string `json:"itemType"`
	InitialStock  int64  `json:"initialStock"`
	LowStockValue int64  `json:"lowStockValue"`
}

// UpdateMaterialRequest payload de edición de metadatos (no toca stock).
// Todos los campos son parciales: los omitidos conservan su valor,
// incluido el umbral (puntero para distinguir omitido de 0).
type UpdateMaterialRequest struct {
	Description   string `json:"description"`
	Unit          string `json:"unit"`
	ItemType      string `json:"itemType"`
	LowStockValue *int64 `json:"lowStockValue"`
}

// AdjustStockRequest ajuste manual de stock (delta positivo o negativo).
type AdjustStockRequest struct {
	Delta int64 `json:"delta"`
}

// MaterialResponse representación HTTP de un material.
type MaterialResponse struct {
	ID            string    `json:"id"`
	MaximoID      string    `json:"maximoId"`
	Description   string    `json:"description"`
	Unit          string    `json:"unit"`
	ItemType      string    `json:"itemType"`
	InitialStock  int64     `json:"initialStock"`
	CurrentStock  int64     `json:"currentStock"`
	LowStockValue int64     `json:"lowStockValue"`
	LowStock      bool      `json:"lowStock"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FromMaterial mapea la entidad a su respuesta HTTP.
func FromMaterial(m *entity.Material) *MaterialResponse {
	return &MaterialResponse{
		ID:            m.ID,
		MaximoID:      m.MaximoID,
		Description:   m.Description,
		Unit:          m.Unit,
		ItemType:      m.ItemType,
		InitialStock:  m.InitialStock,
		CurrentStock:  m.CurrentStock,
		LowStockValue: m.LowStockValue,
		LowStock:      m.LowStock,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromMaterials mapea un listado.
func FromMaterials(ms []*entity.Material) []*MaterialResponse {
	out := make([]*MaterialResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromMaterial(m))
	}
	return out
}
