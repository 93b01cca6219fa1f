package entity

import "time"

// Tipos de ítem del maestro de materiales.
const (
	ItemTypeConsumable = "consumable"
	ItemTypeSparePart  = "spare-part"
)

// ValidItemType verifica que el tipo de ítem sea uno de los soportados.
func ValidItemType(t string) bool {
	return t == ItemTypeConsumable || t == ItemTypeSparePart
}

// Material maestro de materiales con stock actual. El MaximoID es el
// código externo (sistema Maximo) y es único. Solo el catálogo muta
// stock; el resto de engines lo hace a través de AdjustStock.
type Material struct {
	ID            string
	MaximoID      string
	Description   string
	Unit          string // Pcs, Kg, m, ...
	ItemType      string // consumable | spare-part
	InitialStock  int64
	CurrentStock  int64 // invariante: nunca negativo
	LowStockValue int64
	LowStock      bool // derivado: CurrentStock < LowStockValue
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecomputeLowStock recalcula el flag derivado tras cualquier cambio de stock o umbral.
func (m *Material) RecomputeLowStock() {
	m.LowStock = m.CurrentStock < m.LowStockValue
}
