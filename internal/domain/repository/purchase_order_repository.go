package repository

import "github.com/jhoicas/Compras-api/internal/domain/entity"

// PurchaseOrderRepository puerto de persistencia de órdenes de compra.
// Update con control optimista por Version.
type PurchaseOrderRepository interface {
	Create(po *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	Update(po *entity.PurchaseOrder) error
	List(limit, offset int) ([]*entity.PurchaseOrder, int, error)
	ListBySupplier(supplierID string, limit, offset int) ([]*entity.PurchaseOrder, int, error)
}
