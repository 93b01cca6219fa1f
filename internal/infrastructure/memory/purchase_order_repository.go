package memory

import (
	"sort"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación en memoria de PurchaseOrderRepository.
type PurchaseOrderRepo struct {
	store *Store
	tx    bool
}

// NewPurchaseOrderRepository construye el adaptador.
func NewPurchaseOrderRepository(store *Store) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{store: store}
}

func (r *PurchaseOrderRepo) lock() func() {
	if r.tx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

// Create persiste una orden nueva.
func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	defer r.lock()()
	r.store.orders[po.ID] = *po
	return nil
}

// GetByID devuelve una copia de la orden.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	defer r.lock()()
	po, ok := r.store.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &po, nil
}

// Update control optimista por Version.
func (r *PurchaseOrderRepo) Update(po *entity.PurchaseOrder) error {
	defer r.lock()()
	stored, ok := r.store.orders[po.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != po.Version {
		return domain.ErrConflict
	}
	po.Version++
	po.UpdatedAt = time.Now()
	r.store.orders[po.ID] = *po
	return nil
}

// List devuelve una página de órdenes.
func (r *PurchaseOrderRepo) List(limit, offset int) ([]*entity.PurchaseOrder, int, error) {
	return r.list(func(entity.PurchaseOrder) bool { return true }, limit, offset)
}

// ListBySupplier filtra por proveedor.
func (r *PurchaseOrderRepo) ListBySupplier(supplierID string, limit, offset int) ([]*entity.PurchaseOrder, int, error) {
	return r.list(func(po entity.PurchaseOrder) bool { return po.SupplierID == supplierID }, limit, offset)
}

func (r *PurchaseOrderRepo) list(keep func(entity.PurchaseOrder) bool, limit, offset int) ([]*entity.PurchaseOrder, int, error) {
	defer r.lock()()
	all := make([]entity.PurchaseOrder, 0, len(r.store.orders))
	for _, po := range r.store.orders {
		if keep(po) {
			all = append(all, po)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	page := paginate(all, limit, offset)
	out := make([]*entity.PurchaseOrder, 0, len(page))
	for i := range page {
		out = append(out, &page[i])
	}
	return out, len(all), nil
}
