package memory

import (
	"sort"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.QuotationRequestRepository = (*QuotationRequestRepo)(nil)
var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRequestRepo implementación en memoria de QuotationRequestRepository.
type QuotationRequestRepo struct {
	store *Store
	tx    bool
}

// NewQuotationRequestRepository construye el adaptador.
func NewQuotationRequestRepository(store *Store) *QuotationRequestRepo {
	return &QuotationRequestRepo{store: store}
}

func (r *QuotationRequestRepo) lock() func() {
	if r.tx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

// Create persiste un RFQ nuevo.
func (r *QuotationRequestRepo) Create(q *entity.QuotationRequest) error {
	defer r.lock()()
	r.store.rfqs[q.ID] = *q
	return nil
}

// GetByID devuelve una copia del RFQ.
func (r *QuotationRequestRepo) GetByID(id string) (*entity.QuotationRequest, error) {
	defer r.lock()()
	q, ok := r.store.rfqs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &q, nil
}

// Update control optimista por Version.
func (r *QuotationRequestRepo) Update(q *entity.QuotationRequest) error {
	defer r.lock()()
	stored, ok := r.store.rfqs[q.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != q.Version {
		return domain.ErrConflict
	}
	q.Version++
	q.UpdatedAt = time.Now()
	r.store.rfqs[q.ID] = *q
	return nil
}

// List devuelve una página de RFQs.
func (r *QuotationRequestRepo) List(limit, offset int) ([]*entity.QuotationRequest, int, error) {
	return r.list(func(entity.QuotationRequest) bool { return true }, limit, offset)
}

// ListBySupplier filtra los RFQs dirigidos a un proveedor.
func (r *QuotationRequestRepo) ListBySupplier(supplierID string, limit, offset int) ([]*entity.QuotationRequest, int, error) {
	return r.list(func(q entity.QuotationRequest) bool {
		return (&q).AddressedTo(supplierID)
	}, limit, offset)
}

func (r *QuotationRequestRepo) list(keep func(entity.QuotationRequest) bool, limit, offset int) ([]*entity.QuotationRequest, int, error) {
	defer r.lock()()
	all := make([]entity.QuotationRequest, 0, len(r.store.rfqs))
	for _, q := range r.store.rfqs {
		if keep(q) {
			all = append(all, q)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	page := paginate(all, limit, offset)
	out := make([]*entity.QuotationRequest, 0, len(page))
	for i := range page {
		out = append(out, &page[i])
	}
	return out, len(all), nil
}

// QuotationRepo implementación en memoria de QuotationRepository.
type QuotationRepo struct {
	store *Store
	tx    bool
}

// NewQuotationRepository construye el adaptador.
func NewQuotationRepository(store *Store) *QuotationRepo {
	return &QuotationRepo{store: store}
}

func (r *QuotationRepo) lock() func() {
	if r.tx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

// Create persiste una cotización nueva.
func (r *QuotationRepo) Create(q *entity.Quotation) error {
	defer r.lock()()
	r.store.quotations[q.ID] = *q
	return nil
}

// GetByID devuelve una copia de la cotización.
func (r *QuotationRepo) GetByID(id string) (*entity.Quotation, error) {
	defer r.lock()()
	q, ok := r.store.quotations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &q, nil
}

// Update control optimista por Version.
func (r *QuotationRepo) Update(q *entity.Quotation) error {
	defer r.lock()()
	stored, ok := r.store.quotations[q.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != q.Version {
		return domain.ErrConflict
	}
	q.Version++
	q.UpdatedAt = time.Now()
	r.store.quotations[q.ID] = *q
	return nil
}

// ListByRequest devuelve todas las cotizaciones de un RFQ, ordenadas por creación.
func (r *QuotationRepo) ListByRequest(quotationRequestID string) ([]*entity.Quotation, error) {
	defer r.lock()()
	all := make([]entity.Quotation, 0)
	for _, q := range r.store.quotations {
		if q.QuotationRequestID == quotationRequestID {
			all = append(all, q)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	out := make([]*entity.Quotation, 0, len(all))
	for i := range all {
		out = append(out, &all[i])
	}
	return out, nil
}

// ListBySupplier filtra por proveedor.
func (r *QuotationRepo) ListBySupplier(supplierID string, limit, offset int) ([]*entity.Quotation, int, error) {
	defer r.lock()()
	all := make([]entity.Quotation, 0)
	for _, q := range r.store.quotations {
		if q.SupplierID == supplierID {
			all = append(all, q)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	page := paginate(all, limit, offset)
	out := make([]*entity.Quotation, 0, len(page))
	for i := range page {
		out = append(out, &page[i])
	}
	return out, len(all), nil
}
