package memory

import (
	"sort"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.MaterialRequestRepository = (*MaterialRequestRepo)(nil)

// MaterialRequestRepo implementación en memoria de MaterialRequestRepository.
type MaterialRequestRepo struct {
	store *Store
	tx    bool
}

// NewMaterialRequestRepository construye el adaptador.
func NewMaterialRequestRepository(store *Store) *MaterialRequestRepo {
	return &MaterialRequestRepo{store: store}
}

func (r *MaterialRequestRepo) lock() func() {
	if r.tx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

// Create persiste una solicitud nueva.
func (r *MaterialRequestRepo) Create(req *entity.MaterialRequest) error {
	defer r.lock()()
	r.store.requests[req.ID] = *req
	return nil
}

// CreateBatch inserta todas las solicitudes o ninguna.
func (r *MaterialRequestRepo) CreateBatch(reqs []*entity.MaterialRequest) error {
	defer r.lock()()
	for _, req := range reqs {
		r.store.requests[req.ID] = *req
	}
	return nil
}

// GetByID devuelve una copia de la solicitud.
func (r *MaterialRequestRepo) GetByID(id string) (*entity.MaterialRequest, error) {
	defer r.lock()()
	req, ok := r.store.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &req, nil
}

// Update control optimista: la Version del caller debe coincidir con la
// almacenada; si otra escritura ganó devuelve ErrConflict sin mutar.
func (r *MaterialRequestRepo) Update(req *entity.MaterialRequest) error {
	defer r.lock()()
	stored, ok := r.store.requests[req.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != req.Version {
		return domain.ErrConflict
	}
	req.Version++
	req.UpdatedAt = time.Now()
	r.store.requests[req.ID] = *req
	return nil
}

// List devuelve una página de todas las solicitudes.
func (r *MaterialRequestRepo) List(limit, offset int) ([]*entity.MaterialRequest, int, error) {
	return r.list(func(entity.MaterialRequest) bool { return true }, limit, offset)
}

// ListByRequester filtra por solicitante.
func (r *MaterialRequestRepo) ListByRequester(requesterID string, limit, offset int) ([]*entity.MaterialRequest, int, error) {
	return r.list(func(req entity.MaterialRequest) bool { return req.RequesterID == requesterID }, limit, offset)
}

func (r *MaterialRequestRepo) list(keep func(entity.MaterialRequest) bool, limit, offset int) ([]*entity.MaterialRequest, int, error) {
	defer r.lock()()
	all := make([]entity.MaterialRequest, 0, len(r.store.requests))
	for _, req := range r.store.requests {
		if keep(req) {
			all = append(all, req)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	page := paginate(all, limit, offset)
	out := make([]*entity.MaterialRequest, 0, len(page))
	for i := range page {
		out = append(out, &page[i])
	}
	return out, len(all), nil
}
