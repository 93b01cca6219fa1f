package memory

import (
	"sort"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación en memoria de MaterialRepository.
type MaterialRepo struct {
	store *Store
	tx    bool // repos atados a una tx no toman el lock (lo tiene el runner)
}

// NewMaterialRepository construye el adaptador.
func NewMaterialRepository(store *Store) *MaterialRepo {
	return &MaterialRepo{store: store}
}

func (r *MaterialRepo) lock() func() {
	if r.tx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

// Create persiste un material nuevo; MaximoID único.
func (r *MaterialRepo) Create(m *entity.Material) error {
	defer r.lock()()
	for _, existing := range r.store.materials {
		if existing.MaximoID == m.MaximoID {
			return domain.ErrDuplicate
		}
	}
	r.store.materials[m.ID] = *m
	return nil
}

// CreateBatch inserta todas las filas o ninguna.
func (r *MaterialRepo) CreateBatch(ms []*entity.Material) error {
	defer r.lock()()
	for _, m := range ms {
		for _, existing := range r.store.materials {
			if existing.MaximoID == m.MaximoID {
				return domain.ErrDuplicate
			}
		}
	}
	for _, m := range ms {
		r.store.materials[m.ID] = *m
	}
	return nil
}

// GetByID devuelve una copia del material.
func (r *MaterialRepo) GetByID(id string) (*entity.Material, error) {
	defer r.lock()()
	m, ok := r.store.materials[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

// GetByMaximoID busca por código externo.
func (r *MaterialRepo) GetByMaximoID(maximoID string) (*entity.Material, error) {
	defer r.lock()()
	for _, m := range r.store.materials {
		if m.MaximoID == maximoID {
			out := m
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Update persiste metadatos sin tocar CurrentStock.
func (r *MaterialRepo) Update(m *entity.Material) error {
	defer r.lock()()
	stored, ok := r.store.materials[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *m
	next.CurrentStock = stored.CurrentStock
	next.RecomputeLowStock()
	r.store.materials[m.ID] = next
	*m = next
	return nil
}

// AdjustStock read-modify-write atómico bajo el lock del store: si el
// resultado sería negativo devuelve ErrInsufficientStock sin mutar.
func (r *MaterialRepo) AdjustStock(id string, delta int64) (*entity.Material, error) {
	defer r.lock()()
	m, ok := r.store.materials[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next := m.CurrentStock + delta
	if next < 0 {
		return nil, domain.ErrInsufficientStock
	}
	m.CurrentStock = next
	m.RecomputeLowStock()
	m.UpdatedAt = time.Now()
	r.store.materials[id] = m
	out := m
	return &out, nil
}

// List devuelve una página ordenada por fecha de creación.
func (r *MaterialRepo) List(limit, offset int) ([]*entity.Material, int, error) {
	defer r.lock()()
	all := make([]entity.Material, 0, len(r.store.materials))
	for _, m := range r.store.materials {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	page := paginate(all, limit, offset)
	out := make([]*entity.Material, 0, len(page))
	for i := range page {
		out = append(out, &page[i])
	}
	return out, len(all), nil
}

// paginate recorta un slice ya ordenado.
func paginate[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
