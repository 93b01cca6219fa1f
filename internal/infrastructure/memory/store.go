// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con la misma semántica que los adaptadores PostgreSQL
// (control optimista por versión, CAS de stock, transacciones
// todo-o-nada). Lo usan los tests de los engines y sirve para correr el
// servicio sin base de datos.
package memory

import (
	"sync"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// Store agrupa el estado en memoria. Las entidades se guardan por valor
// y nunca se mutan in place: cada Update reemplaza la entrada, así el
// snapshot de TxRunner puede restaurar con una copia superficial.
type Store struct {
	mu         sync.Mutex
	materials  map[string]entity.Material
	requests   map[string]entity.MaterialRequest
	rfqs       map[string]entity.QuotationRequest
	quotations map[string]entity.Quotation
	orders     map[string]entity.PurchaseOrder
	users      map[string]entity.User
}

// NewStore crea el estado vacío.
func NewStore() *Store {
	return &Store{
		materials:  make(map[string]entity.Material),
		requests:   make(map[string]entity.MaterialRequest),
		rfqs:       make(map[string]entity.QuotationRequest),
		quotations: make(map[string]entity.Quotation),
		orders:     make(map[string]entity.PurchaseOrder),
		users:      make(map[string]entity.User),
	}
}

// SeedUser carga un usuario (helper de wiring/tests).
func (s *Store) SeedUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// snapshot copia superficial de todos los mapas (suficiente: los valores
// almacenados son inmutables por convención).
func (s *Store) snapshot() storeSnapshot {
	return storeSnapshot{
		materials:  copyMap(s.materials),
		requests:   copyMap(s.requests),
		rfqs:       copyMap(s.rfqs),
		quotations: copyMap(s.quotations),
		orders:     copyMap(s.orders),
	}
}

// restore vuelve al estado del snapshot (rollback de TxRunner).
func (s *Store) restore(snap storeSnapshot) {
	s.materials = snap.materials
	s.requests = snap.requests
	s.rfqs = snap.rfqs
	s.quotations = snap.quotations
	s.orders = snap.orders
}

type storeSnapshot struct {
	materials  map[string]entity.Material
	requests   map[string]entity.MaterialRequest
	rfqs       map[string]entity.QuotationRequest
	quotations map[string]entity.Quotation
	orders     map[string]entity.PurchaseOrder
}

func copyMap[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
