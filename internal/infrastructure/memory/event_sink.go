package memory

import (
	"sync"

	"github.com/jhoicas/Compras-api/internal/domain/event"
)

var _ event.Sink = (*EventSink)(nil)

// EventSink acumula los eventos publicados (para tests y wiring sin
// colaborador de notificaciones).
type EventSink struct {
	mu     sync.Mutex
	events []event.Event
}

// NewEventSink construye el sink vacío.
func NewEventSink() *EventSink { return &EventSink{} }

// Publish guarda el evento.
func (s *EventSink) Publish(e event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// Events devuelve una copia de lo publicado.
func (s *EventSink) Events() []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]event.Event, len(s.events))
	copy(out, s.events)
	return out
}

// OfType filtra por tipo de evento.
func (s *EventSink) OfType(t event.Type) []event.Event {
	var out []event.Event
	for _, e := range s.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
