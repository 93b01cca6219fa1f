// Package events adaptadores del puerto event.Sink. El sink de logs deja
// una traza estructurada de cada transición del flujo de compras; un
// adaptador de notificaciones reales (correo, webhook) puede reemplazarlo
// sin tocar los engines.
package events

import (
	"github.com/jhoicas/Compras-api/internal/domain/event"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

// LogSink publica eventos de dominio como entradas de log estructuradas.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink construye el sink sobre el logger de la app.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

// Publish registra el evento. Nunca bloquea ni devuelve error al engine.
func (s *LogSink) Publish(e event.Event) {
	ev := s.log.Info().
		Str("event", string(e.Type)).
		Str("entity_id", e.EntityID).
		Str("actor_id", e.ActorID).
		Time("occurred_at", e.OccurredAt)
	if len(e.Data) > 0 {
		ev = ev.Interface("data", e.Data)
	}
	ev.Msg("evento de dominio")
}
