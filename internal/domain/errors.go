package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidState      = errors.New("transición de estado no permitida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// RowError error de validación de una fila dentro de una operación masiva.
type RowError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// BatchError agrupa las filas inválidas de una operación masiva.
// La operación completa falla: ninguna fila se persiste.
type BatchError struct {
	Rows []RowError `json:"rows"`
}

// Error lista índice y motivo de cada fila inválida.
func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Rows))
	for _, r := range e.Rows {
		parts = append(parts, fmt.Sprintf("fila %d: %s", r.Index, r.Reason))
	}
	return "lote inválido: " + strings.Join(parts, "; ")
}

// Unwrap permite errors.Is(err, ErrInvalidInput) sobre un BatchError.
func (e *BatchError) Unwrap() error { return ErrInvalidInput }

// Add registra una fila inválida.
func (e *BatchError) Add(index int, reason string) {
	e.Rows = append(e.Rows, RowError{Index: index, Reason: reason})
}

// HasErrors indica si el lote tiene filas inválidas.
func (e *BatchError) HasErrors() bool { return len(e.Rows) > 0 }
