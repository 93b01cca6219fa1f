package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// El INSERT multi-fila de CreateBatch depende de que las tuplas de
// placeholders numeren los argumentos de corrido, sin saltos ni repetidos.
func TestValuesPlaceholders(t *testing.T) {
	cases := []struct {
		rows, cols int
		want       string
	}{
		{1, 1, "($1)"},
		{1, 3, "($1, $2, $3)"},
		{2, 2, "($1, $2), ($3, $4)"},
		{3, 2, "($1, $2), ($3, $4), ($5, $6)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, valuesPlaceholders(c.rows, c.cols),
			"%d filas × %d columnas", c.rows, c.cols)
	}
}

func TestValuesPlaceholders_LoteGrandeNumeraDeCorrido(t *testing.T) {
	// 200 filas × 14 columnas (el ancho de material_requests).
	got := valuesPlaceholders(200, 14)
	assert.Equal(t, 200, strings.Count(got, "("))
	assert.Contains(t, got, "$2800)")
	assert.NotContains(t, got, "$2801")
}
