// seed importa el maestro de materiales desde un CSV exportado de Maximo
// y lo carga vía el alta masiva del catálogo (todo o nada).
//
// Uso: go run ./cmd/seed [ruta/materiales.csv]
// Por defecto busca materiales.csv en el directorio actual.
// Columnas esperadas: maximoId,description,unit,itemType,initialStock,lowStockValue
// El export de Maximo llega en ISO-8859-1; se transcodifica a UTF-8 al leer.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Compras-api/internal/application/catalog"
	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/authz"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/event"
	"github.com/jhoicas/Compras-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Compras-api/pkg/config"
)

func main() {
	csvPath := "materiales.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	reader := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	if len(records) < 2 {
		fmt.Fprintln(os.Stderr, "CSV vacío (se espera cabecera + filas)")
		os.Exit(1)
	}

	rows := make([]dto.CreateMaterialRequest, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) < 6 {
			fmt.Fprintf(os.Stderr, "Fila %d: se esperan 6 columnas, hay %d\n", i+1, len(rec))
			os.Exit(1)
		}
		initialStock, err := strconv.ParseInt(strings.TrimSpace(rec[4]), 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fila %d: initialStock inválido: %v\n", i+1, err)
			os.Exit(1)
		}
		lowStockValue, err := strconv.ParseInt(strings.TrimSpace(rec[5]), 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fila %d: lowStockValue inválido: %v\n", i+1, err)
			os.Exit(1)
		}
		rows = append(rows, dto.CreateMaterialRequest{
			MaximoID:      strings.TrimSpace(rec[0]),
			Description:   strings.TrimSpace(rec[1]),
			Unit:          strings.TrimSpace(rec[2]),
			ItemType:      strings.TrimSpace(rec[3]),
			InitialStock:  initialStock,
			LowStockValue: lowStockValue,
		})
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	pool, err := postgres.NewPool(context.Background(), cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	uc := catalog.NewUseCase(postgres.NewMaterialRepository(pool), event.NopSink{})
	seeder := authz.Actor{UserID: "seed", Role: entity.RoleAdmin}

	ms, err := uc.BulkCreate(seeder, rows)
	if err != nil {
		var batchErr *domain.BatchError
		if errors.As(err, &batchErr) {
			for _, row := range batchErr.Rows {
				fmt.Fprintf(os.Stderr, "Fila %d: %s\n", row.Index+1, row.Reason)
			}
		} else {
			fmt.Fprintf(os.Stderr, "Importar: %v\n", err)
		}
		os.Exit(1)
	}
	fmt.Printf("Importados %d materiales desde %s\n", len(ms), csvPath)
}
