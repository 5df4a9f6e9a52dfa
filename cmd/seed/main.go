// seed genera un script SQL para poblar el catálogo de productos a partir
// de un CSV de insumos (exportado en ISO-8859-1 por el sistema anterior).
//
// Columnas esperadas: name;description;category;current_stock;min_stock_level;unit_price
//
// Uso: go run ./cmd/seed [ruta/productos.csv]
// Por defecto busca productos.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_products.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type seedProduct struct {
	name, description, category string
	currentStock, minStock      int
	unitPrice                   string
}

func main() {
	csvPath := "productos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = 6
	records, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var products []seedProduct
	for i, rec := range records {
		// Primera fila: cabecera
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "name") {
			continue
		}
		name := strings.TrimSpace(rec[0])
		category := strings.TrimSpace(rec[2])
		if name == "" || category == "" {
			fmt.Fprintf(os.Stderr, "Fila %d descartada: name y category son requeridos\n", i+1)
			continue
		}
		stock, err := strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil || stock < 0 {
			fmt.Fprintf(os.Stderr, "Fila %d descartada: current_stock inválido\n", i+1)
			continue
		}
		minStock, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil || minStock < 0 {
			fmt.Fprintf(os.Stderr, "Fila %d descartada: min_stock_level inválido\n", i+1)
			continue
		}
		price := strings.TrimSpace(rec[5])
		if _, err := strconv.ParseFloat(price, 64); err != nil {
			fmt.Fprintf(os.Stderr, "Fila %d descartada: unit_price inválido\n", i+1)
			continue
		}
		products = append(products, seedProduct{
			name:         name,
			description:  strings.TrimSpace(rec[1]),
			category:     category,
			currentStock: stock,
			minStock:     minStock,
			unitPrice:    price,
		})
	}
	if len(products) == 0 {
		fmt.Fprintln(os.Stderr, "Sin filas válidas, no se genera script")
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_products.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo inicial de productos\n")
	out.WriteString("-- Generado desde productos.csv\n\n")
	out.WriteString("INSERT INTO products (id, name, description, category, current_stock, min_stock_level, unit_price, version, created_at, updated_at) VALUES\n")
	for i, p := range products {
		sep := ","
		if i == len(products)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  (gen_random_uuid(), '%s', '%s', '%s', %d, %d, %s, 1, now(), now())%s\n",
			escapeSQL(p.name), escapeSQL(p.description), escapeSQL(p.category),
			p.currentStock, p.minStock, p.unitPrice, sep)
	}
	out.WriteString("ON CONFLICT DO NOTHING;\n")

	fmt.Printf("Generado %s: %d productos\n", outPath, len(products))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
