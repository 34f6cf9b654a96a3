// seed genera un script SQL para poblar categorías y productos a partir de un CSV
// con columnas name,quantity,category,detail (cabecera obligatoria; category y detail opcionales).
//
// Uso: go run ./cmd/seed [-encoding windows-874] [-out seed.sql] productos.csv
// Los CSV exportados desde Excel en tailandés suelen venir en Windows-874.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type seedProduct struct {
	name     string
	quantity int
	category string
	detail   string
}

func main() {
	encoding := flag.String("encoding", "utf-8", "codificación del CSV: utf-8 | windows-874 | iso-8859-1")
	outPath := flag.String("out", "seed.sql", "archivo SQL de salida")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Uso: seed [-encoding windows-874] [-out seed.sql] productos.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	in, err := decoder(*encoding, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Codificación: %v\n", err)
		os.Exit(1)
	}
	products, err := parseProducts(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	cats := writeSQL(out, products, time.Now().UTC(), func() string { return uuid.New().String() })
	fmt.Printf("Generado %s: %d categorías, %d productos\n", *outPath, cats, len(products))
}

func decoder(name string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return r, nil
	case "windows-874", "cp874", "tis-620":
		return transform.NewReader(r, charmap.Windows874.NewDecoder()), nil
	case "iso-8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación no soportada: %s", name)
}

// parseProducts lee el CSV; las columnas se ubican por nombre de cabecera.
func parseProducts(r io.Reader) ([]seedProduct, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := col["name"]; !ok {
		return nil, errors.New("falta la columna name")
	}
	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var products []seedProduct
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		name := field(rec, "name")
		if name == "" {
			continue
		}
		qty := 0
		if s := field(rec, "quantity"); s != "" {
			qty, err = strconv.Atoi(s)
			if err != nil || qty < 0 {
				return nil, fmt.Errorf("línea %d: quantity inválido %q", line, s)
			}
		}
		products = append(products, seedProduct{
			name:     name,
			quantity: qty,
			category: field(rec, "category"),
			detail:   field(rec, "detail"),
		})
	}
	return products, nil
}

// writeSQL escribe categorías (una por nombre distinto) y productos. Devuelve cuántas categorías generó.
func writeSQL(out io.Writer, products []seedProduct, now time.Time, newID func() string) int {
	catIDs := make(map[string]string)
	for _, p := range products {
		if p.category != "" && catIDs[p.category] == "" {
			catIDs[p.category] = newID()
		}
	}
	names := make([]string, 0, len(catIDs))
	for n := range catIDs {
		names = append(names, n)
	}
	sort.Strings(names)

	ts := now.Format(time.RFC3339Nano)
	fmt.Fprintf(out, "-- Datos iniciales del inventario (%d categorías, %d productos)\n\n", len(names), len(products))
	if len(names) > 0 {
		fmt.Fprintln(out, "-- 1. Categorías")
		fmt.Fprintln(out, "INSERT INTO categories (id, name) VALUES")
		for i, n := range names {
			sep := ","
			if i == len(names)-1 {
				sep = ""
			}
			fmt.Fprintf(out, "  ('%s', '%s')%s\n", catIDs[n], escapeSQL(n), sep)
		}
		fmt.Fprint(out, "ON CONFLICT (id) DO NOTHING;\n\n")
	}

	if len(products) > 0 {
		fmt.Fprintln(out, "-- 2. Productos (la cantidad inicial es la línea base del historial)")
		fmt.Fprintln(out, "INSERT INTO products (id, name, quantity, category_id, image, detail, created_at, updated_at, baseline_quantity, baseline_at) VALUES")
		for i, p := range products {
			sep := ","
			if i == len(products)-1 {
				sep = ""
			}
			category := "NULL"
			if p.category != "" {
				category = "'" + catIDs[p.category] + "'"
			}
			fmt.Fprintf(out, "  ('%s', '%s', %d, %s, '', '%s', '%s', '%s', %d, '%s')%s\n",
				newID(), escapeSQL(p.name), p.quantity, category, escapeSQL(p.detail), ts, ts, p.quantity, ts, sep)
		}
		fmt.Fprintln(out, "ON CONFLICT (id) DO NOTHING;")
	}
	return len(names)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
