// seed_sellers genera un script SQL para importar vendedores de un basar anterior
// a partir de una exportación CSV (Excel alemán: separador ';', codificación ISO-8859-1).
//
// Uso: go run ./cmd/seed_sellers [vendedores.csv] [salida.sql]
// Columnas: Verkäufernummer;E-Mail;Vorname;Nachname[;Rolle]
// Escribe por defecto: internal/infrastructure/postgres/migrations/seed_sellers.sql.out
package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/basar-api/internal/domain/entity"
)

type sellerRow struct {
	publicID  int
	email     string
	firstName string
	lastName  string
	role      string
}

func main() {
	csvPath := "vendedores.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "seed_sellers.sql.out")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	rows, skipped, err := parseSellers(decode(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "omitida: %s\n", s)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	writeSQL(w, rows, csvPath)
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d vendedores, %d filas omitidas\n", outPath, len(rows), len(skipped))
}

// decode devuelve el contenido como UTF-8. Sin BOM y con bytes no UTF-8 se asume ISO-8859-1.
func decode(raw []byte) io.Reader {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

// parseSellers lee las filas; la primera se ignora si no empieza por un número (cabecera).
// Números o emails repetidos y filas sin nombre o apellido se omiten y se informan.
func parseSellers(r io.Reader) ([]sellerRow, []string, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []sellerRow
	var skipped []string
	seenID := make(map[int]bool)
	seenEmail := make(map[string]bool)
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		line++
		if len(rec) < 4 {
			skipped = append(skipped, fmt.Sprintf("línea %d: %d columnas", line, len(rec)))
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil || id <= 0 {
			if line == 1 {
				continue
			}
			skipped = append(skipped, fmt.Sprintf("línea %d: número %q", line, rec[0]))
			continue
		}
		email := strings.TrimSpace(rec[1])
		normalized := entity.NormalizeEmail(email)
		if email == "" || !strings.Contains(email, "@") {
			skipped = append(skipped, fmt.Sprintf("línea %d: email %q", line, email))
			continue
		}
		firstName := strings.TrimSpace(rec[2])
		lastName := strings.TrimSpace(rec[3])
		if firstName == "" || lastName == "" {
			skipped = append(skipped, fmt.Sprintf("línea %d: nombre o apellido vacío", line))
			continue
		}
		if seenID[id] || seenEmail[normalized] {
			skipped = append(skipped, fmt.Sprintf("línea %d: duplicado %d / %s", line, id, email))
			continue
		}
		role := entity.RoleSeller
		if len(rec) > 4 && isEmployee(rec[4]) {
			role = entity.RoleEmployee
		}
		seenID[id] = true
		seenEmail[normalized] = true
		rows = append(rows, sellerRow{
			publicID:  id,
			email:     email,
			firstName: firstName,
			lastName:  lastName,
			role:      role,
		})
	}
	return rows, skipped, nil
}

func isEmployee(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "employee", "mitarbeiter", "helfer", "ja", "1", "true":
		return true
	}
	return false
}

// writeSQL todos los vendedores importados quedan inactivos; ON CONFLICT respeta lo ya registrado.
func writeSQL(w io.Writer, rows []sellerRow, source string) {
	fmt.Fprintf(w, "-- Vendedores importados desde %s\n", filepath.Base(source))
	fmt.Fprintf(w, "-- %d filas; active = FALSE\n\n", len(rows))
	for _, r := range rows {
		fmt.Fprintf(w,
			"INSERT INTO sellers (id, public_id, email, email_normalized, first_name, last_name, role, active)\n"+
				"VALUES ('%s', %d, '%s', '%s', '%s', '%s', '%s', FALSE)\n"+
				"ON CONFLICT DO NOTHING;\n",
			uuid.NewString(), r.publicID, escapeSQL(r.email), escapeSQL(entity.NormalizeEmail(r.email)),
			escapeSQL(r.firstName), escapeSQL(r.lastName), r.role)
	}
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
