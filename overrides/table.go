// Package overrides supplies preferred display names for airports, keyed by
// IATA code. Names come from a two-column CSV (iata,airport_ru) published as
// a shared spreadsheet, optionally mirrored in Redis or kept in Postgres.
package overrides

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSV column names.
const (
	ColumnCode = "iata"
	ColumnName = "airport_ru"
)

// Table maps an upper-case IATA code to a display name. A Table is never
// modified once built.
type Table map[string]string

// Override returns the display name for code. Empty names count as absent.
func (t Table) Override(code string) (string, bool) {
	name, ok := t[strings.ToUpper(code)]
	return name, ok && name != ""
}

// Len returns the number of codes in the table.
func (t Table) Len() int {
	return len(t)
}

// ParseCSV reads rows by header name. Codes are trimmed and upper-cased,
// names trimmed; rows with a blank code are skipped. A file without the
// code column yields an empty table.
func ParseCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides header: %w", err)
	}

	codeCol, nameCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case ColumnCode:
			codeCol = i
		case ColumnName:
			nameCol = i
		}
	}

	t := Table{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read overrides: %w", err)
		}
		code := strings.ToUpper(strings.TrimSpace(field(rec, codeCol)))
		if code == "" {
			continue
		}
		t[code] = strings.TrimSpace(field(rec, nameCol))
	}
	return t, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// LoadCSV reads the table at path. An empty path or an unreadable file gives
// an empty table.
func LoadCSV(path string) Table {
	if path == "" {
		return Table{}
	}
	f, err := os.Open(path)
	if err != nil {
		return Table{}
	}
	defer f.Close()

	t, err := ParseCSV(f)
	if err != nil {
		return Table{}
	}
	return t
}
