// Package iata contains IATA airport codes along with time zones and
// coordinates.
//
// The table lives in airports.csv, generated from an airport list
// (which can be found at this address: [airports.json]).
//
// Command: go run ./iata/generate
//
// [airports.json]: https://github.com/mwgg/Airports/blob/f259c38566a5acbcb04b64eb5ad01d14bf7fd07c/airports.json
package iata

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

//go:embed airports.csv
var airportsCSV []byte

// Location contains airport location data including city, timezone, and coordinates.
type Location struct {
	City string
	Tz   string
	Lat  float64
	Lon  float64
}

var (
	loadOnce sync.Once
	table    map[string]Location
	loadErr  error
)

// Lookup returns the location of an IATA airport code. Codes are matched
// case-insensitively.
func Lookup(code string) (Location, bool) {
	loadOnce.Do(func() {
		table, loadErr = parseAirports(airportsCSV)
	})
	if loadErr != nil {
		return Location{}, false
	}
	loc, ok := table[strings.ToUpper(strings.TrimSpace(code))]
	return loc, ok
}

// Len returns the number of airports in the table.
func Len() int {
	Lookup("")
	return len(table)
}

func parseAirports(data []byte) (map[string]Location, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = 5

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read airports: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("airports table is empty")
	}

	out := make(map[string]Location, len(records)-1)
	for i, rec := range records[1:] {
		lat, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("airports row %d: bad latitude %q: %w", i+2, rec[3], err)
		}
		lon, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("airports row %d: bad longitude %q: %w", i+2, rec[4], err)
		}
		out[rec[0]] = Location{City: rec[1], Tz: rec[2], Lat: lat, Lon: lon}
	}
	return out, nil
}
