// Package airlines maps IATA carrier codes to display names.
package airlines

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// codePattern accepts two-character IATA codes and the three-character
// codes some reservation systems print (SVR, ICAO designators).
var codePattern = regexp.MustCompile(`^[A-Z0-9]{2,3}$`)

// ValidCode reports whether code, already upper-cased, has carrier-code shape.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// builtin is the default code -> name table.
//
// Best-effort mapping of carriers commonly seen in PNRs; extend it with
// LoadFile rather than relying on completeness.
var builtin = map[string]string{
	// Central Asia and CIS
	"KC": "Air Astana",
	"DV": "SCAT Airlines",
	"IQ": "Qazaq Air",
	"HY": "Uzbekistan Airways",
	"SU": "Aeroflot",
	"S7": "S7 Airlines",
	"J2": "Azerbaijan Airlines",
	"A9": "Georgian Airways",

	// Star Alliance
	"LH": "Lufthansa",
	"UA": "United Airlines",
	"AC": "Air Canada",
	"NH": "ANA",
	"SQ": "Singapore Airlines",
	"TG": "Thai Airways",
	"SK": "SAS",
	"OS": "Austrian Airlines",
	"LX": "Swiss",
	"TK": "Turkish Airlines",
	"ET": "Ethiopian Airlines",
	"A3": "Aegean Airlines",
	"LO": "LOT Polish Airlines",
	"TP": "TAP Air Portugal",
	"MS": "EgyptAir",
	"CA": "Air China",
	"AI": "Air India",
	"OZ": "Asiana Airlines",
	"BR": "EVA Air",

	// Oneworld
	"AA": "American Airlines",
	"BA": "British Airways",
	"QF": "Qantas",
	"CX": "Cathay Pacific",
	"JL": "Japan Airlines",
	"IB": "Iberia",
	"AY": "Finnair",
	"QR": "Qatar Airways",
	"RJ": "Royal Jordanian",

	// SkyTeam
	"AF": "Air France",
	"KL": "KLM",
	"DL": "Delta Air Lines",
	"KE": "Korean Air",
	"AZ": "ITA Airways",
	"MU": "China Eastern Airlines",
	"VN": "Vietnam Airlines",
	"SV": "Saudia",

	// Gulf and low-cost
	"EK": "Emirates",
	"EY": "Etihad Airways",
	"FZ": "flydubai",
	"G9": "Air Arabia",
	"PC": "Pegasus Airlines",
	"FR": "Ryanair",
	"U2": "easyJet",
	"W6": "Wizz Air",
	"DY": "Norwegian",
	"VY": "Vueling",
}

// Table is a read-only carrier name table.
type Table struct {
	names map[string]string
}

// Default returns a table holding the built-in names.
func Default() *Table {
	names := make(map[string]string, len(builtin))
	for code, name := range builtin {
		names[code] = name
	}
	return &Table{names: names}
}

// AirlineName returns the display name for a carrier code.
func (t *Table) AirlineName(code string) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.names[strings.ToUpper(code)]
	return name, ok && name != ""
}

// Len returns the number of carriers in the table.
func (t *Table) Len() int {
	return len(t.names)
}

type fileFormat struct {
	Airlines map[string]string `yaml:"airlines"`
}

// LoadFile reads a YAML file of the form
//
//	airlines:
//	  KC: Air Astana
//	  LH: Lufthansa
//
// and returns the built-in table with the file's entries laid over it. An
// empty name removes a built-in entry.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read airlines file: %w", err)
	}
	return Parse(data)
}

// Parse is LoadFile for data already in memory.
func Parse(data []byte) (*Table, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse airlines file: %w", err)
	}

	t := Default()
	for code, name := range f.Airlines {
		code = strings.ToUpper(strings.TrimSpace(code))
		if !ValidCode(code) {
			return nil, fmt.Errorf("invalid airline code %q", code)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			delete(t.names, code)
			continue
		}
		t.names[code] = name
	}
	return t, nil
}
