package pnr

import (
	"regexp"
	"strings"
)

// flightShape is the encoding used for the airline code and flight number.
type flightShape int

const (
	shapeNone flightShape = iota
	// shapeMerged is a single token such as TK1921 or J254Y.
	shapeMerged
	// shapeSplit is two tokens such as "TK 351" or "KC 909D".
	shapeSplit
)

func (s flightShape) String() string {
	switch s {
	case shapeMerged:
		return "merged"
	case shapeSplit:
		return "split"
	default:
		return "none"
	}
}

var (
	// Two alphanumerics plus an optional third letter, 1-4 digits, then
	// anything that does not start with a digit (booking class, /Y).
	// TK1921 is TK/1921, not TK1/921.
	mergedFlightPattern = regexp.MustCompile(`^([A-Z0-9]{2}[A-Z]?)(\d{1,4})(?:\D.*)?$`)
	carrierCodePattern  = regexp.MustCompile(`^[A-Z0-9]{2,3}$`)
	flightDigitsPattern = regexp.MustCompile(`^\d{1,4}`)
)

type flightIdentifier struct {
	shape   flightShape
	airline string
	number  string
	// next is the index of the first token after the identifier.
	next int
}

// classifyFlight decides which shape tokens t1 and t2 (already upper-cased)
// form. Merged wins over split.
func classifyFlight(t1, t2 string) flightShape {
	if mergedFlightPattern.MatchString(t1) {
		return shapeMerged
	}
	if carrierCodePattern.MatchString(t1) && flightDigitsPattern.MatchString(t2) {
		return shapeSplit
	}
	return shapeNone
}

// parseFlightIdentifier reads the airline code and flight number from
// tokens[1] and, for the split shape, tokens[2].
func parseFlightIdentifier(tokens []string) (flightIdentifier, error) {
	if len(tokens) < 2 {
		return flightIdentifier{}, ErrFlightIdentifier
	}
	t1 := strings.ToUpper(tokens[1])
	t2 := ""
	if len(tokens) > 2 {
		t2 = strings.ToUpper(tokens[2])
	}

	switch shape := classifyFlight(t1, t2); shape {
	case shapeMerged:
		m := mergedFlightPattern.FindStringSubmatch(t1)
		return flightIdentifier{shape: shape, airline: m[1], number: m[2], next: 2}, nil
	case shapeSplit:
		return flightIdentifier{shape: shape, airline: t1, number: flightDigitsPattern.FindString(t2), next: 3}, nil
	default:
		return flightIdentifier{}, ErrFlightIdentifier
	}
}
