package pnr

// AirlineLookup resolves a carrier code to a display name.
type AirlineLookup interface {
	AirlineName(code string) (string, bool)
}

// Parser reads segment lines. Both lookups are optional and read-only; a nil
// ZoneLookup makes every segment naive.
type Parser struct {
	zones    ZoneLookup
	airlines AirlineLookup
}

// NewParser creates a parser using the given lookups.
func NewParser(zones ZoneLookup, airlines AirlineLookup) *Parser {
	return &Parser{zones: zones, airlines: airlines}
}

// ParseLine extracts a Segment from line. The year is applied to the date
// token, which carries none. Any failure returns one of the Err* values
// (possibly wrapped) and no segment.
func (p *Parser) ParseLine(line string, year int) (Segment, error) {
	if !IsSegmentLine(line) {
		return Segment{}, ErrNotSegmentLine
	}

	tokens := tokenize(line)
	if len(tokens) < minSegmentTokens {
		return Segment{}, ErrTooFewTokens
	}

	flight, err := parseFlightIdentifier(tokens)
	if err != nil {
		return Segment{}, err
	}

	date, err := findDate(tokens, flight.next)
	if err != nil {
		return Segment{}, err
	}
	day, err := date.in(year)
	if err != nil {
		return Segment{}, err
	}

	rt, err := findRoute(tokens, date.index)
	if err != nil {
		return Segment{}, err
	}

	// Times are taken from the whole line, so a split four-digit flight
	// number (LH 5765) is read as the departure time.
	times, err := findTimes(tokens)
	if err != nil {
		return Segment{}, err
	}

	from := lookupZone(p.zones, rt.origin)
	to := lookupZone(p.zones, rt.destination)
	dep, arr, zoned := resolveInstants(day, times, from, to)

	return Segment{
		Airline:      flight.airline,
		FlightNumber: flight.number,
		DateToken:    date.raw,
		Origin:       rt.origin,
		Destination:  rt.destination,
		Departure:    dep,
		Arrival:      arr,
		AirlineName:  p.airlineName(flight.airline),
		Zoned:        zoned,
	}, nil
}

func (p *Parser) airlineName(code string) string {
	if p.airlines == nil {
		return ""
	}
	name, _ := p.airlines.AirlineName(code)
	return name
}
