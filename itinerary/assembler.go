// Package itinerary turns PNR text into an ordered, human-readable itinerary
// with local times, flight durations and layovers.
package itinerary

import (
	"sort"
	"strings"
	"time"

	"github.com/gilby125/aviator/pnr"
)

// Airports is the airport reference: time zone and city by IATA code.
type Airports interface {
	pnr.ZoneLookup
	City(code string) (string, bool)
}

// OverrideLookup returns a preferred display name for an airport code.
type OverrideLookup interface {
	Override(code string) (string, bool)
}

// Itinerary is the result of one Assemble call. It is not modified after
// Assemble returns.
type Itinerary struct {
	Legs []Leg
	// Rejected lists segment lines (lines starting with a number) that could
	// not be read. Other lines are ignored silently.
	Rejected []Rejection
}

// Leg is a segment in itinerary order with the layover that precedes it.
type Leg struct {
	pnr.Segment
	// Layover is the gap since the previous leg's arrival; zero for the first
	// leg and when the legs touch or overlap.
	Layover time.Duration
}

// Rejection records a segment line that failed to parse.
type Rejection struct {
	LineNo int
	Line   string
	Err    error
}

// Reason returns a short label for the failure.
func (r Rejection) Reason() string {
	return pnr.Reason(r.Err)
}

// Assembler builds itineraries from PNR text. It holds only read-only
// lookups, so one Assembler may be shared between goroutines.
type Assembler struct {
	airports  Airports
	overrides OverrideLookup
	airlines  pnr.AirlineLookup
	locale    *Locale
	ascii     bool
	parser    *pnr.Parser
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithOverrides sets the display-name overrides consulted before the airport
// city.
func WithOverrides(o OverrideLookup) Option {
	return func(a *Assembler) { a.overrides = o }
}

// WithAirlines sets the carrier display-name lookup.
func WithAirlines(l pnr.AirlineLookup) Option {
	return func(a *Assembler) { a.airlines = l }
}

// WithLocale sets the output language. The default is Russian.
func WithLocale(l *Locale) Option {
	return func(a *Assembler) {
		if l != nil {
			a.locale = l
		}
	}
}

// WithASCII transliterates the rendered itinerary to ASCII.
func WithASCII(on bool) Option {
	return func(a *Assembler) { a.ascii = on }
}

// New creates an Assembler. airports may be nil, in which case every segment
// uses naive time arithmetic and bare codes are displayed.
func New(airports Airports, opts ...Option) *Assembler {
	a := &Assembler{airports: airports, locale: Russian}
	for _, opt := range opts {
		opt(a)
	}
	a.parser = pnr.NewParser(airports, a.airlines)
	return a
}

// Locale returns the locale the assembler renders with.
func (a *Assembler) Locale() *Locale {
	return a.locale
}

// Build parses text and renders it. Lines that cannot be read are left out
// without notice; when nothing is recognized the locale's NoSegments message
// is returned.
func (a *Assembler) Build(text string, year int) string {
	return a.Render(a.Assemble(text, year))
}

// Assemble parses every line of text independently, orders the segments by
// departure and computes layovers.
func (a *Assembler) Assemble(text string, year int) *Itinerary {
	it := &Itinerary{}
	var segments []pnr.Segment

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || !pnr.IsSegmentLine(line) {
			continue
		}
		seg, err := a.parser.ParseLine(line, year)
		if err != nil {
			it.Rejected = append(it.Rejected, Rejection{LineNo: i + 1, Line: line, Err: err})
			continue
		}
		segments = append(segments, seg)
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Departure.Before(segments[j].Departure)
	})

	it.Legs = make([]Leg, 0, len(segments))
	for i, seg := range segments {
		leg := Leg{Segment: seg}
		if i > 0 {
			if gap := seg.Departure.Sub(segments[i-1].Arrival); gap > 0 {
				leg.Layover = gap
			}
		}
		it.Legs = append(it.Legs, leg)
	}
	return it
}

// Place returns the display name of an airport: override, then city, then
// the code itself.
func (a *Assembler) Place(code string) string {
	if a.overrides != nil {
		if name, ok := a.overrides.Override(code); ok && name != "" {
			return name
		}
	}
	if a.airports != nil {
		if city, ok := a.airports.City(code); ok && city != "" {
			return city
		}
	}
	return code
}
