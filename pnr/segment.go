package pnr

import (
	"fmt"
	"time"
)

// Segment is one flight leg read from a single line. Segments are values;
// nothing modifies one after ParseLine returns it.
type Segment struct {
	Airline      string
	FlightNumber string
	// DateToken is the DDMMM token as it appeared in the line, upper-cased.
	DateToken   string
	Origin      string
	Destination string
	Departure   time.Time
	Arrival     time.Time
	// AirlineName is the carrier's display name, empty when unknown.
	AirlineName string
	// Zoned is false when either airport's time zone was unknown and the
	// instants are naive wall-clock times in UTC.
	Zoned bool
}

// Duration is the flight time, never negative.
func (s Segment) Duration() time.Duration {
	return s.Arrival.Sub(s.Departure)
}

// Flight returns the airline and flight number as printed, e.g. "TK 1921".
func (s Segment) Flight() string {
	return s.Airline + " " + s.FlightNumber
}

// Date returns the day and month of the date token.
func (s Segment) Date() (int, time.Month) {
	day, month, _ := ParseDateToken(s.DateToken)
	return day, month
}

func (s Segment) String() string {
	return fmt.Sprintf("{%s %s %s-%s %s %s}",
		s.Flight(), s.DateToken, s.Origin, s.Destination,
		s.Departure.Format(time.RFC3339), s.Arrival.Format(time.RFC3339))
}
