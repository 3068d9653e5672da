package pnr

import "errors"

// Rejection reasons for a single line. A rejected line is dropped from the
// itinerary; callers may inspect the error to report why.
var (
	ErrNotSegmentLine   = errors.New("line does not start with a segment number")
	ErrTooFewTokens     = errors.New("too few tokens for a segment")
	ErrFlightIdentifier = errors.New("no airline/flight identifier")
	ErrNoDate           = errors.New("no date token")
	ErrUnknownMonth     = errors.New("unknown month")
	ErrInvalidDay       = errors.New("day does not exist in month")
	ErrNoRoute          = errors.New("no route token")
	ErrNoTimes          = errors.New("fewer than two time tokens")
	ErrInvalidTime      = errors.New("invalid time token")
)

var reasons = []struct {
	err   error
	label string
}{
	{ErrNotSegmentLine, "not_segment"},
	{ErrTooFewTokens, "too_few_tokens"},
	{ErrFlightIdentifier, "flight_identifier"},
	{ErrNoDate, "no_date"},
	{ErrUnknownMonth, "unknown_month"},
	{ErrInvalidDay, "invalid_day"},
	{ErrNoRoute, "no_route"},
	{ErrNoTimes, "no_times"},
	{ErrInvalidTime, "invalid_time"},
}

// Reason maps a rejection error to a short stable label, suitable for metric
// labels and API responses. Unknown errors map to "unparsed".
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.label
		}
	}
	return "unparsed"
}
