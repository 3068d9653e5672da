package itinerary

import (
	"fmt"
	"strings"

	anyascii "github.com/anyascii/go"

	"github.com/gilby125/aviator/pnr"
)

// Render formats it, one line per leg with a layover line before each leg
// that has one.
func (a *Assembler) Render(it *Itinerary) string {
	if it == nil || len(it.Legs) == 0 {
		return a.finish(a.locale.NoSegments)
	}

	out := make([]string, 0, len(it.Legs)*2)
	for _, leg := range it.Legs {
		if leg.Layover > 0 {
			out = append(out, fmt.Sprintf(a.locale.Layover, a.locale.FormatDuration(leg.Layover)))
		}
		out = append(out, a.legLine(leg))
	}
	return a.finish(strings.Join(out, "\n"))
}

func (a *Assembler) legLine(leg Leg) string {
	carrier := ""
	if leg.AirlineName != "" {
		carrier = ", " + leg.AirlineName
	}
	return fmt.Sprintf("🗓️%s %s – %s, %s — %s, %s%s. %s",
		a.FormatDate(leg.DateToken),
		leg.Departure.Format("15:04"),
		leg.Arrival.Format("15:04"),
		a.Place(leg.Origin),
		a.Place(leg.Destination),
		leg.Flight(),
		carrier,
		a.locale.FormatDuration(leg.Duration()),
	)
}

// FormatDate renders a DDMMM token as day without leading zero and the
// localized month, e.g. "15FEB" as "15 февр.".
func (a *Assembler) FormatDate(token string) string {
	day, month, err := pnr.ParseDateToken(strings.TrimSpace(token))
	if err != nil {
		return token
	}
	return fmt.Sprintf("%d %s", day, a.locale.Months[month])
}

func (a *Assembler) finish(s string) string {
	if a.ascii {
		return anyascii.Transliterate(s)
	}
	return s
}
