package pnr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateTokenPattern = regexp.MustCompile(`^\d{2}[A-Z]{3}$`)

var monthAbbreviations = map[string]time.Month{
	"JAN": time.January,
	"FEB": time.February,
	"MAR": time.March,
	"APR": time.April,
	"MAY": time.May,
	"JUN": time.June,
	"JUL": time.July,
	"AUG": time.August,
	"SEP": time.September,
	"OCT": time.October,
	"NOV": time.November,
	"DEC": time.December,
}

type dateToken struct {
	raw   string
	day   int
	month time.Month
	index int
}

// findDate returns the first DDMMM token at or after index from.
func findDate(tokens []string, from int) (dateToken, error) {
	for i := from; i < len(tokens); i++ {
		candidate := strings.ToUpper(tokens[i])
		if !dateTokenPattern.MatchString(candidate) {
			continue
		}
		d, err := parseDate(candidate)
		if err != nil {
			return dateToken{}, err
		}
		d.index = i
		return d, nil
	}
	return dateToken{}, ErrNoDate
}

// ParseDateToken splits a DDMMM token such as 15FEB into day and month. The
// day is not checked against the month.
func ParseDateToken(token string) (day int, month time.Month, err error) {
	d, err := parseDate(strings.ToUpper(token))
	return d.day, d.month, err
}

func parseDate(token string) (dateToken, error) {
	if !dateTokenPattern.MatchString(token) {
		return dateToken{}, ErrNoDate
	}
	month, ok := monthAbbreviations[token[2:]]
	if !ok {
		return dateToken{}, fmt.Errorf("%w: %s", ErrUnknownMonth, token[2:])
	}
	day, _ := strconv.Atoi(token[:2])
	return dateToken{raw: token, day: day, month: month}, nil
}

// in returns the calendar date in year, rejecting days the month does not
// have (00MAR, 30FEB).
func (d dateToken) in(year int) (time.Time, error) {
	last := time.Date(year, d.month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if d.day < 1 || d.day > last {
		return time.Time{}, fmt.Errorf("%w: %s %d", ErrInvalidDay, d.raw, year)
	}
	return time.Date(year, d.month, d.day, 0, 0, 0, 0, time.UTC), nil
}
