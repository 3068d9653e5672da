package pnr

import (
	"fmt"
	"regexp"
	"strconv"
)

// HHMM, optionally followed by +N days on the arrival: 1125, 0435+1.
var timeTokenPattern = regexp.MustCompile(`^(\d{2})(\d{2})(?:\+(\d+))?$`)

type clock struct {
	hour   int
	minute int
}

type timeTokens struct {
	departure clock
	arrival   clock
	// dayOffset is the +N on the arrival token, zero when absent.
	dayOffset int
}

// findTimes takes the first two time tokens, in order, as departure and
// arrival.
func findTimes(tokens []string) (timeTokens, error) {
	var found [][]string
	for _, tok := range tokens {
		if m := timeTokenPattern.FindStringSubmatch(tok); m != nil {
			found = append(found, m)
			if len(found) == 2 {
				break
			}
		}
	}
	if len(found) < 2 {
		return timeTokens{}, ErrNoTimes
	}

	dep, err := parseClock(found[0])
	if err != nil {
		return timeTokens{}, err
	}
	arr, err := parseClock(found[1])
	if err != nil {
		return timeTokens{}, err
	}

	offset := 0
	if found[1][3] != "" {
		offset, err = strconv.Atoi(found[1][3])
		if err != nil {
			return timeTokens{}, fmt.Errorf("%w: day offset %q", ErrInvalidTime, found[1][3])
		}
	}

	return timeTokens{departure: dep, arrival: arr, dayOffset: offset}, nil
}

func parseClock(m []string) (clock, error) {
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return clock{}, fmt.Errorf("%w: %s", ErrInvalidTime, m[0])
	}
	return clock{hour: hour, minute: minute}, nil
}
