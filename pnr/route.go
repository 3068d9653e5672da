package pnr

import (
	"regexp"
	"strings"
)

// A route token starts with exactly six letters, origin then destination,
// optionally followed by non-letter noise: NQZFRA, ALAIST*SS1.
var routePattern = regexp.MustCompile(`^([A-Z]{3})([A-Z]{3})(?:[^A-Z]|$)`)

type route struct {
	origin      string
	destination string
}

// findRoute scans tokens strictly after the date token.
func findRoute(tokens []string, dateIndex int) (route, error) {
	for i := dateIndex + 1; i < len(tokens); i++ {
		if m := routePattern.FindStringSubmatch(strings.ToUpper(tokens[i])); m != nil {
			return route{origin: m[1], destination: m[2]}, nil
		}
	}
	return route{}, ErrNoRoute
}
