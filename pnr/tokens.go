// Package pnr extracts flight segments from reservation (PNR) segment lines.
//
// A segment line looks like
//
//	1 KC 921Y 15FEB 1 NQZFRA SS1  1125  1530  /DCKC /E
//	2 TK1921 C 15MAR 7 ISTGVA HK1 1225 1340 32Q E 0 M SEE RTSVC
//
// Lines that do not start with a sequence number are not segment lines and are
// ignored. Lines that start with one but cannot be read are rejected with one
// of the Err* values.
package pnr

import (
	"regexp"
	"strings"
)

// minSegmentTokens is the smallest token count a segment line can have:
// number, flight, date, route and two times.
const minSegmentTokens = 6

var segmentStartPattern = regexp.MustCompile(`^\s*\d+\s+`)

// IsSegmentLine reports whether line begins with an integer followed by
// whitespace, the conventional segment sequence number.
func IsSegmentLine(line string) bool {
	return segmentStartPattern.MatchString(line)
}

func tokenize(line string) []string {
	return strings.Fields(line)
}
