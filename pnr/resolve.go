package pnr

import "time"

// ZoneLookup resolves an airport code to the time zone the airport is in.
// It returns false for unknown codes.
type ZoneLookup interface {
	Zone(code string) (*time.Location, bool)
}

// resolveInstants turns the wall-clock departure and arrival into instants.
//
// With both zones known, departure and arrival are read as local times in
// their own zones and the arrival is moved forward one calendar day at a time
// until it is not before the departure in absolute time.
//
// Without both zones the times are naive (UTC stands in for the one implied
// zone) and the arrival is moved forward once, only when the arrival token had
// no day offset.
func resolveInstants(date time.Time, t timeTokens, from, to *time.Location) (dep, arr time.Time, zoned bool) {
	y, m, d := date.Date()

	if from == nil || to == nil {
		dep = time.Date(y, m, d, t.departure.hour, t.departure.minute, 0, 0, time.UTC)
		arr = time.Date(y, m, d+t.dayOffset, t.arrival.hour, t.arrival.minute, 0, 0, time.UTC)
		if t.dayOffset == 0 && arr.Before(dep) {
			arr = arr.AddDate(0, 0, 1)
		}
		return dep, arr, false
	}

	dep = time.Date(y, m, d, t.departure.hour, t.departure.minute, 0, 0, from)
	arrDay := d + t.dayOffset
	arr = time.Date(y, m, arrDay, t.arrival.hour, t.arrival.minute, 0, 0, to)
	// Each step adds a local day, so the arrival instant strictly increases
	// and the loop ends.
	for arr.Before(dep) {
		arrDay++
		arr = time.Date(y, m, arrDay, t.arrival.hour, t.arrival.minute, 0, 0, to)
	}
	return dep, arr, true
}

func lookupZone(zones ZoneLookup, code string) *time.Location {
	if zones == nil {
		return nil
	}
	loc, ok := zones.Zone(code)
	if !ok {
		return nil
	}
	return loc
}
