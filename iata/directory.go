package iata

import (
	"sync"
	"time"
	_ "time/tzdata"
)

// Directory answers zone and city questions for airport codes, caching the
// loaded *time.Location per code. The zero value is ready to use.
type Directory struct {
	locations sync.Map // map[string]directoryEntry
}

type directoryEntry struct {
	city string
	loc  *time.Location // nil when the code or its zone is unknown
}

// Default is the shared directory over the embedded airport table.
var Default = &Directory{}

// Zone returns the time zone of the airport. Unknown codes and zone names
// that fail to load are reported as not found.
func (d *Directory) Zone(code string) (*time.Location, bool) {
	e := d.entry(code)
	return e.loc, e.loc != nil
}

// City returns the airport's city. Some airports have none.
func (d *Directory) City(code string) (string, bool) {
	e := d.entry(code)
	return e.city, e.city != ""
}

func (d *Directory) entry(code string) directoryEntry {
	if cached, ok := d.locations.Load(code); ok {
		return cached.(directoryEntry)
	}

	var entry directoryEntry
	if l, ok := Lookup(code); ok {
		entry.city = l.City
		if l.Tz != "" {
			if loc, err := time.LoadLocation(l.Tz); err == nil {
				entry.loc = loc
			}
		}
	}
	d.locations.Store(code, entry)
	return entry
}
