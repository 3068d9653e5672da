package iata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		code string
		want Location
	}{
		{"NQZ", Location{"Astana", "Asia/Almaty", 51.022202, 71.466904}},
		{"LAX", Location{"Los Angeles", "America/Los_Angeles", 33.942501, -118.407997}},
		{"nrt", Location{"Tokyo", "Asia/Tokyo", 35.764702, 140.386002}},
		{"AAA", Location{"", "Pacific/Tahiti", -17.352600, -145.509995}},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := Lookup(tt.code)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Lookup("QQQ")
	assert.False(t, ok)
	_, ok = Lookup("")
	assert.False(t, ok)
}

func TestLen(t *testing.T) {
	assert.Greater(t, Len(), 3000)
}

func TestParseAirports_Errors(t *testing.T) {
	_, err := parseAirports([]byte("iata,city,tz,lat,lon\nAAA,,Pacific/Tahiti,x,1\n"))
	assert.ErrorContains(t, err, "bad latitude")

	_, err = parseAirports([]byte("iata,city,tz,lat,lon\nAAA,Pacific/Tahiti\n"))
	assert.Error(t, err)

	_, err = parseAirports(nil)
	assert.Error(t, err)
}

func TestDirectory(t *testing.T) {
	d := &Directory{}

	loc, ok := d.Zone("FRA")
	require.True(t, ok)
	assert.Equal(t, "Europe/Berlin", loc.String())

	again, _ := d.Zone("FRA")
	assert.Same(t, loc, again)

	city, ok := d.City("MUC")
	assert.True(t, ok)
	assert.Equal(t, "Munich", city)

	_, ok = d.City("AAA")
	assert.False(t, ok, "airport without a city")
	_, ok = d.Zone("AAA")
	assert.True(t, ok)

	_, ok = d.Zone("QQQ")
	assert.False(t, ok)
	_, ok = d.City("QQQ")
	assert.False(t, ok)
}
