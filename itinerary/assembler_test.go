package itinerary

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilby125/aviator/pnr"
)

type fakeAirport struct {
	zone string
	city string
}

type fakeAirports map[string]fakeAirport

func (f fakeAirports) Zone(code string) (*time.Location, bool) {
	a, ok := f[code]
	if !ok {
		return nil, false
	}
	loc, err := time.LoadLocation(a.zone)
	return loc, err == nil
}

func (f fakeAirports) City(code string) (string, bool) {
	a, ok := f[code]
	return a.city, ok
}

type mapLookup map[string]string

func (m mapLookup) Override(code string) (string, bool) {
	v, ok := m[code]
	return v, ok
}

func (m mapLookup) AirlineName(code string) (string, bool) {
	v, ok := m[code]
	return v, ok
}

var airports = fakeAirports{
	"NQZ": {"Asia/Almaty", "Astana"},
	"ALA": {"Asia/Almaty", "Almaty"},
	"FRA": {"Europe/Berlin", "Frankfurt-am-Main"},
	"MUC": {"Europe/Berlin", "Munich"},
	"IST": {"Europe/Istanbul", "Arnavutkoy"},
	"GVA": {"Europe/Paris", "Geneva"},
	"ZZZ": {"Europe/Paris", ""},
}

var airlineNames = mapLookup{
	"KC": "Air Astana",
	"LH": "Lufthansa",
	"TK": "Turkish Airlines",
}

func newTestAssembler(opts ...Option) *Assembler {
	return New(airports, append([]Option{WithAirlines(airlineNames)}, opts...)...)
}

func TestBuild_LayoverBetweenConnectingFlights(t *testing.T) {
	text := `
1 KC 921Y 15FEB 1 NQZFRA SS1  1125  1530  /DCKC /E
2 LH 116Y 15FEB 1 FRAMUC SS1  1715  1810  /DCLH /E
`
	out := newTestAssembler().Build(text, 2026)

	assert.Contains(t, out, "KC 921")
	assert.Contains(t, out, "LH 116")
	assert.Contains(t, out, "_Пересадка 1 час, 45 минут_")
	assert.Contains(t, out, "Munich")
}

func TestBuild_ExactOutput(t *testing.T) {
	text := "2 LH 576 C 15MAR 7 GVAFRA HK1 1000 1110\n" +
		"1 TK 351 C 15MAR 7 ISTGVA HK1 0635 0835 333 E 0 M SEE RTSVC\n"

	a := newTestAssembler(WithOverrides(mapLookup{"GVA": "Женева"}))
	want := strings.Join([]string{
		"🗓️15 мар. 06:35 – 08:35, Arnavutkoy — Женева, TK 351, Turkish Airlines. 4 часа",
		"_Пересадка 1 час, 25 минут_",
		"🗓️15 мар. 10:00 – 11:10, Женева — Frankfurt-am-Main, LH 576, Lufthansa. 1 час, 10 минут",
	}, "\n")

	assert.Equal(t, want, a.Build(text, 2026))
}

func TestBuild_EnglishLocale(t *testing.T) {
	text := "1 TK 351 C 15MAR 7 ISTGVA HK1 0635 0836\n"

	out := newTestAssembler(WithLocale(English)).Build(text, 2026)

	assert.Equal(t, "🗓️15 Mar 06:35 – 08:36, Arnavutkoy — Geneva, TK 351, Turkish Airlines. 4 hours, 1 minute", out)
}

func TestBuild_MergedAndSplitIdentifiers(t *testing.T) {
	text := `
1 TK 351 C 15MAR 7 ALAIST HK1 0635 1035 333 E 0 M SEE RTSVC
2 TK1921 C 15MAR 7 ISTGVA HK1 1225 1340 32Q E 0 M SEE RTSVC
`
	out := newTestAssembler().Build(text, 2026)

	assert.Contains(t, out, "TK 351")
	assert.Contains(t, out, "TK 1921")
}

func TestBuild_ExplicitNextDayArrival(t *testing.T) {
	text := "1 TK 350 C 25MAR 3 ISTALA HK1 2110 0435+1 333 E 0 M SEE RTSVC\n"

	a := newTestAssembler()
	it := a.Assemble(text, 2026)
	require.Len(t, it.Legs, 1)
	assert.Greater(t, it.Legs[0].Duration(), time.Duration(0))

	out := a.Render(it)
	assert.Contains(t, out, "TK 350")
	assert.Contains(t, out, "час")
}

func TestBuild_NoiseLinesIgnored(t *testing.T) {
	text := `
PLS ADD PAX MOBILE CTC FOR IRREG COMMUNICATION
H1DM.77E8*ANZ 0155/27FEB26
1 KC 921Y 15FEB 1 NQZFRA SS1  1125  1530  /DCKC /E
SOME RANDOM TEXT
`
	out := newTestAssembler().Build(text, 2026)

	assert.Contains(t, out, "KC 921")
	assert.NotContains(t, out, "PLS ADD")
	assert.NotContains(t, out, "RANDOM")
	assert.Len(t, strings.Split(out, "\n"), 1)
}

func TestBuild_NothingRecognized(t *testing.T) {
	a := newTestAssembler()
	for _, text := range []string{"", "   \n\n\t\n", "PLS ADD PAX\nSOME RANDOM TEXT", "1 KC 921Y 15FOO NQZFRA 1125 1530"} {
		assert.Equal(t, "⚠️ Сегменты не распознаны.", a.Build(text, 2026), text)
	}
	assert.Equal(t, English.NoSegments, New(nil, WithLocale(English)).Build("", 2026))
}

func TestBuild_OutputIsNotInput(t *testing.T) {
	text := `
1 KC 921Y 15FEB 1 NQZFRA SS1  1125  1530  /DCKC /E
2 LH 116Y 15FEB 1 FRAMUC SS1  1715  1810  /DCLH /E
3 TK1921 C 15MAR 7 ISTGVA HK1 1225 1340 32Q E 0 M SEE RTSVC
`
	a := newTestAssembler()
	out := a.Build(text, 2026)
	require.NotEqual(t, a.Locale().NoSegments, out)

	for _, line := range strings.Split(out, "\n") {
		assert.False(t, pnr.IsSegmentLine(line), line)
	}
	again := a.Assemble(out, 2026)
	assert.Empty(t, again.Legs)
	assert.Empty(t, again.Rejected)
	assert.Equal(t, a.Locale().NoSegments, a.Render(again))
}

func TestAssemble_NoLayoverWhenTouchingOrOverlapping(t *testing.T) {
	text := `
1 LH 1 15FEB FRAMUC HK1 1000 1100
2 LH 2 15FEB MUCFRA HK1 1100 1200
3 LH 3 15FEB FRAMUC HK1 1130 1300
4 LH 4 15FEB MUCFRA HK1 1400 1500
`
	it := newTestAssembler().Assemble(text, 2026)
	require.Len(t, it.Legs, 4)

	assert.Zero(t, it.Legs[0].Layover)
	assert.Zero(t, it.Legs[1].Layover, "touching")
	assert.Zero(t, it.Legs[2].Layover, "overlapping")
	assert.Equal(t, time.Hour, it.Legs[3].Layover)

	out := newTestAssembler().Render(it)
	assert.Equal(t, 1, strings.Count(out, "Пересадка"))
}

func TestAssemble_SortsByDepartureInstant(t *testing.T) {
	// 08:00 in Istanbul is 05:00 UTC, before 07:00 in Frankfurt (06:00 UTC).
	text := `
1 LH 10 15FEB FRAMUC HK1 0700 0800
2 TK 20 15FEB ISTGVA HK1 0800 0900
`
	it := newTestAssembler().Assemble(text, 2026)
	require.Len(t, it.Legs, 2)
	assert.Equal(t, "TK", it.Legs[0].Airline)
	assert.Equal(t, "LH", it.Legs[1].Airline)
}

func TestAssemble_RejectedLines(t *testing.T) {
	text := "REMARK\n1 KC 921Y 30FEB 1 NQZFRA SS1 1125 1530\n2 LH 116Y 15FEB 1 FRAMUC SS1 1715 1810"

	it := newTestAssembler().Assemble(text, 2026)

	require.Len(t, it.Legs, 1)
	require.Len(t, it.Rejected, 1)
	assert.Equal(t, 2, it.Rejected[0].LineNo)
	assert.Equal(t, "invalid_day", it.Rejected[0].Reason())
	assert.ErrorIs(t, it.Rejected[0].Err, pnr.ErrInvalidDay)
}

func TestAssemble_UnknownAirportFallsBack(t *testing.T) {
	text := "1 XY 77 01APR QQQFRA HK1 2300 0100\n"

	a := newTestAssembler()
	it := a.Assemble(text, 2026)
	require.Len(t, it.Legs, 1)
	assert.False(t, it.Legs[0].Zoned)
	assert.Equal(t, 2*time.Hour, it.Legs[0].Duration())
	assert.Equal(t, "🗓️1 апр. 23:00 – 01:00, QQQ — Frankfurt-am-Main, XY 77. 2 часа", a.Render(it))
}

func TestPlace(t *testing.T) {
	a := newTestAssembler(WithOverrides(mapLookup{"MUC": "Мюнхен", "FRA": ""}))

	assert.Equal(t, "Мюнхен", a.Place("MUC"))
	assert.Equal(t, "Frankfurt-am-Main", a.Place("FRA"), "empty override falls through")
	assert.Equal(t, "ZZZ", a.Place("ZZZ"), "empty city falls through")
	assert.Equal(t, "QQQ", a.Place("QQQ"))
	assert.Equal(t, "QQQ", New(nil).Place("QQQ"))
}

func TestFormatDate(t *testing.T) {
	a := newTestAssembler()
	assert.Equal(t, "15 февр.", a.FormatDate("15FEB"))
	assert.Equal(t, "5 мая", a.FormatDate("05may"))
	assert.Equal(t, "garbage", a.FormatDate("garbage"))
}

func TestBuild_ASCII(t *testing.T) {
	text := "1 KC 921Y 15FEB 1 NQZFRA SS1  1125  1530\n2 LH 116Y 15FEB 1 FRAMUC SS1  1715  1810\n"

	out := newTestAssembler(WithASCII(true)).Build(text, 2026)

	for _, r := range out {
		require.Less(t, r, rune(128), out)
	}
	assert.Contains(t, out, "KC 921")
	assert.Contains(t, out, "Peresadka")
}
