package api

import (
	"math"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gilby125/aviator/airlines"
	"github.com/gilby125/aviator/iata"
	"github.com/gilby125/aviator/itinerary"
	"github.com/gilby125/aviator/pkg/cache"
	"github.com/gilby125/aviator/pkg/geo"
)

var airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ItineraryRequest is the body of POST /api/v1/itinerary.
type ItineraryRequest struct {
	Text   string `json:"text" binding:"required"`
	Year   int    `json:"year" binding:"omitempty,min=1,max=9999"`
	Locale string `json:"locale"`
	ASCII  *bool  `json:"ascii"`
}

// ItineraryResponse carries the rendered text and its structured parts.
type ItineraryResponse struct {
	Itinerary string              `json:"itinerary"`
	Locale    string              `json:"locale"`
	Year      int                 `json:"year"`
	Segments  []SegmentResponse   `json:"segments"`
	Rejected  []RejectionResponse `json:"rejected"`
}

// SegmentResponse is one leg of the itinerary.
type SegmentResponse struct {
	Flight          string    `json:"flight"`
	Airline         string    `json:"airline"`
	AirlineName     string    `json:"airline_name,omitempty"`
	Origin          string    `json:"origin"`
	OriginName      string    `json:"origin_name"`
	Destination     string    `json:"destination"`
	DestinationName string    `json:"destination_name"`
	Departure       time.Time `json:"departure"`
	Arrival         time.Time `json:"arrival"`
	DurationMinutes int       `json:"duration_minutes"`
	Duration        string    `json:"duration"`
	DistanceKm      int       `json:"distance_km,omitempty"`
	LayoverMinutes  int       `json:"layover_minutes,omitempty"`
	Layover         string    `json:"layover,omitempty"`
	Zoned           bool      `json:"zoned"`
}

// RejectionResponse reports a segment line that could not be read.
type RejectionResponse struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

// AirportResponse is the body of GET /api/v1/airports/:code.
type AirportResponse struct {
	Code     string  `json:"code"`
	City     string  `json:"city"`
	Timezone string  `json:"timezone"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Display  string  `json:"display"`
}

// BuildItinerary returns a handler that parses PNR text into an itinerary.
func BuildItinerary(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ItineraryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cfg := d.Config.ItineraryConfig
		year := req.Year
		if year == 0 {
			year = cfg.Year(d.Now())
		}
		localeName := req.Locale
		if localeName == "" {
			localeName = cfg.Locale
		}
		ascii := cfg.ASCII
		if req.ASCII != nil {
			ascii = *req.ASCII
		}

		asm := itinerary.New(d.Airports,
			itinerary.WithOverrides(d.Overrides.Snapshot()),
			itinerary.WithAirlines(d.Airlines),
			itinerary.WithLocale(itinerary.LocaleFor(localeName)),
			itinerary.WithASCII(ascii),
		)

		start := time.Now()
		it := asm.Assemble(req.Text, year)
		text := asm.Render(it)

		reasons := make([]string, 0, len(it.Rejected))
		resp := ItineraryResponse{
			Itinerary: text,
			Locale:    asm.Locale().Tag.String(),
			Year:      year,
			Segments:  make([]SegmentResponse, 0, len(it.Legs)),
			Rejected:  make([]RejectionResponse, 0, len(it.Rejected)),
		}
		for _, leg := range it.Legs {
			resp.Segments = append(resp.Segments, segmentResponse(asm, leg))
		}
		for _, r := range it.Rejected {
			reasons = append(reasons, r.Reason())
			resp.Rejected = append(resp.Rejected, RejectionResponse{
				Line:   r.LineNo,
				Text:   r.Line,
				Reason: r.Reason(),
				Error:  r.Err.Error(),
			})
		}
		d.Metrics.ObserveItinerary(len(it.Legs), reasons, time.Since(start))

		d.Logger.WithContext(c.Request.Context()).Debug("Itinerary built",
			"segments", len(it.Legs), "rejected", len(it.Rejected), "locale", resp.Locale)

		c.JSON(http.StatusOK, resp)
	}
}

func segmentResponse(asm *itinerary.Assembler, leg itinerary.Leg) SegmentResponse {
	loc := asm.Locale()
	s := SegmentResponse{
		Flight:          leg.Flight(),
		Airline:         leg.Airline,
		AirlineName:     leg.AirlineName,
		Origin:          leg.Origin,
		OriginName:      asm.Place(leg.Origin),
		Destination:     leg.Destination,
		DestinationName: asm.Place(leg.Destination),
		Departure:       leg.Departure,
		Arrival:         leg.Arrival,
		DurationMinutes: int(leg.Duration() / time.Minute),
		Duration:        loc.FormatDuration(leg.Duration()),
		Zoned:           leg.Zoned,
	}
	if km, ok := distanceKm(leg.Origin, leg.Destination); ok {
		s.DistanceKm = int(math.Round(km))
	}
	if leg.Layover > 0 {
		s.LayoverMinutes = int(leg.Layover / time.Minute)
		s.Layover = loc.FormatDuration(leg.Layover)
	}
	return s
}

// distanceKm is the great-circle distance between two airports, when both
// have coordinates.
func distanceKm(from, to string) (float64, bool) {
	a, ok := iata.Lookup(from)
	if !ok {
		return 0, false
	}
	b, ok := iata.Lookup(to)
	if !ok {
		return 0, false
	}
	return geo.DistanceKm(geo.Coordinates{Lat: a.Lat, Lon: a.Lon}, geo.Coordinates{Lat: b.Lat, Lon: b.Lon})
}

// GetAirport returns a handler describing one airport.
func GetAirport(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
		if !airportCodePattern.MatchString(code) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid airport code format"})
			return
		}
		loc, ok := iata.Lookup(code)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown airport code"})
			return
		}

		build := func() AirportResponse {
			asm := itinerary.New(d.Airports, itinerary.WithOverrides(d.Overrides.Snapshot()))
			return AirportResponse{
				Code:     code,
				City:     loc.City,
				Timezone: loc.Tz,
				Lat:      loc.Lat,
				Lon:      loc.Lon,
				Display:  asm.Place(code),
			}
		}
		if d.Cache == nil {
			c.JSON(http.StatusOK, build())
			return
		}

		var resp AirportResponse
		err := d.Cache.GetOrSet(c.Request.Context(), cache.AirportKey(code), cache.ShortTTL, &resp, func() (interface{}, error) {
			return build(), nil
		})
		if err != nil {
			d.Logger.WithContext(c.Request.Context()).WithField("code", code).Error(err, "Airport cache error")
			resp = build()
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetAirline returns a handler resolving a carrier code to its name.
func GetAirline(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
		if !airlines.ValidCode(code) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid airline code format"})
			return
		}
		name, ok := d.Airlines.AirlineName(code)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown airline code"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": code, "name": name})
	}
}

// RefreshOverrides returns a handler that reloads the airport overrides
// from their source, bypassing every cache.
func RefreshOverrides(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d.Refresher == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Overrides refresh is not configured"})
			return
		}

		entries, err := d.Refresher.Refresh(c.Request.Context(), true)
		// A failed refresh may still install a stale table.
		if d.Cache != nil {
			if cerr := d.Cache.Clear(c.Request.Context()); cerr != nil {
				d.Logger.WithContext(c.Request.Context()).Error(cerr, "Failed to clear lookup cache")
			}
		}
		if err != nil {
			d.Logger.WithContext(c.Request.Context()).Error(err, "Manual overrides refresh failed")
			c.JSON(http.StatusBadGateway, gin.H{
				"source":  d.Refresher.Source(),
				"entries": entries,
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"source":  d.Refresher.Source(),
			"entries": entries,
		})
	}
}
