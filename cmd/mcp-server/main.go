package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gilby125/aviator/airlines"
	"github.com/gilby125/aviator/config"
	"github.com/gilby125/aviator/iata"
	"github.com/gilby125/aviator/itinerary"
	"github.com/gilby125/aviator/overrides"
	"github.com/gilby125/aviator/pkg/buildinfo"
	"github.com/gilby125/aviator/pkg/logger"
)

// tools carries what the tool handlers share.
type tools struct {
	cfg      config.ItineraryConfig
	airports itinerary.Airports
	airlines *airlines.Table
	names    overrides.Table
	now      func() time.Time
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	// stdout carries the protocol; logs go to stderr.
	log := logger.New(logger.Config{Level: cfg.LoggingConfig.Level, Format: "text", Output: os.Stderr})

	airlineTable := airlines.Default()
	if cfg.AirlinesFile != "" {
		if airlineTable, err = airlines.LoadFile(cfg.AirlinesFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading airlines: %v\n", err)
			os.Exit(1)
		}
	}

	names := overrides.Table{}
	if cfg.OverridesConfig.Source == config.OverridesSourceHTTP {
		oc := cfg.OverridesConfig
		src := &overrides.HTTPSource{Fetcher: overrides.NewFetcher(oc.URL, oc.CachePath, oc.MaxAge, oc.Timeout)}
		t, err := src.Load(context.Background(), false)
		if err != nil {
			log.Warn("Airport names unavailable, using city names", "error", err)
		}
		if t != nil {
			names = t
		}
	}

	tl := &tools{
		cfg:      cfg.ItineraryConfig,
		airports: iata.Default,
		airlines: airlineTable,
		names:    names,
		now:      time.Now,
	}

	s := server.NewMCPServer(
		"aviator-mcp",
		buildinfo.Version,
		server.WithLogging(),
	)
	s.AddTool(buildItineraryTool(), tl.buildItinerary)
	s.AddTool(lookupAirportTool(), tl.lookupAirport)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
	}
}

func buildItineraryTool() mcp.Tool {
	return mcp.NewTool("build_itinerary",
		mcp.WithDescription("Turn PNR segment lines (GDS booking text) into a readable itinerary with local times, flight durations and layovers"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("PNR text; one segment per line, e.g. '1 TK1921 C 15MAR 7 ISTGVA HK1 1225 1340'"),
		),
		mcp.WithNumber("year",
			mcp.Description("Year applied to DDMMM dates. Defaults to the configured year."),
		),
		mcp.WithString("locale",
			mcp.Description("Output language: 'ru' (default) or 'en'"),
		),
		mcp.WithBoolean("ascii",
			mcp.Description("Transliterate the output to ASCII"),
		),
	)
}

func lookupAirportTool() mcp.Tool {
	return mcp.NewTool("lookup_airport",
		mcp.WithDescription("Look up an airport by IATA code: city, time zone and display name"),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Three-letter IATA airport code (e.g., GVA, NQZ)"),
		),
	)
}

func (tl *tools) buildItinerary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments format"), nil
	}

	text, _ := argsMap["text"].(string)
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	year := tl.cfg.Year(tl.now())
	if yearVal, ok := argsMap["year"].(float64); ok && yearVal != 0 {
		year = int(yearVal)
	}
	if year < 1 || year > 9999 {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid year: %d", year)), nil
	}

	localeName, _ := argsMap["locale"].(string)
	if localeName == "" {
		localeName = tl.cfg.Locale
	}
	ascii := tl.cfg.ASCII
	if v, ok := argsMap["ascii"].(bool); ok {
		ascii = v
	}

	asm := itinerary.New(tl.airports,
		itinerary.WithOverrides(tl.names),
		itinerary.WithAirlines(tl.airlines),
		itinerary.WithLocale(itinerary.LocaleFor(localeName)),
		itinerary.WithASCII(ascii),
	)
	it := asm.Assemble(text, year)
	if len(it.Rejected) == 0 {
		return mcp.NewToolResultText(asm.Render(it)), nil
	}

	var b strings.Builder
	b.WriteString(asm.Render(it))
	b.WriteString("\n\nSkipped lines:")
	for _, r := range it.Rejected {
		fmt.Fprintf(&b, "\n%d: %s (%s)", r.LineNo, r.Line, r.Reason())
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (tl *tools) lookupAirport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments format"), nil
	}

	code, _ := argsMap["code"].(string)
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return mcp.NewToolResultError("code must be a three-letter IATA code"), nil
	}
	loc, found := iata.Lookup(code)
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown airport code: %s", code)), nil
	}

	asm := itinerary.New(tl.airports, itinerary.WithOverrides(tl.names))
	response := map[string]interface{}{
		"code":     code,
		"city":     loc.City,
		"timezone": loc.Tz,
		"lat":      loc.Lat,
		"lon":      loc.Lon,
		"display":  asm.Place(code),
	}

	jsonBytes, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error marshaling response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
