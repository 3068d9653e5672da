// Command aviator reads PNR text from stdin and prints the itinerary.
//
//	aviator [-year 2026] [-locale ru] [-ascii] [-overrides names.csv] [-offline] [-v] < pnr.txt
//
// Input ends at the first empty line or at EOF.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/gilby125/aviator/airlines"
	"github.com/gilby125/aviator/config"
	"github.com/gilby125/aviator/iata"
	"github.com/gilby125/aviator/itinerary"
	"github.com/gilby125/aviator/overrides"
	"github.com/gilby125/aviator/pkg/buildinfo"
	"github.com/gilby125/aviator/pkg/logger"
)

const prompt = "Вставь PNR текст.\nНажми Enter на пустой строке для завершения.\n\n"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "aviator: %v\n", err)
		os.Exit(2)
	}
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	os.Exit(run(context.Background(), cfg, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, interactive))
}

func run(ctx context.Context, cfg *config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer, interactive bool) int {
	fs := flag.NewFlagSet("aviator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		year          = fs.Int("year", cfg.ItineraryConfig.Year(time.Now()), "year applied to DDMMM dates")
		localeName    = fs.String("locale", cfg.ItineraryConfig.Locale, "output language (ru, en)")
		ascii         = fs.Bool("ascii", cfg.ItineraryConfig.ASCII, "transliterate the output to ASCII")
		overridesPath = fs.String("overrides", "", "airport display-name CSV; skips the download")
		offline       = fs.Bool("offline", false, "do not download the shared airport-name sheet")
		airlinesPath  = fs.String("airlines", cfg.AirlinesFile, "YAML file of extra airline names")
		verbose       = fs.Bool("v", false, "log rejected segment lines")
		version       = fs.Bool("version", false, "print the version and exit")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *version {
		fmt.Fprintln(stdout, "aviator", buildinfo.String())
		return 0
	}
	if *year < 1 || *year > 9999 {
		fmt.Fprintf(stderr, "aviator: invalid -year %d\n", *year)
		return 2
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Format: "text", Output: stderr})

	airlineTable := airlines.Default()
	if *airlinesPath != "" {
		t, err := airlines.LoadFile(*airlinesPath)
		if err != nil {
			fmt.Fprintf(stderr, "aviator: %v\n", err)
			return 1
		}
		airlineTable = t
	}

	names := loadOverrides(ctx, cfg.OverridesConfig, *overridesPath, *offline, log)

	asm := itinerary.New(iata.Default,
		itinerary.WithOverrides(names),
		itinerary.WithAirlines(airlineTable),
		itinerary.WithLocale(itinerary.LocaleFor(*localeName)),
		itinerary.WithASCII(*ascii),
	)

	if interactive {
		fmt.Fprint(stderr, prompt)
	}
	text, err := readPNR(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "aviator: read input: %v\n", err)
		return 1
	}

	it := asm.Assemble(text, *year)
	for _, r := range it.Rejected {
		log.Debug("Segment line skipped", "line_no", r.LineNo, "reason", r.Reason(), "line", r.Line)
	}

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, asm.Locale().Header)
	fmt.Fprintln(stdout, asm.Render(it))
	return 0
}

// loadOverrides returns the display-name table. Any failure yields an empty
// table, so names fall back to the airport city.
func loadOverrides(ctx context.Context, oc config.OverridesConfig, path string, offline bool, log *logger.Logger) overrides.Table {
	var source overrides.Source
	switch {
	case path != "":
		source = &overrides.FileSource{Path: path}
	case offline:
		if oc.CachePath == "" {
			return overrides.Table{}
		}
		source = &overrides.FileSource{Path: oc.CachePath}
	default:
		source = &overrides.HTTPSource{Fetcher: overrides.NewFetcher(oc.URL, oc.CachePath, oc.MaxAge, oc.Timeout)}
	}

	t, err := source.Load(ctx, false)
	if err != nil {
		log.Warn("Airport names unavailable, using city names", "source", source.Name(), "error", err)
	}
	if t == nil {
		t = overrides.Table{}
	}
	log.Debug("Airport names loaded", "source", source.Name(), "entries", t.Len())
	return t
}

// readPNR collects lines up to the first blank one.
func readPNR(r io.Reader) (string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), scanner.Err()
}
