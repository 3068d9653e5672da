// Command generate rebuilds iata/airports.csv from the mwgg airport list.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type airport struct {
	Iata string
	Tz   string
	City string
	Lat  float64
	Lon  float64
}

func getAirports(ctx context.Context, commitHash string) (map[string]airport, error) {
	client := retryablehttp.NewClient()
	client.RetryMax = 5
	client.Logger = nil
	client.RetryWaitMin = time.Second
	client.HTTPClient.Timeout = 90 * time.Second

	url := fmt.Sprintf("https://raw.githubusercontent.com/mwgg/Airports/%s/airports.json", commitHash)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wrong status code: %d", resp.StatusCode)
	}

	airports := map[string]airport{}
	if err := json.NewDecoder(resp.Body).Decode(&airports); err != nil {
		return nil, err
	}
	return airports, nil
}

func main() {
	commitHash := flag.String("commit", "f259c38566a5acbcb04b64eb5ad01d14bf7fd07c", "mwgg/Airports commit to read")
	outPath := flag.String("out", "iata/airports.csv", "output file")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	airports, err := getAirports(ctx, *commitHash)
	if err != nil {
		log.Fatal(err)
	}

	// We have to iterate over the map every time in the same order because the airport
	// database has a bug where it has the same iata code twice with different timezones.
	keys := make([]string, 0, len(airports))
	for k := range airports {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	checked := map[string]struct{}{}
	rows := [][]string{}
	for _, k := range keys {
		a := airports[k]
		if a.Iata == "" || a.Iata == "0" {
			continue
		}
		if _, ok := checked[a.Iata]; ok {
			continue
		}
		checked[a.Iata] = struct{}{}
		rows = append(rows, []string{
			a.Iata,
			a.City,
			a.Tz,
			strconv.FormatFloat(a.Lat, 'f', 6, 64),
			strconv.FormatFloat(a.Lon, 'f', 6, 64),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"iata", "city", "tz", "lat", "lon"}); err != nil {
		log.Fatal(err)
	}
	if err := w.WriteAll(rows); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d airports to %s", len(rows), *outPath)
}
