// Package geocoding resolves free-text place descriptions to coordinates
// against a Nominatim-style geocoding service, with country-biased fallback
// queries for partial or noisy addresses.
package geocoding

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fleet-tracking-system/models"
)

type Resolver struct {
	baseURL string
	country string
	limit   int
	client  *http.Client
}

func NewResolver(baseURL, country string, limit int, client *http.Client) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if limit <= 0 {
		limit = 1
	}
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		country: country,
		limit:   limit,
		client:  client,
	}
}

// nominatimResult carries string-encoded coordinates, per the service
// contract.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve maps a free-text place description to a single best-guess
// coordinate pair. Candidate queries are tried strictly in order, stopping at
// the first that returns a result. Network errors, non-2xx responses and
// malformed payloads mean "try the next candidate", never a hard error;
// exhausting all candidates returns ok=false.
func (r *Resolver) Resolve(ctx context.Context, text string) (models.Coordinates, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Coordinates{}, false
	}

	for _, query := range candidateQueries(text, r.country) {
		coords, ok := r.query(ctx, query)
		if ok {
			return coords, true
		}
	}

	log.Printf("geocoding: no result for %q", text)
	return models.Coordinates{}, false
}

func (r *Resolver) query(ctx context.Context, query string) (models.Coordinates, bool) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(r.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return models.Coordinates{}, false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return models.Coordinates{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinates{}, false
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.Coordinates{}, false
	}
	if len(results) == 0 {
		return models.Coordinates{}, false
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Coordinates{}, false
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Coordinates{}, false
	}
	return models.Coordinates{Lat: lat, Lng: lng}, true
}

// candidateQueries builds the ordered fallback list for a comma-separated
// place description: the full string, the string minus its first component,
// minus its first two, and the last component alone, each suffixed with the
// country bias. Duplicates are dropped so at most four distinct queries are
// issued.
func candidateQueries(text, country string) []string {
	parts := splitComponents(text)
	if len(parts) == 0 {
		return nil
	}

	var raw []string
	raw = append(raw, strings.Join(parts, ", "))
	if len(parts) > 1 {
		raw = append(raw, strings.Join(parts[1:], ", "))
	}
	if len(parts) > 2 {
		raw = append(raw, strings.Join(parts[2:], ", "))
	}
	if len(parts) > 1 {
		raw = append(raw, parts[len(parts)-1])
	}

	seen := make(map[string]bool, len(raw))
	var queries []string
	for _, q := range raw {
		if country != "" && !strings.EqualFold(q, country) {
			q = q + ", " + country
		}
		if seen[q] {
			continue
		}
		seen[q] = true
		queries = append(queries, q)
	}
	return queries
}

func splitComponents(text string) []string {
	var parts []string
	for _, p := range strings.Split(text, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
