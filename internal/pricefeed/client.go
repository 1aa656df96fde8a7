package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const gramsPerTroyOunce = 31.1034768

// Fetcher retrieves current spot prices from an external source. The returned
// map is metal name to price per gram in the requested currency.
type Fetcher interface {
	Fetch(ctx context.Context, metals []string, currency string) (map[string]float64, error)
}

// HTTPFetcher talks to a metals.dev style JSON API.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type spotResponse struct {
	Metals map[string]float64 `json:"metals"`
}

func (f *HTTPFetcher) Fetch(ctx context.Context, metals []string, currency string) (map[string]float64, error) {
	endpoint, err := url.Parse(f.baseURL + "/latest")
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	q := endpoint.Query()
	q.Set("currency", currency)
	q.Set("unit", "toz")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch spot prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price feed returned status %d", resp.StatusCode)
	}

	var payload spotResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode price feed response: %w", err)
	}

	result := make(map[string]float64, len(metals))
	for _, metal := range metals {
		perOunce, ok := payload.Metals[metal]
		if !ok || perOunce <= 0 {
			continue
		}
		result[metal] = perOunce / gramsPerTroyOunce
	}
	return result, nil
}
