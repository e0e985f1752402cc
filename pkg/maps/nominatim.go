package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// NominatimProvider talks to the OpenStreetMap Nominatim search API. It needs
// no API key, which makes it the default geocoder for the hub.
type NominatimProvider struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limit      int
}

func NewNominatimProvider(baseURL string) *NominatimProvider {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}

	return &NominatimProvider{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		userAgent:  "commhub/1.0",
		limit:      1,
	}
}

type nominatimPlace struct {
	PlaceID     int64  `json:"place_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Class       string `json:"class"`
	Type        string `json:"type"`
}

func (n *NominatimProvider) Geocode(ctx context.Context, query string) (*GeocodeResponse, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(n.limit))

	apiURL := fmt.Sprintf("%s/search?%s", n.baseURL, params.Encode())

	places, err := n.fetch(ctx, apiURL)
	if err != nil {
		return nil, err
	}

	return placesToResponse(places), nil
}

func (n *NominatimProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	apiURL := fmt.Sprintf("%s/reverse?%s", n.baseURL, params.Encode())

	// The reverse endpoint returns a single object rather than an array.
	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Nominatim API error: %s", string(body))
	}

	var place nominatimPlace
	err = json.Unmarshal(body, &place)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return placesToResponse([]nominatimPlace{place}), nil
}

func (n *NominatimProvider) fetch(ctx context.Context, apiURL string) ([]nominatimPlace, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Nominatim API error: %s", string(body))
	}

	var places []nominatimPlace
	err = json.Unmarshal(body, &places)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return places, nil
}

func placesToResponse(places []nominatimPlace) *GeocodeResponse {
	results := make([]GeocodeResult, 0, len(places))
	for _, place := range places {
		lat, errLat := strconv.ParseFloat(place.Lat, 64)
		lng, errLng := strconv.ParseFloat(place.Lon, 64)
		if errLat != nil || errLng != nil {
			continue
		}

		results = append(results, GeocodeResult{
			PlaceID: strconv.FormatInt(place.PlaceID, 10),
			Address: place.DisplayName,
			Coordinates: Location{
				Latitude:  lat,
				Longitude: lng,
			},
			Types: []string{place.Class, place.Type},
		})
	}

	return &GeocodeResponse{Results: results}
}
