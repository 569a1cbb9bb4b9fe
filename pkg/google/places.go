package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
)

// Place represents a place returned by the Text Search API.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Vicinity         string   `json:"vicinity"`
	Types            []string `json:"types"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	Geometry         struct {
		Location LatLng `json:"location"`
	} `json:"geometry"`
}

// Address returns the best available address string for the place.
func (p Place) Address() string {
	if p.FormattedAddress != "" {
		return p.FormattedAddress
	}
	return p.Vicinity
}

type textSearchResponse struct {
	Status  string  `json:"status"`
	Results []Place `json:"results"`
}

// TextSearch runs a Places Text Search for the query biased to a location and
// radius in meters. ZERO_RESULTS is not an error; it returns an empty slice.
func (c *Client) TextSearch(ctx context.Context, query string, location LatLng, radiusMeters int) ([]Place, error) {
	if !c.Available() {
		return nil, eris.New("google: places: api key not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "google: places: rate limit")
	}

	params := url.Values{
		"query":    {query},
		"location": {formatLatLng(location)},
		"radius":   {fmt.Sprintf("%d", radiusMeters)},
		"key":      {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.placesBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "google: places: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "google: places: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "google: places: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("google: places: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var tr textSearchResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, eris.Wrap(err, "google: places: unmarshal response")
	}
	switch tr.Status {
	case "OK":
		return tr.Results, nil
	case "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, eris.Errorf("google: places: api status %s", tr.Status)
	}
}
