package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

// MaxMatrixDestinations is the per-request destination limit imposed by the
// Distance Matrix API.
const MaxMatrixDestinations = 25

// MatrixElement is the per-destination result of a Distance Matrix request.
type MatrixElement struct {
	// Status is "OK" when the element resolved; anything else means the
	// caller should fall back.
	Status string
	// DistanceText is the human-readable distance, e.g. "7.2 km".
	DistanceText string
	// DistanceMeters is the machine-readable distance.
	DistanceMeters int
}

// matrixResponse mirrors the Distance Matrix JSON response.
type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// DistanceMatrix requests driving distances from one origin to up to 25
// destinations in metric units. The returned slice is index-aligned with the
// destinations.
func (c *Client) DistanceMatrix(ctx context.Context, origin LatLng, destinations []LatLng) ([]MatrixElement, error) {
	if !c.Available() {
		return nil, eris.New("google: matrix: api key not configured")
	}
	if len(destinations) == 0 {
		return nil, nil
	}
	if len(destinations) > MaxMatrixDestinations {
		return nil, eris.Errorf("google: matrix: %d destinations exceeds limit of %d", len(destinations), MaxMatrixDestinations)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "google: matrix: rate limit")
	}

	dests := make([]string, len(destinations))
	for i, d := range destinations {
		dests[i] = formatLatLng(d)
	}

	params := url.Values{
		"origins":      {formatLatLng(origin)},
		"destinations": {strings.Join(dests, "|")},
		"mode":         {"driving"},
		"units":        {"metric"},
		"key":          {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.matrixBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "google: matrix: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "google: matrix: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "google: matrix: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("google: matrix: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var mr matrixResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return nil, eris.Wrap(err, "google: matrix: unmarshal response")
	}
	if mr.Status != "OK" {
		return nil, eris.Errorf("google: matrix: api status %s", mr.Status)
	}
	if len(mr.Rows) == 0 {
		return nil, eris.New("google: matrix: empty rows")
	}

	elements := make([]MatrixElement, 0, len(mr.Rows[0].Elements))
	for _, e := range mr.Rows[0].Elements {
		elements = append(elements, MatrixElement{
			Status:         e.Status,
			DistanceText:   e.Distance.Text,
			DistanceMeters: e.Distance.Value,
		})
	}
	return elements, nil
}

func formatLatLng(p LatLng) string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}
