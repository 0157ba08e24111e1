package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"trip-wizard-service/internal/domain"
	"trip-wizard-service/internal/ports"
)

type autocompleteResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			GID   string `json:"gid"`
			Name  string `json:"name"`
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

type suggestion struct {
	prediction ports.PlacePrediction
	place      ports.Place
}

// autocomplete queries OpenRouteService (/geocode/autocomplete).
// Features without a usable id or coordinate are skipped.
func (o *ORSGeocoder) autocomplete(ctx context.Context, text string) ([]suggestion, error) {
	endpoint := o.baseURL + "/geocode/autocomplete"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", text)
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var decoded autocompleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode autocomplete response: %w", err)
	}

	out := make([]suggestion, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		props := f.Properties
		coords := f.Geometry.Coordinates
		if props.GID == "" || len(coords) != 2 {
			continue
		}

		label := props.Label
		if label == "" {
			label = props.Name
		}

		out = append(out, suggestion{
			prediction: ports.PlacePrediction{
				ID:            props.GID,
				MainText:      props.Name,
				SecondaryText: strings.TrimPrefix(strings.TrimPrefix(label, props.Name), ", "),
			},
			place: ports.Place{
				ID:               props.GID,
				FormattedAddress: label,
				// GeoJSON order is [lng, lat].
				Coordinate: domain.Coordinates{Lng: coords[0], Lat: coords[1]},
			},
		})
	}

	return out, nil
}
