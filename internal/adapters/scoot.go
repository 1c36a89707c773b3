package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"time"

	"lccwatch/faregraph/internal/constants"
	"lccwatch/faregraph/internal/models/dtos"
)

// ScootAdapter covers Scoot. The source exposes no usable fare API,
// so FetchFares is a zero-filled stub kept behind the shared adapter
// surface; route discovery reads the city-pairs JSON the homepage
// embeds in a script tag.
type ScootAdapter struct {
	HomeURL string
	Client  *http.Client
}

// NewScootAdapter creates the Scoot adapter.
func NewScootAdapter() *ScootAdapter {
	homeURL := os.Getenv("SCOOT_HOME_URL")
	if homeURL == "" {
		homeURL = "https://www.flyscoot.com/en/"
	}

	return &ScootAdapter{
		HomeURL: homeURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Airline returns the carrier this adapter speaks for.
func (a *ScootAdapter) Airline() constants.Airline {
	return constants.Scoot
}

// FetchFares returns the all-zero series until a fare source exists
// for this carrier, keeping the aggregated output shape uniform.
func (a *ScootAdapter) FetchFares(ctx context.Context, query dtos.FareQuery) ([]dtos.FarePoint, error) {
	days, err := DaysInMonth(query.Month)
	if err != nil {
		return nil, err
	}
	return ZeroSeries(a.Airline(), query.Month, days), nil
}

var scootCityPairsPattern = regexp.MustCompile(`(?s)<script id="city_pairs_data">(.+?)</script>`)

type scootCountry struct {
	Markets []struct {
		Origin struct {
			StationCode string `json:"station_code"`
		} `json:"origin"`
		Destinations []struct {
			Destinations []struct {
				StationCode string `json:"station_code"`
			} `json:"destinations"`
		} `json:"destinations"`
	} `json:"markets"`
}

// FetchRoutes extracts the city-pairs structure from the homepage:
// an outer array whose first element lists countries, each carrying
// origin markets and their destination groups.
func (a *ScootAdapter) FetchRoutes(ctx context.Context) ([]dtos.RouteEdge, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.HomeURL, nil)
	if err != nil {
		return nil, newSourceError(constants.ErrCodeSourceUnavailable, err)
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, newSourceError(constants.ErrCodeSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newSourceError(constants.ErrCodeSourceUnavailable, err)
	}

	match := scootCityPairsPattern.FindSubmatch(body)
	if match == nil {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged,
			fmt.Errorf("city_pairs_data script not found in page"))
	}

	var outer []json.RawMessage
	if err := json.Unmarshal(match[1], &outer); err != nil {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged, err)
	}
	if len(outer) == 0 {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged,
			fmt.Errorf("empty city_pairs_data"))
	}

	var countries []scootCountry
	if err := json.Unmarshal(outer[0], &countries); err != nil {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged, err)
	}

	var edges []dtos.RouteEdge
	for _, country := range countries {
		for _, market := range country.Markets {
			for _, group := range market.Destinations {
				for _, destination := range group.Destinations {
					edges = append(edges, dtos.RouteEdge{
						Origin:      market.Origin.StationCode,
						Destination: destination.StationCode,
					})
				}
			}
		}
	}

	return edges, nil
}
