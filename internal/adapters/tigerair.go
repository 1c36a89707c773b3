package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"lccwatch/faregraph/internal/constants"
	"lccwatch/faregraph/internal/models/dtos"
)

// TigerairAdapter speaks to the Tigerair Taiwan booking backend, a
// plain JSON API, and scrapes the station list embedded in the
// homepage script for route discovery.
type TigerairAdapter struct {
	FareURL string
	HomeURL string
	Client  *http.Client
}

// NewTigerairAdapter creates the Tigerair Taiwan adapter.
func NewTigerairAdapter() *TigerairAdapter {
	fareURL := os.Getenv("TIGERAIR_FARE_URL")
	if fareURL == "" {
		fareURL = "https://tiger-wkgk.matchbyte.net/wkapi/v1.0/flightsearch"
	}
	homeURL := os.Getenv("TIGERAIR_HOME_URL")
	if homeURL == "" {
		homeURL = "http://www.tigerairtw.com/en/"
	}

	return &TigerairAdapter{
		FareURL: fareURL,
		HomeURL: homeURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Airline returns the carrier this adapter speaks for.
func (a *TigerairAdapter) Airline() constants.Airline {
	return constants.TigerairTaiwan
}

type tigerairFareResponse struct {
	JourneyDateMarkets []struct {
		LowFares struct {
			LowestFares []struct {
				Date  string  `json:"date"`
				Price float64 `json:"price"`
			} `json:"lowestFares"`
		} `json:"lowFares"`
	} `json:"journeyDateMarkets"`
}

// FetchFares queries the flight search API once. The API returns a
// window of lowest fares centered on the requested date, so asking
// for the 16th with 15 days before and after covers the whole month.
func (a *TigerairAdapter) FetchFares(ctx context.Context, query dtos.FareQuery) ([]dtos.FarePoint, error) {
	days, err := DaysInMonth(query.Month)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("adults", "1")
	params.Set("children", "0")
	params.Set("infants", "0")
	params.Set("originStation", query.Origin)
	params.Set("destinationStation", query.Destination)
	params.Set("departureDate", DayDate(query.Month, 16))
	params.Set("includeoverbooking", "false")
	params.Set("daysBeforeAndAfter", "15")
	params.Set("locale", "zh-TW")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.FareURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, newSourceError(constants.ErrCodeSourceUnavailable, err)
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, newSourceError(constants.ErrCodeSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newSourceError(constants.ErrCodeSourceUnavailable,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var fareResp tigerairFareResponse
	if err := json.NewDecoder(resp.Body).Decode(&fareResp); err != nil {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged, err)
	}
	if len(fareResp.JourneyDateMarkets) == 0 {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged,
			fmt.Errorf("no journey date markets in response"))
	}

	series := ZeroSeries(a.Airline(), query.Month, days)
	fares := fareResp.JourneyDateMarkets[0].LowFares.LowestFares
	for i := 0; i < days && i < len(fares); i++ {
		if len(fares[i].Date) < 10 || fares[i].Date[:10] != series[i].Date {
			continue
		}
		if fares[i].Price > 0 {
			series[i].Price = int(fares[i].Price)
		}
	}

	return series, nil
}

var tigerairStationListPattern = regexp.MustCompile(`var StationList = (.+?);`)

type tigerairStationList struct {
	Stations []struct {
		AirportCode string   `json:"airportCode"`
		Markets     []string `json:"markets"`
	} `json:"stations"`
}

// FetchRoutes scrapes the StationList variable assignment out of the
// homepage. Codes starting with "X" are booking-system placeholders,
// not real airports.
func (a *TigerairAdapter) FetchRoutes(ctx context.Context) ([]dtos.RouteEdge, error) {
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

	match := tigerairStationListPattern.FindSubmatch(body)
	if match == nil {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged,
			fmt.Errorf("StationList assignment not found in page"))
	}

	var list tigerairStationList
	if err := json.Unmarshal(match[1], &list); err != nil {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged, err)
	}

	var edges []dtos.RouteEdge
	for _, station := range list.Stations {
		if strings.HasPrefix(station.AirportCode, "X") {
			continue
		}
		for _, market := range station.Markets {
			if strings.HasPrefix(market, "X") {
				continue
			}
			edges = append(edges, dtos.RouteEdge{
				Origin:      station.AirportCode,
				Destination: market,
			})
		}
	}

	return edges, nil
}
