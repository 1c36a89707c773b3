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
	"strconv"
	"strings"
	"time"

	"lccwatch/faregraph/internal/constants"
	"lccwatch/faregraph/internal/models/dtos"
)

// VanillaAdapter speaks to the Vanilla Air booking JSON API. Fares
// take two calls: the route catalogue first, because pairs served via
// a transit point must name it in the fare request.
type VanillaAdapter struct {
	RouteURL  string
	FareURL   string
	ScriptURL string
	Client    *http.Client
}

// NewVanillaAdapter creates the Vanilla Air adapter.
func NewVanillaAdapter() *VanillaAdapter {
	routeURL := os.Getenv("VANILLA_ROUTE_URL")
	if routeURL == "" {
		routeURL = "https://www.vanilla-air.com/api/booking/segment/route.json"
	}
	fareURL := os.Getenv("VANILLA_FARE_URL")
	if fareURL == "" {
		fareURL = "https://www.vanilla-air.com/api/booking/flight-fare/list.json"
	}
	scriptURL := os.Getenv("VANILLA_SCRIPT_URL")
	if scriptURL == "" {
		scriptURL = "https://www.vanilla-air.com/common/js/vnl.js"
	}

	return &VanillaAdapter{
		RouteURL:  routeURL,
		FareURL:   fareURL,
		ScriptURL: scriptURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Airline returns the carrier this adapter speaks for.
func (a *VanillaAdapter) Airline() constants.Airline {
	return constants.VanillaAir
}

type vanillaRouteResponse struct {
	Result []struct {
		BoardPoint   string `json:"BoardPoint"`
		OffPoint     string `json:"OffPoint"`
		TransitPoint string `json:"TransitPoint"`
	} `json:"Result"`
}

type vanillaFareResponse struct {
	Result []struct {
		FareListOfDay map[string]struct {
			LowestFare int `json:"LowestFare"`
		} `json:"FareListOfDay"`
	} `json:"Result"`
}

// FetchFares resolves the pair's transit point, then fetches the
// month's daily lowest fares. Days missing from the response stay 0.
func (a *VanillaAdapter) FetchFares(ctx context.Context, query dtos.FareQuery) ([]dtos.FarePoint, error) {
	days, err := DaysInMonth(query.Month)
	if err != nil {
		return nil, err
	}

	transit, err := a.lookupTransit(ctx, query.Origin, query.Destination)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("__ts", strconv.FormatInt(time.Now().UnixMilli(), 10))
	params.Set("adultCount", "1")
	params.Set("childCount", "0")
	params.Set("couponCode", "")
	params.Set("currency", query.Currency)
	params.Set("destination", query.Destination)
	params.Set("infantCount", "0")
	params.Set("isMultiFlight", "true")
	params.Set("origin", query.Origin)
	params.Set("searchCurrency", query.Currency)
	params.Set("targetMonth", strings.ReplaceAll(query.Month, "-", ""))
	params.Set("version", "1.0")
	params.Set("channel", "pc")
	if transit != "" {
		params.Set("transitPoint", transit)
	}

	var fareResp vanillaFareResponse
	if err := a.getJSON(ctx, a.FareURL+"?"+params.Encode(), &fareResp); err != nil {
		return nil, err
	}
	if len(fareResp.Result) == 0 {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged,
			fmt.Errorf("empty fare result"))
	}

	series := ZeroSeries(a.Airline(), query.Month, days)
	for i := range series {
		if fare, ok := fareResp.Result[0].FareListOfDay[series[i].Date]; ok && fare.LowestFare > 0 {
			series[i].Price = fare.LowestFare
		}
	}

	return series, nil
}

func (a *VanillaAdapter) lookupTransit(ctx context.Context, origin, destination string) (string, error) {
	params := url.Values{}
	params.Set("__ts", strconv.FormatInt(time.Now().UnixMilli(), 10))
	params.Set("version", "1.1")

	var routeResp vanillaRouteResponse
	if err := a.getJSON(ctx, a.RouteURL+"?"+params.Encode(), &routeResp); err != nil {
		return "", err
	}

	for _, route := range routeResp.Result {
		if route.BoardPoint == origin && route.OffPoint == destination {
			return route.TransitPoint, nil
		}
	}
	return "", nil
}

func (a *VanillaAdapter) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return newSourceError(constants.ErrCodeSourceUnavailable, err)
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return newSourceError(constants.ErrCodeSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return newSourceError(constants.ErrCodeSourceUnavailable,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newSourceError(constants.ErrCodeResponseShapeChanged, err)
	}
	return nil
}

var (
	vanillaCommentLine  = regexp.MustCompile(`.*//.*`)
	vanillaWhitespace   = regexp.MustCompile(`[\r\n\t ]`)
	vanillaOanddPattern = regexp.MustCompile(`"oandd":({.+?})`)
)

// FetchRoutes extracts the origin-and-destination map from the site's
// shared JavaScript bundle. Comment lines are stripped first since the
// object literal is mixed into hand-written code.
func (a *VanillaAdapter) FetchRoutes(ctx context.Context) ([]dtos.RouteEdge, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.ScriptURL, nil)
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

	text := vanillaCommentLine.ReplaceAllString(string(body), "")
	text = vanillaWhitespace.ReplaceAllString(text, "")

	match := vanillaOanddPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged,
			fmt.Errorf("oandd map not found in script"))
	}

	var oandd map[string][]string
	if err := json.Unmarshal([]byte(match[1]), &oandd); err != nil {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged, err)
	}

	var edges []dtos.RouteEdge
	for origin, destinations := range oandd {
		for _, destination := range destinations {
			edges = append(edges, dtos.RouteEdge{
				Origin:      origin,
				Destination: destination,
			})
		}
	}

	return edges, nil
}
