package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"lccwatch/faregraph/internal/constants"
	"lccwatch/faregraph/internal/models/dtos"
)

// PeachAdapter covers Peach Aviation. Like Scoot there is no fare
// source yet, so fares are a zero-filled stub; routes come from the
// booking widget's JavaScript configuration file.
type PeachAdapter struct {
	WidgetURL string
	Client    *http.Client
}

// NewPeachAdapter creates the Peach Aviation adapter.
func NewPeachAdapter() *PeachAdapter {
	widgetURL := os.Getenv("PEACH_WIDGET_URL")
	if widgetURL == "" {
		widgetURL = "http://www.flypeach.com/widget/widgetvars.js"
	}

	return &PeachAdapter{
		WidgetURL: widgetURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Airline returns the carrier this adapter speaks for.
func (a *PeachAdapter) Airline() constants.Airline {
	return constants.PeachAviation
}

// FetchFares returns the all-zero series until a fare source exists
// for this carrier, keeping the aggregated output shape uniform.
func (a *PeachAdapter) FetchFares(ctx context.Context, query dtos.FareQuery) ([]dtos.FarePoint, error) {
	days, err := DaysInMonth(query.Month)
	if err != nil {
		return nil, err
	}
	return ZeroSeries(a.Airline(), query.Month, days), nil
}

var (
	peachWhitespace    = regexp.MustCompile(`[\r\n\t ]`)
	peachRoutesPattern = regexp.MustCompile(`routes:(.+?),landingPages:`)
)

type peachRoute struct {
	Origin      string `json:"ori"`
	Destination string `json:"dest"`
}

// FetchRoutes pulls the widget configuration script and carves the
// unquoted routes literal out of it. The ori/dest keys are bare
// identifiers in the source, so they are quoted before unmarshalling.
func (a *PeachAdapter) FetchRoutes(ctx context.Context) ([]dtos.RouteEdge, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.WidgetURL, nil)
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

	text := peachWhitespace.ReplaceAllString(string(body), "")
	match := peachRoutesPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged,
			fmt.Errorf("routes literal not found in widget script"))
	}

	quoted := strings.ReplaceAll(match[1], "ori", `"ori"`)
	quoted = strings.ReplaceAll(quoted, "dest", `"dest"`)

	var routes []peachRoute
	if err := json.Unmarshal([]byte(quoted), &routes); err != nil {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged, err)
	}

	var edges []dtos.RouteEdge
	for _, route := range routes {
		edges = append(edges, dtos.RouteEdge{
			Origin:      route.Origin,
			Destination: route.Destination,
		})
	}

	return edges, nil
}
