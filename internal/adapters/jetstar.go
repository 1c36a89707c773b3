package adapters

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"lccwatch/faregraph/internal/constants"
	"lccwatch/faregraph/internal/models/dtos"
)

const jetstarUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/63.0.3239.84 Safari/537.36"

// JetstarAdapter covers Jetstar. Fares are scraped from the booking
// search page, which renders a 7-day fare strip per request. Route
// discovery has no scrape target at all: the network is only
// reachable by driving the homepage's origin/destination selectors in
// a real browser and reading the URLs they navigate to.
type JetstarAdapter struct {
	SearchURL   string
	HomeURL     string
	Client      *http.Client
	WaitTimeout time.Duration

	// location reads the browser's current URL. Nil means
	// chromedp.Location against the live browser context; tests
	// inject a fake.
	location func(ctx context.Context) (string, error)
}

// NewJetstarAdapter creates the Jetstar adapter.
func NewJetstarAdapter() *JetstarAdapter {
	searchURL := os.Getenv("JETSTAR_SEARCH_URL")
	if searchURL == "" {
		searchURL = "https://booking.jetstar.com/tw/zh/booking/search-flights"
	}
	homeURL := os.Getenv("JETSTAR_HOME_URL")
	if homeURL == "" {
		homeURL = "http://www.jetstar.com/tw/zh/home"
	}

	return &JetstarAdapter{
		SearchURL: searchURL,
		HomeURL:   homeURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		WaitTimeout: 10 * time.Second,
	}
}

// Airline returns the carrier this adapter speaks for.
func (a *JetstarAdapter) Airline() constants.Airline {
	return constants.Jetstar
}

var (
	jetstarLowfareDate = regexp.MustCompile(`departuredate1=(\d{4}-\d{2}-\d{2})`)
	jetstarHasDigit    = regexp.MustCompile(`\d`)
)

// FetchFares issues five searches (departure days 4, 11, 18, 25, 28)
// so the overlapping 7-day strips cover every day of the month, then
// reads price and date out of the strip's list markup.
func (a *JetstarAdapter) FetchFares(ctx context.Context, query dtos.FareQuery) ([]dtos.FarePoint, error) {
	days, err := DaysInMonth(query.Month)
	if err != nil {
		return nil, err
	}

	series := ZeroSeries(a.Airline(), query.Month, days)

	for i := 0; i < 5; i++ {
		day := i*7 + 4
		if i == 4 {
			day = 28
		}

		params := url.Values{}
		params.Set("origin1", query.Origin)
		params.Set("destination1", query.Destination)
		params.Set("departuredate1", DayDate(query.Month, day))
		params.Set("adults", "1")
		params.Set("children", "0")
		params.Set("infants", "0")
		params.Set("currency", query.Currency)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.SearchURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, newSourceError(constants.ErrCodeSourceUnavailable, err)
		}
		// the booking site rejects non-browser clients
		req.Header.Set("User-Agent", jetstarUserAgent)

		resp, err := a.Client.Do(req)
		if err != nil {
			return nil, newSourceError(constants.ErrCodeSourceUnavailable, err)
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, newSourceError(constants.ErrCodeResponseShapeChanged, err)
		}

		if err := a.readFareStrip(doc, series); err != nil {
			return nil, err
		}
	}

	return series, nil
}

func (a *JetstarAdapter) readFareStrip(doc *goquery.Document, series []dtos.FarePoint) error {
	var parseErr error

	options := doc.Find("li.date-selector__option")
	if options.Length() == 0 {
		// the page rendered but without its fare strip
		return newSourceError(constants.ErrCodePartialData,
			fmt.Errorf("no fare options in strip"))
	}

	options.Each(func(_ int, option *goquery.Selection) {
		if parseErr != nil {
			return
		}

		lowfare, ok := option.Attr("data-lowfare")
		if !ok {
			return
		}
		match := jetstarLowfareDate.FindStringSubmatch(lowfare)
		if match == nil {
			return
		}
		date := match[1]

		dayIdx, err := strconv.Atoi(date[len(date)-2:])
		if err != nil || dayIdx < 1 || dayIdx > len(series) {
			return
		}
		if series[dayIdx-1].Date != date {
			return
		}

		price := option.Find("span[data-amount]").First()
		if price.Length() == 0 {
			return
		}
		text := strings.TrimSpace(price.Text())
		if !jetstarHasDigit.MatchString(text) {
			return
		}

		amount, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
		if err != nil {
			parseErr = newSourceError(constants.ErrCodeResponseShapeChanged, err)
			return
		}
		series[dayIdx-1].Price = int(math.Round(amount))
	})

	return parseErr
}

var jetstarRouteParams = regexp.MustCompile(`origin=([A-Z]{3})&destination=([A-Z]{3})`)

// FetchRoutes walks the homepage selectors with a headless browser:
// open the origin panel, and for every origin open the destination
// panel and click through every destination, reading the pair off the
// query string of the URL each selection navigates to. Every UI
// transition is waited on with a bounded timeout. The browser is torn
// down on every exit path.
func (a *JetstarAdapter) FetchRoutes(ctx context.Context) ([]dtos.RouteEdge, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(a.HomeURL),
		chromedp.Evaluate(`document.querySelector("button[data-direction-id = origin]").click();`, nil),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, newSourceError(constants.ErrCodeSourceUnavailable, err)
	}

	origins, err := panelOptions(html, "#origin-panel01")
	if err != nil {
		return nil, err
	}

	var edges []dtos.RouteEdge

	// seed with the pre-navigation URL so the first wait really waits
	currentURL, err := a.readLocation(browserCtx)
	if err != nil {
		return nil, newSourceError(constants.ErrCodeSourceUnavailable, err)
	}

	for idx, origin := range origins {
		click := fmt.Sprintf(`document.querySelector("#origin-panel01 button[data-value = '%s']").click();`, origin)
		if err := chromedp.Run(browserCtx, chromedp.Evaluate(click, nil)); err != nil {
			return nil, newSourceError(constants.ErrCodeSourceUnavailable, err)
		}
		// the first origin is already selected on load and does not navigate
		if idx != 0 {
			if currentURL, err = a.waitForURLChange(browserCtx, currentURL); err != nil {
				return nil, err
			}
		}

		err = chromedp.Run(browserCtx,
			chromedp.Evaluate(`document.querySelector("button[data-direction-id = destination]").click();`, nil),
		)
		if err != nil {
			return nil, newSourceError(constants.ErrCodeSourceUnavailable, err)
		}
		if err := a.waitVisible(browserCtx, `button[data-direction-id="destination"][aria-expanded="true"]`); err != nil {
			return nil, err
		}

		if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html)); err != nil {
			return nil, newSourceError(constants.ErrCodeSourceUnavailable, err)
		}
		destinations, err := panelOptions(html, "#destination-panel01")
		if err != nil {
			return nil, err
		}

		for _, destination := range destinations {
			click := fmt.Sprintf(`document.querySelector("#destination-panel01 button[data-value = '%s']").click();`, destination)
			if err := chromedp.Run(browserCtx, chromedp.Evaluate(click, nil)); err != nil {
				return nil, newSourceError(constants.ErrCodeSourceUnavailable, err)
			}
			if currentURL, err = a.waitForURLChange(browserCtx, currentURL); err != nil {
				return nil, err
			}

			match := jetstarRouteParams.FindStringSubmatch(currentURL)
			if match == nil {
				return nil, newSourceError(constants.ErrCodeResponseShapeChanged,
					fmt.Errorf("no origin/destination parameters in %q", currentURL))
			}
			edges = append(edges, dtos.RouteEdge{
				Origin:      match[1],
				Destination: match[2],
			})
		}
	}

	return edges, nil
}

// panelOptions lists the data-value codes of a selector panel.
func panelOptions(html, panelSelector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged, err)
	}

	var options []string
	doc.Find(panelSelector + " button[data-value]").Each(func(_ int, button *goquery.Selection) {
		if value, ok := button.Attr("data-value"); ok {
			options = append(options, value)
		}
	})

	if len(options) == 0 {
		return nil, newSourceError(constants.ErrCodeResponseShapeChanged,
			fmt.Errorf("no options found in %s", panelSelector))
	}
	return options, nil
}

func (a *JetstarAdapter) readLocation(ctx context.Context) (string, error) {
	if a.location != nil {
		return a.location(ctx)
	}
	var current string
	if err := chromedp.Run(ctx, chromedp.Location(&current)); err != nil {
		return "", err
	}
	return current, nil
}

// waitForURLChange polls the browser location until it differs from
// prev or the wait timeout elapses. Callers must pass the URL that was
// current before the click, never a stale or empty value, or the wait
// degenerates into an immediate return.
func (a *JetstarAdapter) waitForURLChange(ctx context.Context, prev string) (string, error) {
	deadline := time.Now().Add(a.WaitTimeout)
	for time.Now().Before(deadline) {
		current, err := a.readLocation(ctx)
		if err != nil {
			return "", newSourceError(constants.ErrCodeSourceUnavailable, err)
		}
		if current != prev {
			return current, nil
		}

		select {
		case <-ctx.Done():
			return "", newSourceError(constants.ErrCodeTimeoutExceeded, ctx.Err())
		case <-time.After(200 * time.Millisecond):
		}
	}
	return "", newSourceError(constants.ErrCodeTimeoutExceeded,
		fmt.Errorf("URL unchanged after %s", a.WaitTimeout))
}

// waitVisible bounds a chromedp visibility wait with the adapter's
// timeout.
func (a *JetstarAdapter) waitVisible(ctx context.Context, selector string) error {
	waitCtx, cancel := context.WithTimeout(ctx, a.WaitTimeout)
	defer cancel()

	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return newSourceError(constants.ErrCodeTimeoutExceeded, err)
	}
	return nil
}
