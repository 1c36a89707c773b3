package reference

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"lccwatch/faregraph/internal/common"
)

// pageCacheTTL keeps a fetched reference page around long enough for
// every row sharing its group key to reuse it within one run.
const pageCacheTTL = 15 * time.Minute

// Client fetches the reference tables used by metadata enrichment.
// Pages are cached by group key so airports processed in code order
// hit the network once per leading letter.
type Client struct {
	EnBaseURL string
	ZhBaseURL string
	Client    *http.Client
	cache     common.CacheInterface
}

// NewClient creates a reference client backed by the given cache.
func NewClient(cache common.CacheInterface) *Client {
	enBase := os.Getenv("WIKI_EN_BASE_URL")
	if enBase == "" {
		enBase = "https://en.wikipedia.org/wiki"
	}
	zhBase := os.Getenv("WIKI_ZH_BASE_URL")
	if zhBase == "" {
		zhBase = "https://zh.wikipedia.org/wiki"
	}

	return &Client{
		EnBaseURL: enBase,
		ZhBaseURL: zhBase,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: cache,
	}
}

// AirportPage returns the English IATA-code listing for one leading
// letter.
func (c *Client) AirportPage(ctx context.Context, letter string) (*goquery.Document, error) {
	pageURL := c.EnBaseURL + "/" + url.PathEscape("List_of_airports_by_IATA_code:_"+letter)
	return c.fetchPage(ctx, "airports_en:"+letter, pageURL)
}

// LocalizedAirportPage returns the localized IATA-code listing for one
// leading letter.
func (c *Client) LocalizedAirportPage(ctx context.Context, letter string) (*goquery.Document, error) {
	pageURL := c.ZhBaseURL + "/" + url.PathEscape("国际航空运输协会机场代码_("+letter+")")
	return c.fetchPage(ctx, "airports_zh:"+letter, pageURL)
}

// CurrencyPage returns the circulating-currencies listing.
func (c *Client) CurrencyPage(ctx context.Context) (*goquery.Document, error) {
	pageURL := c.EnBaseURL + "/" + "List_of_circulating_currencies"
	return c.fetchPage(ctx, "currencies", pageURL)
}

func (c *Client) fetchPage(ctx context.Context, cacheKey, pageURL string) (*goquery.Document, error) {
	cached, err := c.cache.GetOrSet(cacheKey, pageCacheTTL, func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
		}

		return goquery.NewDocumentFromReader(resp.Body)
	})
	if err != nil {
		return nil, err
	}

	doc, ok := cached.(*goquery.Document)
	if !ok {
		return nil, fmt.Errorf("unexpected cache entry type for %s", cacheKey)
	}
	return doc, nil
}

// FindTableRow locates the row of the page's first sortable wikitable
// containing a cell whose text equals key, and returns the trimmed
// text of every cell in that row.
func FindTableRow(doc *goquery.Document, key string) ([]string, error) {
	table := doc.Find("table.wikitable.sortable").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no sortable wikitable in page")
	}

	var cells []string
	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		found := false
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			if strings.TrimSpace(cell.Text()) == key {
				found = true
			}
		})
		if !found {
			return true
		}

		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		return false
	})

	if cells == nil {
		return nil, fmt.Errorf("no row found for %q", key)
	}
	return cells, nil
}
