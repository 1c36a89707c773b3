package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lccwatch/faregraph/internal/constants"
	"lccwatch/faregraph/internal/models/dtos"
)

// jetstarStripFixture renders a 7-day fare strip anchored on the given
// departure day, the way the booking search page does.
func jetstarStripFixture(month string, anchor, maxDay int) string {
	var sb strings.Builder
	sb.WriteString("<html><body><ul>")
	for offset := -3; offset <= 3; offset++ {
		day := anchor + offset
		if day < 1 || day > maxDay {
			continue
		}
		date := fmt.Sprintf("%s-%02d", month, day)
		sb.WriteString(fmt.Sprintf(
			`<li class="date-selector__option" data-lowfare="origin1=TPE&destination1=NRT&departuredate1=%s">`+
				`<span data-amount="%d">%s</span></li>`,
			date, 2000+day, fmt.Sprintf("%d,%03d", (2000+day)/1000, (2000+day)%1000)))
	}
	sb.WriteString("</ul></body></html>")
	return sb.String()
}

func TestJetstarAdapter_FetchFares(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if ua := r.Header.Get("User-Agent"); ua != jetstarUserAgent {
			t.Errorf("Unexpected user agent %q", ua)
		}

		date := r.URL.Query().Get("departuredate1")
		day := 0
		fmt.Sscanf(date[len(date)-2:], "%d", &day)
		w.Write([]byte(jetstarStripFixture("2024-02", day, 29)))
	}))
	defer server.Close()

	adapter := &JetstarAdapter{SearchURL: server.URL, Client: server.Client()}

	series, err := adapter.FetchFares(context.Background(), dtos.FareQuery{
		Month: "2024-02", Origin: "TPE", Destination: "NRT", Currency: "TWD",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if requests != 5 {
		t.Errorf("Expected 5 search requests, got %d", requests)
	}
	if len(series) != 29 {
		t.Fatalf("Expected 29 points, got %d", len(series))
	}
	// the overlapping strips for days 4, 11, 18, 25, 28 cover the month
	for i, point := range series {
		if point.Price != 2000+i+1 {
			t.Errorf("Day %d: expected price %d, got %d", i+1, 2000+i+1, point.Price)
		}
	}
}

func TestJetstarAdapter_FetchFares_SoldOutDayStaysZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// day 4 has no numeric amount
		w.Write([]byte(`<html><ul>
			<li class="date-selector__option" data-lowfare="departuredate1=2024-02-04">
				<span data-amount="">售完</span></li>
			<li class="date-selector__option" data-lowfare="departuredate1=2024-02-05">
				<span data-amount="1234">1,234</span></li>
		</ul></html>`))
	}))
	defer server.Close()

	adapter := &JetstarAdapter{SearchURL: server.URL, Client: server.Client()}

	series, err := adapter.FetchFares(context.Background(), dtos.FareQuery{
		Month: "2024-02", Origin: "TPE", Destination: "NRT", Currency: "TWD",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if series[3].Price != 0 {
		t.Errorf("Expected sold-out day to stay 0, got %d", series[3].Price)
	}
	if series[4].Price != 1234 {
		t.Errorf("Expected day 5 price 1234, got %d", series[4].Price)
	}
}

func TestPanelOptions(t *testing.T) {
	html := `<html><body>
		<div id="origin-panel01">
			<button data-value="TPE">Taipei</button>
			<button data-value="NRT">Tokyo (Narita)</button>
			<button>not an option</button>
		</div>
		<div id="destination-panel01">
			<button data-value="OOL">Gold Coast</button>
		</div>
	</body></html>`

	origins, err := panelOptions(html, "#origin-panel01")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(origins) != 2 || origins[0] != "TPE" || origins[1] != "NRT" {
		t.Errorf("Unexpected origins: %v", origins)
	}

	destinations, err := panelOptions(html, "#destination-panel01")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(destinations) != 1 || destinations[0] != "OOL" {
		t.Errorf("Unexpected destinations: %v", destinations)
	}
}

func TestPanelOptions_Empty(t *testing.T) {
	if _, err := panelOptions("<html></html>", "#origin-panel01"); err == nil {
		t.Fatal("Expected error for panel with no options")
	}
}

func TestJetstarAdapter_FetchFares_MissingStrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>please wait</p></body></html>"))
	}))
	defer server.Close()

	adapter := &JetstarAdapter{SearchURL: server.URL, Client: server.Client()}

	_, err := adapter.FetchFares(context.Background(), dtos.FareQuery{
		Month: "2024-02", Origin: "TPE", Destination: "NRT", Currency: "TWD",
	})
	if err == nil {
		t.Fatal("Expected error for page without a fare strip")
	}
	var srcErr *SourceError
	if !errors.As(err, &srcErr) || srcErr.Code != constants.ErrCodePartialData {
		t.Errorf("Expected %s classification, got %v", constants.ErrCodePartialData, err)
	}
}

func TestJetstarAdapter_WaitForURLChange_WaitsForNavigation(t *testing.T) {
	const homeURL = "http://www.jetstar.com/tw/zh/home"
	const navigatedURL = "https://www.jetstar.com/tw/zh/cheap-flights?origin=TPE&destination=OOL"

	// the navigation completes asynchronously, a few polls after the
	// click that triggered it
	reads := 0
	adapter := &JetstarAdapter{
		WaitTimeout: 2 * time.Second,
		location: func(ctx context.Context) (string, error) {
			reads++
			if reads < 3 {
				return homeURL, nil
			}
			return navigatedURL, nil
		},
	}

	got, err := adapter.waitForURLChange(context.Background(), homeURL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != navigatedURL {
		t.Errorf("Expected navigated URL, got %q", got)
	}
	if reads < 3 {
		t.Errorf("Expected the wait to keep polling past the pre-navigation URL, got %d reads", reads)
	}
	if jetstarRouteParams.FindStringSubmatch(got) == nil {
		t.Errorf("Expected route parameters in the awaited URL %q", got)
	}
}

func TestJetstarAdapter_WaitForURLChange_Timeout(t *testing.T) {
	const homeURL = "http://www.jetstar.com/tw/zh/home"

	adapter := &JetstarAdapter{
		WaitTimeout: 50 * time.Millisecond,
		location: func(ctx context.Context) (string, error) {
			return homeURL, nil
		},
	}

	_, err := adapter.waitForURLChange(context.Background(), homeURL)
	if err == nil {
		t.Fatal("Expected timeout error for an unchanged URL")
	}
	var srcErr *SourceError
	if !errors.As(err, &srcErr) || srcErr.Code != constants.ErrCodeTimeoutExceeded {
		t.Errorf("Expected %s classification, got %v", constants.ErrCodeTimeoutExceeded, err)
	}
}

func TestJetstarAdapter_ReadLocation_SeedsFromBrowser(t *testing.T) {
	const homeURL = "http://www.jetstar.com/tw/zh/home"

	adapter := &JetstarAdapter{
		location: func(ctx context.Context) (string, error) {
			return homeURL, nil
		},
	}

	got, err := adapter.readLocation(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// the pre-navigation URL, never empty: comparing the first wait
	// against "" would make it return before any navigation happened
	if got != homeURL {
		t.Errorf("Expected %q, got %q", homeURL, got)
	}
}

func TestJetstarRouteParams(t *testing.T) {
	match := jetstarRouteParams.FindStringSubmatch(
		"https://www.jetstar.com/tw/zh/cheap-flights?origin=TPE&destination=OOL&flexible=1")
	if match == nil {
		t.Fatal("Expected route parameters to match")
	}
	if match[1] != "TPE" || match[2] != "OOL" {
		t.Errorf("Expected TPE/OOL, got %s/%s", match[1], match[2])
	}
}
