package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"lccwatch/faregraph/internal/models/dtos"
)

const scootHomeFixture = `<html><head>
<script id="city_pairs_data">[
  [
    {"markets": [
      {"origin": {"station_code": "SIN"},
       "destinations": [
         {"destinations": [{"station_code": "TPE"}, {"station_code": "NRT"}]},
         {"destinations": [{"station_code": "KIX"}]}
       ]},
      {"origin": {"station_code": "TPE"},
       "destinations": [{"destinations": [{"station_code": "NRT"}]}]}
    ]}
  ],
  {"meta": "ignored"}
]</script>
</head><body></body></html>`

func TestScootAdapter_FetchFares_AllZero(t *testing.T) {
	adapter := NewScootAdapter()

	series, err := adapter.FetchFares(context.Background(), dtos.FareQuery{
		Month: "2024-02", Origin: "SIN", Destination: "TPE", Currency: "TWD",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(series) != 29 {
		t.Fatalf("Expected 29 points, got %d", len(series))
	}
	for _, point := range series {
		if point.Price != 0 {
			t.Fatalf("Expected zero price on %s, got %d", point.Date, point.Price)
		}
	}
}

func TestScootAdapter_FetchRoutes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(scootHomeFixture))
	}))
	defer server.Close()

	adapter := &ScootAdapter{HomeURL: server.URL, Client: server.Client()}

	edges, err := adapter.FetchRoutes(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []dtos.RouteEdge{
		{Origin: "SIN", Destination: "TPE"},
		{Origin: "SIN", Destination: "NRT"},
		{Origin: "SIN", Destination: "KIX"},
		{Origin: "TPE", Destination: "NRT"},
	}
	if len(edges) != len(want) {
		t.Fatalf("Expected %d edges, got %d: %v", len(want), len(edges), edges)
	}
	for i, edge := range want {
		if edges[i] != edge {
			t.Errorf("Edge %d: expected %v, got %v", i, edge, edges[i])
		}
	}
}

func TestScootAdapter_FetchRoutes_MissingScript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>maintenance</body></html>"))
	}))
	defer server.Close()

	adapter := &ScootAdapter{HomeURL: server.URL, Client: server.Client()}

	if _, err := adapter.FetchRoutes(context.Background()); err == nil {
		t.Fatal("Expected error when city pairs script is absent")
	}
}
