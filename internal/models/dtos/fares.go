package dtos

// FarePoint is one day of one airline's fare series. Price 0 means
// unavailable, whether sold out or because the source call failed.
// Fare points are produced per query and never persisted.
type FarePoint struct {
	Airline string `json:"airline"`
	Date    string `json:"date"` // YYYY-MM-DD
	Price   int    `json:"price"`
}

// FareQuery describes one origin/destination/month fare request as
// passed to a source adapter.
type FareQuery struct {
	Month       string // YYYY-MM
	Origin      string // 3-letter airport code
	Destination string // 3-letter airport code
	Currency    string // ISO currency code
}

// RouteEdge is a directed origin→destination pair discovered from one
// source's network snapshot.
type RouteEdge struct {
	Origin      string
	Destination string
}
