package dtos

import "time"

// APIResponse is the uniform JSON envelope for every endpoint.
type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Data      *T        `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// AirportOption is one selectable airport in the lookup responses.
type AirportOption struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// CountryGroup groups airports under their country display name.
type CountryGroup struct {
	Country  string          `json:"country"`
	Airports []AirportOption `json:"airports"`
}

// AirlineOption is one carrier actively serving a requested pair.
type AirlineOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// FareSeriesResponse is the aggregated fare output for a query,
// tagged with the currency the prices are quoted in.
type FareSeriesResponse struct {
	Currency string      `json:"currency"`
	Fares    []FarePoint `json:"fares"`
}
