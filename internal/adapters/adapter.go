package adapters

import (
	"context"
	"fmt"
	"time"

	"lccwatch/faregraph/internal/constants"
	"lccwatch/faregraph/internal/models/dtos"
)

// ErrNotSupported is returned by adapters for capabilities their
// source does not expose. Callers skip the source instead of treating
// it as a failure; matching is by errors.Is against this value.
var ErrNotSupported = &SourceError{
	Code:    constants.ErrCodeNotSupported,
	Message: constants.GetSourceErrorMessage(constants.ErrCodeNotSupported),
}

// Adapter translates one external source's native protocol into the
// normalized fare and route types. One implementation exists per
// airline; they differ materially in transport (JSON API, HTML
// scrape, headless browser) behind this shared surface.
type Adapter interface {
	// Airline returns the carrier this adapter speaks for.
	Airline() constants.Airline

	// FetchFares returns one FarePoint per calendar day of the query
	// month. A non-nil error means the caller must substitute an
	// all-zero series; an adapter never returns a partial month.
	FetchFares(ctx context.Context, query dtos.FareQuery) ([]dtos.FarePoint, error)

	// FetchRoutes returns a complete snapshot of the source's current
	// network as directed edges, or ErrNotSupported.
	FetchRoutes(ctx context.Context) ([]dtos.RouteEdge, error)
}

// SourceError classifies a failure of one external source.
type SourceError struct {
	Code    string
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func newSourceError(code string, err error) *SourceError {
	return &SourceError{
		Code:    code,
		Message: constants.GetSourceErrorMessage(code),
		Err:     err,
	}
}

// Registry holds the adapter set, dispatched by airline identifier.
type Registry struct {
	adapters map[constants.Airline]Adapter
}

// NewRegistry builds a registry from the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	m := make(map[constants.Airline]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Airline()] = a
	}
	return &Registry{adapters: m}
}

// NewDefaultRegistry wires every supported carrier's adapter.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		NewTigerairAdapter(),
		NewVanillaAdapter(),
		NewScootAdapter(),
		NewPeachAdapter(),
		NewJetstarAdapter(),
	)
}

// Get returns the adapter for an airline, if registered.
func (r *Registry) Get(airline constants.Airline) (Adapter, bool) {
	a, ok := r.adapters[airline]
	return a, ok
}

// All returns registered adapters in fixed enumeration order.
// Aggregated output follows this order, never caller order.
func (r *Registry) All() []Adapter {
	var out []Adapter
	for _, id := range constants.AllAirlines {
		if a, ok := r.adapters[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// DaysInMonth returns the number of calendar days in a YYYY-MM month.
func DaysInMonth(month string) (int, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return 0, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return t.AddDate(0, 1, -1).Day(), nil
}

// DayDate formats day n (1-based) of a YYYY-MM month as YYYY-MM-DD.
func DayDate(month string, day int) string {
	return fmt.Sprintf("%s-%02d", month, day)
}

// ZeroSeries builds the all-zero fare series for a month, the safe
// value every fare failure degrades to.
func ZeroSeries(airline constants.Airline, month string, days int) []dtos.FarePoint {
	series := make([]dtos.FarePoint, days)
	for i := range series {
		series[i] = dtos.FarePoint{
			Airline: airline.Label(),
			Date:    DayDate(month, i+1),
			Price:   0,
		}
	}
	return series
}
