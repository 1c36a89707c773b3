package services

import (
	"context"

	"lccwatch/faregraph/internal/adapters"
	"lccwatch/faregraph/internal/constants"
	"lccwatch/faregraph/internal/logging"
	"lccwatch/faregraph/internal/metrics"
	"lccwatch/faregraph/internal/models/dtos"
)

// FareService aggregates fare series across the requested sources.
// One failing source never affects another: its slot in the output is
// filled with zeros and the failure is logged with the source name.
type FareService struct {
	registry *adapters.Registry
	metrics  *metrics.MetricsRegistry
}

// NewFareService creates a new fare aggregation service. The metrics
// registry may be nil (batch callers and tests).
func NewFareService(registry *adapters.Registry, metricsReg *metrics.MetricsRegistry) *FareService {
	return &FareService{registry: registry, metrics: metricsReg}
}

func (s *FareService) countFetch(airline constants.Airline, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.FareFetchesTotal.WithLabelValues(airline.Label(), outcome).Inc()
}

// GetFares fetches the daily fare series of every requested airline
// for the month and pair. The result is always
// daysInMonth × len(requested ∩ known) points, ordered by the fixed
// airline enumeration and then by day; a failed source contributes an
// all-zero series of the same length.
func (s *FareService) GetFares(
	ctx context.Context,
	month string,
	origin string,
	destination string,
	airlineIDs []int,
	currency string,
) ([]dtos.FarePoint, error) {
	days, err := adapters.DaysInMonth(month)
	if err != nil {
		return nil, err
	}

	requested := make(map[constants.Airline]bool, len(airlineIDs))
	for _, id := range airlineIDs {
		requested[constants.Airline(id)] = true
	}

	query := dtos.FareQuery{
		Month:       month,
		Origin:      origin,
		Destination: destination,
		Currency:    currency,
	}

	result := make([]dtos.FarePoint, 0, days*len(airlineIDs))
	for _, adapter := range s.registry.All() {
		if !requested[adapter.Airline()] {
			continue
		}

		srcLog := logging.WithSource(adapter.Airline().Label())

		series, err := adapter.FetchFares(ctx, query)
		switch {
		case err != nil:
			srcLog.Errorw("failed to fetch fares",
				"airline_id", int(adapter.Airline()),
				"error", err.Error(),
			)
			s.countFetch(adapter.Airline(), "error")
			series = adapters.ZeroSeries(adapter.Airline(), month, days)
		case len(series) != days:
			srcLog.Errorw("fare series has wrong length",
				"airline_id", int(adapter.Airline()),
				"got", len(series),
				"want", days,
			)
			s.countFetch(adapter.Airline(), "partial")
			series = adapters.ZeroSeries(adapter.Airline(), month, days)
		default:
			srcLog.Infow("fetched fares",
				"airline_id", int(adapter.Airline()),
			)
			s.countFetch(adapter.Airline(), "ok")
		}

		result = append(result, series...)
	}

	return result, nil
}
