package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lccwatch/faregraph/internal/adapters"
	"lccwatch/faregraph/internal/db/repositories"
	"lccwatch/faregraph/internal/logging"
	"lccwatch/faregraph/internal/models/entities"
)

// SyncService merges each source's current network snapshot into the
// persisted route graph. Per airline it deactivates everything first,
// then reactivates or inserts each discovered edge, all inside one
// transaction, so a failed fetch leaves that airline's prior graph
// untouched and edges no longer observed simply stay inactive.
type SyncService struct {
	db       *gorm.DB
	registry *adapters.Registry
	routes   *repositories.RouteRepository
	airports *repositories.AirportRepository
}

// NewSyncService creates a new route graph synchronizer
func NewSyncService(db *gorm.DB, registry *adapters.Registry) *SyncService {
	return &SyncService{
		db:       db,
		registry: registry,
		routes:   repositories.NewRouteRepository(db),
		airports: repositories.NewAirportRepository(db),
	}
}

// SyncAll synchronizes every registered airline in enumeration order.
// One airline's failure is logged and never aborts the others.
func (s *SyncService) SyncAll(ctx context.Context) int {
	total := 0
	for _, adapter := range s.registry.All() {
		synced, err := s.SyncAirline(ctx, adapter)
		if err != nil {
			logging.WithSource(adapter.Airline().Label()).Errorw(
				"failed to sync route graph",
				"airline_id", int(adapter.Airline()),
				"error", err.Error(),
			)
			continue
		}
		total += synced
	}
	return total
}

// SyncAirline fetches one airline's edge snapshot and applies it to
// the graph as a single atomic unit. Adapters without route discovery
// are skipped.
func (s *SyncService) SyncAirline(ctx context.Context, adapter adapters.Adapter) (int, error) {
	srcLog := logging.WithSource(adapter.Airline().Label())

	edges, err := adapter.FetchRoutes(ctx)
	if errors.Is(err, adapters.ErrNotSupported) {
		srcLog.Debugw("source has no route discovery",
			"airline_id", int(adapter.Airline()),
		)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("fetching route snapshot: %w", err)
	}

	airline := adapter.Airline()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		routeRepo := s.routes.WithTx(tx)
		airportRepo := s.airports.WithTx(tx)

		// assume removed until re-observed
		if err := routeRepo.DeactivateByAirline(ctx, airline); err != nil {
			return fmt.Errorf("deactivating routes: %w", err)
		}

		for _, edge := range edges {
			if err := airportRepo.EnsureByCode(ctx, edge.Origin); err != nil {
				return fmt.Errorf("ensuring airport %s: %w", edge.Origin, err)
			}
			if err := airportRepo.EnsureByCode(ctx, edge.Destination); err != nil {
				return fmt.Errorf("ensuring airport %s: %w", edge.Destination, err)
			}

			from, err := airportRepo.FindByCode(ctx, edge.Origin)
			if err != nil {
				return fmt.Errorf("resolving airport %s: %w", edge.Origin, err)
			}
			if from == nil {
				return fmt.Errorf("resolving airport %s: not found", edge.Origin)
			}
			to, err := airportRepo.FindByCode(ctx, edge.Destination)
			if err != nil {
				return fmt.Errorf("resolving airport %s: %w", edge.Destination, err)
			}
			if to == nil {
				return fmt.Errorf("resolving airport %s: not found", edge.Destination)
			}

			route := &entities.Route{
				AirlineID:     airline,
				FromAirportID: from.ID,
				ToAirportID:   to.ID,
			}
			if err := routeRepo.Upsert(ctx, route); err != nil {
				return fmt.Errorf("upserting route %s-%s: %w", edge.Origin, edge.Destination, err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	srcLog.Infow("synced route graph",
		"airline_id", int(airline),
		"edges", len(edges),
	)
	return len(edges), nil
}
