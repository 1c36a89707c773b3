package repositories

import (
	"context"

	"lccwatch/faregraph/internal/constants"
	"lccwatch/faregraph/internal/models/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RouteRepository handles routes table operations
type RouteRepository struct {
	db *gorm.DB
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *RouteRepository) WithTx(tx *gorm.DB) *RouteRepository {
	return &RouteRepository{db: tx}
}

// DeactivateByAirline marks every route owned by the airline inactive,
// the pessimistic first step of a sync run.
func (r *RouteRepository) DeactivateByAirline(ctx context.Context, airline constants.Airline) error {
	return r.db.WithContext(ctx).
		Model(&entities.Route{}).
		Where("airline_id = ?", airline).
		Update("is_active", false).Error
}

// Upsert reactivates the edge if the (airline, from, to) row already
// exists, otherwise inserts it active. The row ID is stable across
// deactivate/reactivate cycles.
// ON CONFLICT (airline_id, from_airport_id, to_airport_id) DO UPDATE
func (r *RouteRepository) Upsert(ctx context.Context, route *entities.Route) error {
	route.IsActive = true
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "airline_id"},
				{Name: "from_airport_id"},
				{Name: "to_airport_id"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{"is_active": true}),
		}).
		Create(route).Error
}

// ActiveByAirline returns the airline's currently active edges.
func (r *RouteRepository) ActiveByAirline(ctx context.Context, airline constants.Airline) ([]entities.Route, error) {
	var routes []entities.Route

	err := r.db.WithContext(ctx).
		Where("airline_id = ? AND is_active = ?", airline, true).
		Order("from_airport_id ASC, to_airport_id ASC").
		Find(&routes).Error

	if err != nil {
		return nil, err
	}

	return routes, nil
}

// CountByAirline returns the total number of edges (active or not)
// owned by the airline.
func (r *RouteRepository) CountByAirline(ctx context.Context, airline constants.Airline) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&entities.Route{}).
		Where("airline_id = ?", airline).
		Count(&count).Error

	return count, err
}
