package repositories

import (
	"context"

	"lccwatch/faregraph/internal/constants"

	"github.com/jmoiron/sqlx"
)

// LookupRepository serves the read-only queries the web layer needs.
// It runs raw SQL through sqlx; the graph itself is only mutated by
// the sync job, never here.
type LookupRepository struct {
	db *sqlx.DB
}

// NewLookupRepository creates a new lookup repository
func NewLookupRepository(db *sqlx.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// AirportRow is one row of the airport lookup queries.
type AirportRow struct {
	ID          uint   `db:"id"`
	Code        string `db:"code"`
	Name        string `db:"name"`
	CountryName string `db:"country_name"`
}

// PairCodes resolves the airport codes and origin-country currency for
// a from/to ID pair. Currency is empty when enrichment has not filled
// it yet.
type PairCodes struct {
	FromCode string `db:"from_code"`
	ToCode   string `db:"to_code"`
	Currency string `db:"currency"`
}

// ListAllAirports returns every known airport with its country name.
func (r *LookupRepository) ListAllAirports(ctx context.Context) ([]AirportRow, error) {
	var rows []AirportRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(constants.ListAllAirports))
	return rows, err
}

// ListDestinations returns the airports actively reachable from the
// given origin airport, over any airline.
func (r *LookupRepository) ListDestinations(ctx context.Context, fromID uint) ([]AirportRow, error) {
	var rows []AirportRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(constants.ListDestinationAirports), fromID, true)
	return rows, err
}

// ListAirlinesForPair returns the IDs of airlines with an active edge
// between the two airports.
func (r *LookupRepository) ListAirlinesForPair(ctx context.Context, fromID, toID uint) ([]constants.Airline, error) {
	var ids []constants.Airline
	err := r.db.SelectContext(ctx, &ids, r.db.Rebind(constants.ListAirlinesForPair), fromID, toID, true)
	return ids, err
}

// GetPairCodes resolves codes and currency for a fare query.
func (r *LookupRepository) GetPairCodes(ctx context.Context, fromID, toID uint) (*PairCodes, error) {
	var pair PairCodes
	err := r.db.GetContext(ctx, &pair, r.db.Rebind(constants.GetPairCodes), toID, fromID)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}
