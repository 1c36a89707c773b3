package repositories

import (
	"context"

	"lccwatch/faregraph/internal/models/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AirportRepository handles airports table operations
type AirportRepository struct {
	db *gorm.DB
}

// NewAirportRepository creates a new airport repository
func NewAirportRepository(db *gorm.DB) *AirportRepository {
	return &AirportRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *AirportRepository) WithTx(tx *gorm.DB) *AirportRepository {
	return &AirportRepository{db: tx}
}

// EnsureByCode inserts the airport if its code is not yet known.
// ON CONFLICT (code) DO NOTHING, so re-observing a code never creates
// a second row.
func (r *AirportRepository) EnsureByCode(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).
		Create(&entities.Airport{Code: code}).Error
}

// FindByCode finds an airport by its 3-letter code
func (r *AirportRepository) FindByCode(ctx context.Context, code string) (*entities.Airport, error) {
	var airport entities.Airport

	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&airport).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &airport, nil
}

// ListOrderedByCode returns every airport sorted by code, the order
// the enrichment passes walk so group keys arrive contiguously.
func (r *AirportRepository) ListOrderedByCode(ctx context.Context) ([]entities.Airport, error) {
	var airports []entities.Airport
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&airports).Error
	return airports, err
}

// SetDisplayInfo updates the airport's display name and country link.
func (r *AirportRepository) SetDisplayInfo(ctx context.Context, code string, name string, countryID uint) error {
	return r.db.WithContext(ctx).
		Model(&entities.Airport{}).
		Where("code = ?", code).
		Updates(map[string]interface{}{
			"name":       name,
			"country_id": countryID,
		}).Error
}

// SetLocalizedName updates only the localized display name.
func (r *AirportRepository) SetLocalizedName(ctx context.Context, code string, name string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Airport{}).
		Where("code = ?", code).
		Update("localized_name", name).Error
}

// Count returns total number of airports
func (r *AirportRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Airport{}).Count(&count).Error
	return count, err
}
