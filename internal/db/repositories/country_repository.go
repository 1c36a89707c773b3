package repositories

import (
	"context"

	"lccwatch/faregraph/internal/models/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CountryRepository handles countries table operations
type CountryRepository struct {
	db *gorm.DB
}

// NewCountryRepository creates a new country repository
func NewCountryRepository(db *gorm.DB) *CountryRepository {
	return &CountryRepository{db: db}
}

// EnsureByName inserts the country if unknown and returns the row
// either way. Name is the unique key.
func (r *CountryRepository) EnsureByName(ctx context.Context, name string) (*entities.Country, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&entities.Country{Name: name}).Error
	if err != nil {
		return nil, err
	}

	var country entities.Country
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&country).Error; err != nil {
		return nil, err
	}
	return &country, nil
}

// FindByName finds a country by its English name
func (r *CountryRepository) FindByName(ctx context.Context, name string) (*entities.Country, error) {
	var country entities.Country

	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&country).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &country, nil
}

// List returns all known countries.
func (r *CountryRepository) List(ctx context.Context) ([]entities.Country, error) {
	var countries []entities.Country
	err := r.db.WithContext(ctx).Find(&countries).Error
	return countries, err
}

// SetLocalizedName updates the localized display name by ID.
func (r *CountryRepository) SetLocalizedName(ctx context.Context, id uint, name string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Country{}).
		Where("id = ?", id).
		Update("localized_name", name).Error
}

// SetCurrency updates the ISO currency code by English name.
func (r *CountryRepository) SetCurrency(ctx context.Context, name string, currency string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Country{}).
		Where("name = ?", name).
		Update("currency", currency).Error
}
