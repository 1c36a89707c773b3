package entities

import (
	"time"

	"lccwatch/faregraph/internal/constants"
)

// Route is a directed edge owned by one airline. Edges are never
// deleted; IsActive reflects the most recent sync outcome for that
// airline only.
type Route struct {
	ID            uint               `gorm:"column:id;primaryKey;autoIncrement"`
	AirlineID     constants.Airline  `gorm:"column:airline_id;not null;uniqueIndex:idx_routes_airline_pair"`
	FromAirportID uint               `gorm:"column:from_airport_id;not null;uniqueIndex:idx_routes_airline_pair"`
	ToAirportID   uint               `gorm:"column:to_airport_id;not null;uniqueIndex:idx_routes_airline_pair"`
	IsActive      bool               `gorm:"column:is_active;not null"`
	CreatedAt     time.Time          `gorm:"column:created_at"`
	UpdatedAt     time.Time          `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (Route) TableName() string {
	return "routes"
}
