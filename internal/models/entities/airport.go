package entities

import "time"

// Airport is created lazily the first time a source reports its code.
// Name, LocalizedName and CountryID stay empty until the enrichment
// passes fill them in. Rows are never deleted.
type Airport struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Code          string    `gorm:"column:code;type:varchar(3);not null;uniqueIndex"`
	Name          string    `gorm:"column:name;type:text"`
	LocalizedName string    `gorm:"column:localized_name;type:text"`
	CountryID     *uint     `gorm:"column:country_id"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (Airport) TableName() string {
	return "airports"
}
