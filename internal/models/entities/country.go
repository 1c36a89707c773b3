package entities

import "time"

// Country is created lazily when an enriched airport first references
// it. Currency is filled by a separate enrichment pass.
type Country struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string    `gorm:"column:name;type:text;not null;uniqueIndex"`
	LocalizedName string    `gorm:"column:localized_name;type:text"`
	Currency      string    `gorm:"column:currency;type:varchar(3)"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (Country) TableName() string {
	return "countries"
}
