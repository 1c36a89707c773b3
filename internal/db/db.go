package db

import (
	"fmt"
	"time"

	"lccwatch/faregraph/internal/config"
	"lccwatch/faregraph/internal/models/entities"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitORM opens the GORM handle on the configured driver and migrates
// the schema. All graph mutations go through this handle.
func InitORM(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	default:
		dialector = sqlite.Open(cfg.DBPath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.DBDriver, err)
	}

	if err := db.AutoMigrate(
		&entities.Airport{},
		&entities.Country{},
		&entities.Route{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// InitSQLX opens the sqlx handle used by the read-only lookup queries.
func InitSQLX(cfg *config.Config) (*sqlx.DB, error) {
	var driver, dsn string
	switch cfg.DBDriver {
	case "postgres":
		driver, dsn = "postgres", cfg.PostgresDSN()
	default:
		driver, dsn = "sqlite3", cfg.DBPath
	}

	var db *sqlx.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect(driver, dsn)
		if err == nil {
			return db, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, err
}
