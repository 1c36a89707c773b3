package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lccwatch/faregraph/internal/adapters"
	"lccwatch/faregraph/internal/config"
	"lccwatch/faregraph/internal/db"
	"lccwatch/faregraph/internal/logging"
	"lccwatch/faregraph/internal/metrics"
	"lccwatch/faregraph/internal/routes"
	"lccwatch/faregraph/internal/services"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("faregraph server starting up",
		"environment", cfg.AppEnv,
		"db_driver", cfg.DBDriver,
	)

	if _, err := db.InitORM(cfg); err != nil {
		logging.Error("Failed to connect to database (GORM)", "error", err.Error())
		log.Fatalf("Failed to connect to database (GORM): %v", err)
	}

	sqlxDB, err := db.InitSQLX(cfg)
	if err != nil {
		logging.Error("Failed to connect to database (sqlx)", "error", err.Error())
		log.Fatalf("Failed to connect to database (sqlx): %v", err)
	}

	metricsReg := metrics.NewMetricsRegistry()
	registry := adapters.NewDefaultRegistry()
	fareService := services.NewFareService(registry, metricsReg)

	upSince := time.Now()
	router := routes.RegisterRoutes(sqlxDB, fareService, metricsReg, upSince)

	// metrics endpoint lives outside the chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)

	logging.Info("Server starting", "port", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, mux))
}
