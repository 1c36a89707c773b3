package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lccwatch/faregraph/internal/adapters"
	"lccwatch/faregraph/internal/common"
	"lccwatch/faregraph/internal/config"
	"lccwatch/faregraph/internal/db"
	"lccwatch/faregraph/internal/jobs"
	"lccwatch/faregraph/internal/logging"
	"lccwatch/faregraph/internal/reference"
	"lccwatch/faregraph/internal/services"
)

func main() {
	scheduled := flag.Bool("scheduled", false, "keep running on SYNC_INTERVAL instead of a single pass")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	gormDB, err := db.InitORM(cfg)
	if err != nil {
		logging.Error("Failed to connect to database", "error", err.Error())
		log.Fatalf("Failed to connect to database: %v", err)
	}

	cache := common.NewCacheService(900, 300)
	registry := adapters.NewDefaultRegistry()
	syncService := services.NewSyncService(gormDB, registry)
	enrichment := services.NewEnrichmentService(gormDB, reference.NewClient(cache))

	job := jobs.NewGraphSyncJob(syncService, enrichment, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *scheduled {
		logging.Info("Running scheduled graph sync", "interval", cfg.SyncInterval.String())
		job.RunScheduled(ctx, cfg.SyncInterval)
		return
	}

	if err := job.Run(ctx); err != nil {
		logging.Error("Graph sync run failed", "error", err.Error())
		os.Exit(1)
	}
}
