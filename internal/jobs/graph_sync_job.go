package jobs

import (
	"context"
	"strconv"
	"time"

	"lccwatch/faregraph/internal/logging"
	"lccwatch/faregraph/internal/metrics"
	"lccwatch/faregraph/internal/services"
)

// GraphSyncJob keeps the persisted route graph current: one run
// synchronizes every airline's edge snapshot and then enriches
// airport/country metadata from the reference sources. Designed to be
// re-run on a schedule; each run is idempotent.
type GraphSyncJob struct {
	sync       *services.SyncService
	enrichment *services.EnrichmentService
	metrics    *metrics.MetricsRegistry
}

// NewGraphSyncJob creates a new graph sync job instance. The metrics
// registry may be nil.
func NewGraphSyncJob(
	sync *services.SyncService,
	enrichment *services.EnrichmentService,
	metricsReg *metrics.MetricsRegistry,
) *GraphSyncJob {
	return &GraphSyncJob{
		sync:       sync,
		enrichment: enrichment,
		metrics:    metricsReg,
	}
}

// Run executes one full pass. Failures inside a pass are contained
// per airline or per row; Run itself only errors when enrichment
// cannot even list its inputs.
func (j *GraphSyncJob) Run(ctx context.Context) error {
	start := time.Now()
	logging.Info("Starting graph sync run", "timestamp", start.Format(time.RFC3339))

	synced := j.sync.SyncAll(ctx)
	j.observe("sync", time.Since(start))
	if j.metrics != nil {
		j.metrics.RouteEdgesSynced.WithLabelValues("applied").Add(float64(synced))
	}

	enrichStart := time.Now()
	err := j.enrichment.Run(ctx)
	j.observe("enrichment", time.Since(enrichStart))
	if err != nil {
		logging.Error("Enrichment pass failed", "error", err.Error())
		return err
	}

	logging.Info("Completed graph sync run",
		"duration", time.Since(start).Truncate(time.Millisecond).String(),
		"edges", strconv.Itoa(synced),
	)
	return nil
}

// RunScheduled runs the job immediately and then on every interval
// tick until the context is cancelled.
func (j *GraphSyncJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := j.Run(ctx); err != nil {
		logging.Error("Error in initial sync run", "error", err.Error())
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				logging.Error("Error in scheduled sync run", "error", err.Error())
			}
		case <-ctx.Done():
			logging.Info("Shutting down scheduled sync")
			return
		}
	}
}

func (j *GraphSyncJob) observe(stage string, d time.Duration) {
	if j.metrics == nil {
		return
	}
	j.metrics.RouteSyncDuration.WithLabelValues(stage).Observe(d.Seconds())
}
