// File: internal/jobs/gig_index_sync.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"gigmarket_backend/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// IndexSyncer is satisfied by gig.Service.
type IndexSyncer interface {
	SyncIndex(ctx context.Context) (int, error)
}

// GigIndexSyncJob periodically rebuilds the gig search index from the document store.
type GigIndexSyncJob struct {
	gigs          IndexSyncer
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

func NewGigIndexSyncJob(gigs IndexSyncer, logger *zap.Logger, cfg *config.Config) *GigIndexSyncJob {
	cronLog := NewCronLogger(logger.Named("cron"))
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.SkipIfStillRunning(cronLog), cron.Recover(cronLog)),
	)
	return &GigIndexSyncJob{
		gigs:          gigs,
		logger:        logger.Named("GigIndexSyncJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the job. No schedule or no search index means it never runs.
func (j *GigIndexSyncJob) SetupAndStart() error {
	jobSpec := j.cfg.GigIndexSyncSchedule
	if jobSpec == "" {
		j.logger.Warn("Gig index sync schedule not defined (GIG_INDEX_SYNC_SCHEDULE). Job will not run.")
		return nil
	}
	if j.cfg.ElasticsearchURL == "" {
		j.logger.Info("Elasticsearch not configured; gig index sync disabled.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule gig index sync", zap.String("schedule", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Gig index sync scheduled", zap.String("schedule", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// RunOnce performs a single sync. The sync-gigs command calls it directly.
func (j *GigIndexSyncJob) RunOnce(ctx context.Context) (int, error) {
	return j.gigs.SyncIndex(ctx)
}

func (j *GigIndexSyncJob) runJob() {
	j.logger.Info("Starting gig index sync run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	synced, err := j.RunOnce(ctx)
	if err != nil {
		j.logger.Error("Gig index sync run failed", zap.Error(err))
		return
	}
	j.logger.Info("Gig index sync run completed", zap.Int("gigs_indexed", synced))
}

// Stop waits up to ten seconds for a running sync to finish.
func (j *GigIndexSyncJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping gig index sync scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Gig index sync scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Gig index sync scheduler stop timed out.")
	}
}

// --- Cron Logger Adapter ---

type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger adapts zap to cron.Logger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Debug(msg, toFields(keysAndValues)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	cl.zl.Error(msg, append(toFields(keysAndValues), zap.Error(err))...)
}

func toFields(keysAndValues []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(key, keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(key, "MISSING_VALUE"))
		}
	}
	return fields
}
