package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/helpline-ops/support-desk/internal/observability"
	"github.com/helpline-ops/support-desk/internal/repository"
	"github.com/helpline-ops/support-desk/internal/service"
)

// KPISnapshotJob periodically computes global KPIs and publishes them as gauges.
type KPISnapshotJob struct {
	store   repository.Store
	metrics *observability.Metrics
	logger  *zap.Logger
	cron    *cron.Cron
	timeout time.Duration
}

// NewKPISnapshotJob schedules the job with a standard cron expression or descriptor
// such as "@every 1h".
func NewKPISnapshotJob(schedule string, store repository.Store, metrics *observability.Metrics, logger *zap.Logger) (*KPISnapshotJob, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	job := &KPISnapshotJob{
		store:   store,
		metrics: metrics,
		logger:  logger,
		cron:    cron.New(),
		timeout: 30 * time.Second,
	}
	if _, err := job.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), job.timeout)
		defer cancel()
		if _, err := job.RunOnce(ctx); err != nil {
			job.logger.Warn("kpi snapshot failed", zap.Error(err))
		}
	}); err != nil {
		return nil, err
	}
	return job, nil
}

// Start begins the schedule.
func (j *KPISnapshotJob) Start() {
	j.cron.Start()
}

// Stop halts the schedule and waits for a running snapshot to finish.
func (j *KPISnapshotJob) Stop() {
	<-j.cron.Stop().Done()
}

// RunOnce computes one snapshot.
func (j *KPISnapshotJob) RunOnce(ctx context.Context) (service.KPI, error) {
	tickets, err := j.store.Tickets().List(ctx, repository.TicketFilter{})
	if err != nil {
		return service.KPI{}, err
	}
	unread, err := j.store.AdminNotifications().CountUnread(ctx)
	if err != nil {
		return service.KPI{}, err
	}
	kpi := service.ComputeKPIs(tickets)
	j.metrics.SetGauge("tickets_active", int64(kpi.ActiveCount))
	j.metrics.SetGauge("tickets_closed", int64(kpi.ClosedCount))
	j.metrics.SetGauge("admin_notifications_unread", int64(unread))
	j.logger.Info("kpi snapshot",
		zap.Int("active", kpi.ActiveCount),
		zap.Int("closed", kpi.ClosedCount),
		zap.String("avg_resolution", kpi.AvgResolutionTime),
		zap.Int("admin_unread", unread))
	return kpi, nil
}
