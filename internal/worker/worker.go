package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/perceptua/backend/internal/models"
	"github.com/perceptua/backend/internal/stats"
	"github.com/perceptua/backend/pkg/queue"
)

// StatsProcessor processes stats refresh jobs: recompute a study's aggregate
// report and rewarm the Redis cache so the next stats read is served hot.
type StatsProcessor struct {
	aggregator *stats.Aggregator
	cache      *stats.Cache
	queue      *queue.Queue
	logger     *zap.Logger
}

// NewStatsProcessor creates a stats refresh processor.
func NewStatsProcessor(aggregator *stats.Aggregator, cache *stats.Cache, q *queue.Queue, logger *zap.Logger) *StatsProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsProcessor{aggregator: aggregator, cache: cache, queue: q, logger: logger}
}

// Process executes one stats refresh job.
func (p *StatsProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeStatsRefresh {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.StatsRefreshPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	report, err := p.aggregator.Compute(ctx, payload.StudyID)
	if errors.Is(err, models.ErrStudyNotFound) {
		// Study deleted between enqueue and processing; drop the stale cache entry.
		p.logger.Info("study gone, dropping cached stats", zap.String("study_id", payload.StudyID.String()))
		return p.cache.Invalidate(ctx, payload.StudyID)
	}
	if err != nil {
		return fmt.Errorf("compute stats: %w", err)
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := p.cache.Set(ctx, payload.StudyID, raw); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	p.logger.Info("stats refreshed",
		zap.String("study_id", payload.StudyID.String()),
		zap.Int("total_sessions", report.TotalSessions),
		zap.Int("completed_sessions", report.CompletedSessions),
	)
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *StatsProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("stats worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
