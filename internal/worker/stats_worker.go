package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Osuolale-Olalekan/CBT-app/internal/config"
	"github.com/Osuolale-Olalekan/CBT-app/internal/service"
)

// StatsWorker consumes exam IDs from the refresh queue and recomputes their
// cached aggregates. Submissions enqueue; the worker keeps stats reads cheap.
type StatsWorker struct {
	rdb     *redis.Client
	reports *service.ReportService
	logger  zerolog.Logger

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewStatsWorker creates a new StatsWorker.
func NewStatsWorker(rdb *redis.Client, reports *service.ReportService, logger zerolog.Logger) *StatsWorker {
	return &StatsWorker{
		rdb:     rdb,
		reports: reports,
		logger:  logger.With().Str("component", "stats_worker").Logger(),
		stop:    make(chan struct{}),
	}
}

// Start launches the consume loop.
func (w *StatsWorker) Start() {
	w.wg.Add(1)
	go w.run()
	w.logger.Info().Msg("stats worker started")
}

// Shutdown stops the loop and drains whatever is left in the queue so no
// enqueued refresh is lost across a restart.
func (w *StatsWorker) Shutdown(ctx context.Context) {
	close(w.stop)
	w.wg.Wait()
	w.drain(ctx)
	w.logger.Info().Msg("stats worker stopped")
}

func (w *StatsWorker) run() {
	defer w.wg.Done()
	ctx := context.Background()

	for {
		select {
		case <-w.stop:
			return
		default:
		}

		values, err := w.rdb.BLPop(ctx, 2*time.Second, config.WorkerKey.RefreshStatsQueue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				w.logger.Warn().Err(err).Msg("queue pop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		// BLPop returns [key, value].
		if len(values) == 2 {
			w.process(ctx, values[1])
		}
	}
}

func (w *StatsWorker) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		value, err := w.rdb.LPop(ctx, config.WorkerKey.RefreshStatsQueue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				w.logger.Warn().Err(err).Msg("queue drain failed")
			}
			return
		}
		w.process(ctx, value)
	}
}

func (w *StatsWorker) process(ctx context.Context, raw string) {
	examID, err := uuid.Parse(raw)
	if err != nil {
		w.logger.Warn().Str("value", raw).Msg("discarding malformed queue entry")
		return
	}

	if _, err := w.reports.RefreshExamStats(ctx, examID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			w.logger.Warn().Str("exam_id", raw).Msg("stats refresh for missing exam skipped")
			return
		}
		w.logger.Error().Err(err).Str("exam_id", raw).Msg("stats refresh failed")
		return
	}
	w.logger.Debug().Str("exam_id", raw).Msg("exam stats refreshed")
}
