package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StatsRefresher periodically recomputes club statistic aggregates from the
// recorded carry windows, so tables stay consistent even when a write-path
// recompute was missed.
type StatsRefresher struct {
	stats     *PlayerStatsService
	logger    *logrus.Logger
	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
	interval  time.Duration
	batchSize int
}

func NewStatsRefresher(stats *PlayerStatsService, logger *logrus.Logger, interval time.Duration, batchSize int) *StatsRefresher {
	return &StatsRefresher{
		stats:     stats,
		logger:    logger,
		cron:      cron.New(),
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start schedules the refresh job and runs one pass immediately.
func (s *StatsRefresher) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("stats refresher is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.interval.String())
	if _, err := s.cron.AddFunc(schedule, s.refreshOnce); err != nil {
		return fmt.Errorf("failed to schedule stats refresher: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	go s.refreshOnce()

	s.logger.WithField("interval", s.interval.String()).Info("Stats refresher started")
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (s *StatsRefresher) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Stats refresher stopped")
}

func (s *StatsRefresher) refreshOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	updated, err := s.stats.RefreshAggregates(ctx, s.batchSize)
	if err != nil {
		s.logger.WithError(err).Error("Stats refresh pass failed")
		return
	}

	s.logger.WithField("updated", updated).Debug("Stats refresh pass completed")
}
