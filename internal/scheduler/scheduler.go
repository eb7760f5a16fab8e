// Package scheduler runs the periodic refresh job on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/bet-signals/internal/models"
	"github.com/yourusername/bet-signals/internal/service"
)

// Scheduler manages the recurring refresh job.
type Scheduler struct {
	cron            *cron.Cron
	refresher       *service.Refresher
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a scheduler in UTC.
func NewScheduler(refresher *service.Refresher, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		refresher:       refresher,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleRefresh schedules the full refresh cycle at the given interval.
// A cycle that is still running when the next tick fires is skipped by the
// refresher itself, so overlapping ticks are harmless.
func (s *Scheduler) ScheduleRefresh(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if interval < 5*time.Second {
		interval = 5 * time.Second
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()

		if err := s.refresher.Refresh(ctx); err != nil {
			if errors.Is(err, models.ErrRefreshActive) {
				s.logger.Debug("Scheduled refresh skipped, previous cycle still running")
				return
			}
			s.logger.WithError(err).Error("Scheduled refresh failed")
		}
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", int(interval.Seconds())), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("interval", interval.String()).Info("Scheduled refresh job")

	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out, abandoning running jobs")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run.
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
