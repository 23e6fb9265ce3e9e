package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"library-service/internal/usecase"
	"library-service/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OverdueScheduler runs the overdue sweep on a cron schedule so borrowings
// past their due date get flagged and fined without an operator triggering
// the sweep by hand.
type OverdueScheduler struct {
	service usecase.BorrowingService
	config  utils.SchedulerConfig
	log     *zap.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSweeping bool
	cancelFunc context.CancelFunc
}

func NewOverdueScheduler(service usecase.BorrowingService, config utils.SchedulerConfig, log *zap.Logger) *OverdueScheduler {
	return &OverdueScheduler{
		service: service,
		config:  config,
		log:     log.With(zap.String("scheduler", "overdue")),
		cron:    cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start schedules the sweep if the scheduler is enabled.
func (s *OverdueScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		s.log.Info("Overdue scheduler disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.OverdueSpec, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule overdue sweep '%s': %w", s.config.OverdueSpec, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.log.Info("Overdue scheduler started", zap.String("spec", s.config.OverdueSpec))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *OverdueScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	s.log.Info("Overdue scheduler stopped")
}

// RunNow triggers an immediate sweep outside the schedule.
func (s *OverdueScheduler) RunNow() {
	go s.runSweep()
}

// IsRunning reports whether the scheduler is active.
func (s *OverdueScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next sweep will fire, or nil when stopped.
func (s *OverdueScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *OverdueScheduler) runSweep() {
	s.mu.Lock()
	if s.isSweeping {
		s.mu.Unlock()
		s.log.Warn("Overdue sweep skipped, previous run still in progress")
		return
	}
	s.isSweeping = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSweeping = false
		s.mu.Unlock()
	}()

	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.service.UpdateOverdueStatus(ctx)
	if err != nil {
		s.log.Error("Overdue sweep failed", zap.Error(err))
		return
	}

	s.log.Info("Overdue sweep finished",
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
	)
}
