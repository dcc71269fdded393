package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"

	"rewardpool/internal/model"
	"rewardpool/internal/pool"
	"rewardpool/internal/recorder"
)

// Scheduler manages the periodic snapshot and report tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Pool     *pool.Manager
	Recorder recorder.Recorder
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, pm *pool.Manager, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pool:     pm,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// RegisterAll registers the snapshot and report tasks.
func (s *Scheduler) RegisterAll(snapshotCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(snapshotCron, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) snapshotTask() {
	stat := s.Pool.Stat()

	apr, err := s.Pool.APR()
	if err != nil && !errors.Is(err, pool.ErrNoLiquidity) {
		log.Printf("[ERROR] snapshot apr: %v", err)
		return
	}

	snap := &model.PoolSnapshot{
		Reserve:        stat.Reserve,
		TotalPrincipal: stat.TotalPrincipal,
		APR:            apr,
	}
	if err := s.Recorder.RecordSnapshot(snap); err != nil {
		log.Printf("[ERROR] record snapshot: %v", err)
	}
}

func (s *Scheduler) reportTask() {
	stat := s.Pool.Stat()

	aprText := "n/a"
	if apr, err := s.Pool.APR(); err == nil {
		aprText = fmt.Sprintf("%d%%", apr)
	}

	log.Printf("[INFO] pool report: reserve=%s principal=%s users=%d apr=%s",
		humanize.Comma(int64(stat.Reserve)),
		humanize.Comma(int64(stat.TotalPrincipal)),
		stat.Users, aprText)
}
