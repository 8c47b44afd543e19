package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
	"github.com/robfig/cron/v3"
)

const DefaultRefreshTimeout = 30 * time.Second

// Refresher is implemented by dapp.App.
type Refresher interface {
	Connected() bool
	RefreshWalletBalance(ctx context.Context) error
	RefreshContractBalances(ctx context.Context) error
}

// RefreshScheduler re-reads the displayed balances on a cron schedule.
type RefreshScheduler struct {
	schedule  string
	refresher Refresher
	timeout   time.Duration
	cron      *cron.Cron

	running bool
	mutex   sync.RWMutex
}

// NewRefreshScheduler validates schedule, a six field cron expression with seconds.
func NewRefreshScheduler(schedule string, refresher Refresher) (*RefreshScheduler, error) {
	if schedule == "" {
		return nil, fmt.Errorf("refresh schedule cannot be empty")
	}
	if refresher == nil {
		return nil, fmt.Errorf("refresher cannot be nil")
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor).Parse(schedule); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	return &RefreshScheduler{
		schedule:  schedule,
		refresher: refresher,
		timeout:   DefaultRefreshTimeout,
		cron:      cron.New(cron.WithSeconds()),
	}, nil
}

// Start starts the refresh scheduler
func (rs *RefreshScheduler) Start() error {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	if rs.running {
		return fmt.Errorf("scheduler is already running")
	}

	logger.Infof("Starting balance refresh scheduler with schedule: %s", rs.schedule)

	_, err := rs.cron.AddFunc(rs.schedule, rs.executeRefresh)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	rs.cron.Start()
	rs.running = true
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (rs *RefreshScheduler) Stop() error {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	if !rs.running {
		return nil
	}

	logger.Infof("Stopping balance refresh scheduler...")
	ctx := rs.cron.Stop()
	<-ctx.Done()

	for _, entry := range rs.cron.Entries() {
		rs.cron.Remove(entry.ID)
	}
	rs.running = false
	return nil
}

// executeRefresh runs one refresh cycle. Nothing is read while no wallet is
// connected, so the connect banner stays in place.
func (rs *RefreshScheduler) executeRefresh() {
	if !rs.refresher.Connected() {
		logger.Debugf("skipping balance refresh: wallet not connected")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), rs.timeout)
	defer cancel()

	startTime := time.Now()
	err := errors.Join(
		rs.refresher.RefreshWalletBalance(ctx),
		rs.refresher.RefreshContractBalances(ctx),
	)
	if err != nil {
		logger.Warnf("Balance refresh failed after %v: %v", time.Since(startTime), err)
		return
	}
	logger.Debugf("Balance refresh completed in %v", time.Since(startTime))
}

// IsRunning returns whether the scheduler is currently running
func (rs *RefreshScheduler) IsRunning() bool {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()
	return rs.running
}

// GetNextRun returns the next scheduled run time
func (rs *RefreshScheduler) GetNextRun() time.Time {
	if !rs.IsRunning() {
		return time.Time{}
	}
	entries := rs.cron.Entries()
	if len(entries) > 0 {
		return entries[0].Next
	}
	return time.Time{}
}
