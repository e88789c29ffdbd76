package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/holiday-calendar/internal/config"
	"github.com/username/holiday-calendar/internal/holidaymanager"
)

// Syncer imports holidays and translates the new ones
type Syncer interface {
	Import(ctx context.Context, year int) (holidaymanager.ImportResult, error)
	TranslateMissing(ctx context.Context) (holidaymanager.TranslateResult, error)
}

// ErrSyncRunning is returned when a sync is requested while another one runs
var ErrSyncRunning = errors.New("sync already in progress")

// Daemon runs the holiday sync once a day
type Daemon struct {
	syncer      Syncer
	dailyHour   int // Hour to run daily sync (0-23)
	dailyMinute int // Minute to run daily sync (0-59)
	location    *time.Location
	yearsAhead  int
	translate   bool
	logger      *zap.Logger
	now         func() time.Time
	lastRunDate string     // Track last successful run date to avoid duplicates
	lastRunTime time.Time  // Track last successful run time
	mu          sync.Mutex // Protect against concurrent runs
	syncRunning bool
}

// NewDaemon creates a daemon from the sync configuration
func NewDaemon(syncer Syncer, cfg config.SyncConfig, logger *zap.Logger) *Daemon {
	hour, minute := cfg.GetDailyTime()
	yearsAhead := cfg.YearsAhead
	if yearsAhead < 0 {
		yearsAhead = 0
	}

	return &Daemon{
		syncer:      syncer,
		dailyHour:   hour,
		dailyMinute: minute,
		location:    cfg.GetLocation(),
		yearsAhead:  yearsAhead,
		translate:   cfg.Translate,
		logger:      logger,
		now:         time.Now,
	}
}

// Run blocks until ctx is done, syncing once a day at the scheduled time.
// When the scheduled time already passed today, it syncs right away.
func (d *Daemon) Run(ctx context.Context) {
	d.logger.Info("Daemon scheduled logic started",
		zap.Int("daily_hour", d.dailyHour),
		zap.Int("daily_minute", d.dailyMinute),
		zap.String("timezone", d.location.String()))

	now := d.now().In(d.location)
	scheduledToday := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, d.location)
	if now.After(scheduledToday) {
		d.logger.Info("Scheduled time already passed today, running sync now",
			zap.Time("scheduled_time", scheduledToday),
			zap.Time("current_time", now))
		d.SyncNow(ctx)
	}

	d.logNextRun()

	// Check every minute if it's time to run
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Daemon stopped")
			return

		case tick := <-ticker.C:
			if !d.shouldRunAt(tick) {
				continue
			}
			d.logger.Info("Starting scheduled sync", zap.Time("time", tick))
			d.SyncNow(ctx)
			d.logNextRun()
		}
	}
}

// SyncNow runs a sync immediately and logs the outcome
func (d *Daemon) SyncNow(ctx context.Context) {
	if err := d.runSync(ctx); err != nil {
		d.logger.Error("Sync failed", zap.Error(err))
		return
	}
	d.logger.Info("Sync completed successfully")
}

// LastRun returns the date and time of the last successful sync
func (d *Daemon) LastRun() (string, time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastRunDate, d.lastRunTime
}

func (d *Daemon) logNextRun() {
	nextRun := d.calculateNextRun()
	d.logger.Info("Next sync scheduled",
		zap.Time("next_run", nextRun),
		zap.Duration("wait_duration", nextRun.Sub(d.now())))
}

// calculateNextRun calculates the next scheduled run time
func (d *Daemon) calculateNextRun() time.Time {
	now := d.now().In(d.location)

	today := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, d.location)

	// If target time already passed today, schedule for tomorrow
	if !now.Before(today) {
		return today.AddDate(0, 0, 1)
	}
	return today
}

// shouldRunAt checks if sync should run at the given time
func (d *Daemon) shouldRunAt(t time.Time) bool {
	local := t.In(d.location)
	return local.Hour() == d.dailyHour && local.Minute() == d.dailyMinute
}

// runSync imports the current year and the configured years ahead.
// Protected with a mutex so a manual and a scheduled run never overlap.
func (d *Daemon) runSync(ctx context.Context) error {
	d.mu.Lock()
	if d.syncRunning {
		d.mu.Unlock()
		d.logger.Warn("Sync already running, skipping concurrent execution")
		return ErrSyncRunning
	}

	now := d.now().In(d.location)
	today := now.Format("2006-01-02")
	if d.lastRunDate == today {
		d.mu.Unlock()
		d.logger.Info("Already ran sync today, skipping",
			zap.String("last_run_date", d.lastRunDate),
			zap.Time("last_run_time", d.lastRunTime))
		return nil
	}
	d.syncRunning = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.syncRunning = false
		d.mu.Unlock()
	}()

	var failed []error
	for year := now.Year(); year <= now.Year()+d.yearsAhead; year++ {
		result, err := d.syncer.Import(ctx, year)
		if err != nil {
			d.logger.Error("Import failed", zap.Int("year", year), zap.Error(err))
			failed = append(failed, fmt.Errorf("year %d: %w", year, err))
			continue
		}
		d.logger.Info(result.Message(), zap.Int("year", year))
	}

	if d.translate {
		result, err := d.syncer.TranslateMissing(ctx)
		if err != nil {
			failed = append(failed, fmt.Errorf("translate: %w", err))
		} else {
			d.logger.Info(result.Message(), zap.Int("errors", result.Errors))
		}
	}

	if len(failed) > 0 {
		return errors.Join(failed...)
	}

	d.mu.Lock()
	d.lastRunDate = today
	d.lastRunTime = d.now()
	d.mu.Unlock()
	return nil
}
