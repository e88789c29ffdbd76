package daemon

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/username/holiday-calendar/internal/config"
	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/internal/holidaymanager"
)

type fakeSyncer struct {
	years      []int
	translated int
	failYear   int
}

func (f *fakeSyncer) Import(_ context.Context, year int) (holidaymanager.ImportResult, error) {
	f.years = append(f.years, year)
	if year == f.failYear {
		return holidaymanager.ImportResult{}, holiday.ErrSourceUnavailable
	}
	return holidaymanager.ImportResult{Year: year, Imported: 3}, nil
}

func (f *fakeSyncer) TranslateMissing(_ context.Context) (holidaymanager.TranslateResult, error) {
	f.translated++
	return holidaymanager.TranslateResult{Translated: 3}, nil
}

func newTestDaemon(t *testing.T, syncer Syncer, cfg config.SyncConfig, now time.Time) *Daemon {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	d := NewDaemon(syncer, cfg, logger)
	d.now = func() time.Time { return now }
	return d
}

func TestDaemon_CalculateNextRun(t *testing.T) {
	cfg := config.SyncConfig{DailyTime: "06:30", Timezone: "UTC"}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before today's run", time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 6, 30, 0, 0, time.UTC)},
		{"exactly at run", time.Date(2025, 3, 10, 6, 30, 0, 0, time.UTC), time.Date(2025, 3, 11, 6, 30, 0, 0, time.UTC)},
		{"after today's run", time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC), time.Date(2026, 1, 1, 6, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDaemon(t, &fakeSyncer{}, cfg, tt.now)
			if got := d.calculateNextRun(); !got.Equal(tt.want) {
				t.Errorf("calculateNextRun() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaemon_ShouldRunAt(t *testing.T) {
	cfg := config.SyncConfig{DailyTime: "06:00", Timezone: "America/Argentina/Buenos_Aires"}
	d := newTestDaemon(t, &fakeSyncer{}, cfg, time.Now())

	// Buenos Aires is UTC-3 all year
	if !d.shouldRunAt(time.Date(2025, 6, 1, 9, 0, 30, 0, time.UTC)) {
		t.Error("shouldRunAt(09:00 UTC) = false, want true")
	}
	if d.shouldRunAt(time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)) {
		t.Error("shouldRunAt(06:00 UTC) = true, want false")
	}
}

func TestDaemon_RunSync(t *testing.T) {
	syncer := &fakeSyncer{}
	cfg := config.SyncConfig{Timezone: "UTC", YearsAhead: 1, Translate: true}
	d := newTestDaemon(t, syncer, cfg, time.Date(2025, 11, 2, 7, 0, 0, 0, time.UTC))

	if err := d.runSync(context.Background()); err != nil {
		t.Fatalf("runSync() error = %v", err)
	}
	if want := []int{2025, 2026}; !reflect.DeepEqual(syncer.years, want) {
		t.Errorf("imported years = %v, want %v", syncer.years, want)
	}
	if syncer.translated != 1 {
		t.Errorf("translated = %d, want 1", syncer.translated)
	}

	// Second run on the same day is a no-op
	if err := d.runSync(context.Background()); err != nil {
		t.Fatalf("second runSync() error = %v", err)
	}
	if len(syncer.years) != 2 {
		t.Errorf("imports after second run = %d, want 2", len(syncer.years))
	}
	if date, _ := d.LastRun(); date != "2025-11-02" {
		t.Errorf("LastRun() = %q", date)
	}
}

func TestDaemon_RunSync_FailureIsRetried(t *testing.T) {
	syncer := &fakeSyncer{failYear: 2026}
	cfg := config.SyncConfig{Timezone: "UTC", YearsAhead: 1}
	d := newTestDaemon(t, syncer, cfg, time.Date(2025, 11, 2, 7, 0, 0, 0, time.UTC))

	err := d.runSync(context.Background())
	if !errors.Is(err, holiday.ErrSourceUnavailable) {
		t.Fatalf("runSync() error = %v, want ErrSourceUnavailable", err)
	}
	if syncer.translated != 0 {
		t.Errorf("translated = %d, want 0 when disabled", syncer.translated)
	}
	if date, _ := d.LastRun(); date != "" {
		t.Errorf("LastRun() = %q, want empty after failure", date)
	}

	syncer.failYear = 0
	if err := d.runSync(context.Background()); err != nil {
		t.Fatalf("retry runSync() error = %v", err)
	}
	if len(syncer.years) != 4 {
		t.Errorf("imports = %d, want 4", len(syncer.years))
	}
}

func TestDaemon_RunStopsOnCancel(t *testing.T) {
	syncer := &fakeSyncer{}
	cfg := config.SyncConfig{DailyTime: "06:00", Timezone: "UTC"}
	d := newTestDaemon(t, syncer, cfg, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}

	if len(syncer.years) != 1 || syncer.years[0] != 2025 {
		t.Errorf("imported years = %v, want catch-up run for 2025", syncer.years)
	}
}
