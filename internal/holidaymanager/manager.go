package holidaymanager

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/username/holiday-calendar/internal/calendar"
	"github.com/username/holiday-calendar/internal/config"
	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/internal/reconcile"
	"github.com/username/holiday-calendar/internal/source"
	"github.com/username/holiday-calendar/internal/store"
	"github.com/username/holiday-calendar/internal/translate"
	"github.com/username/holiday-calendar/pkg/dateutil"
)

// Manager coordinates the holiday source, the store and the translator
type Manager struct {
	config     *config.Config
	store      store.Store
	source     source.Source
	translator *translate.Translator
	now        func() time.Time
	logger     *zap.Logger
}

// NewManager creates a new holiday manager
func NewManager(
	cfg *config.Config,
	st store.Store,
	src source.Source,
	tr *translate.Translator,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		config:     cfg,
		store:      st,
		source:     src,
		translator: tr,
		now:        time.Now,
		logger:     logger,
	}
}

// Store returns the underlying store
func (m *Manager) Store() store.Store {
	return m.store
}

// Translator returns the translator used on save and by TranslateMissing
func (m *Manager) Translator() *translate.Translator {
	return m.translator
}

// Preview fetches the holidays of a year from the source and classifies
// them against the store. Nothing is persisted.
func (m *Manager) Preview(ctx context.Context, year int) (reconcile.Result, error) {
	if err := validateYear(year); err != nil {
		return reconcile.Result{}, err
	}

	m.logger.Info("Fetching holidays from source",
		zap.Int("year", year),
		zap.String("source", m.source.Name()))

	records, err := m.source.Fetch(ctx, year)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("failed to fetch holidays for %d: %w", year, err)
	}
	if err := source.Check(records, m.config.Source.MinEntries); err != nil {
		return reconcile.Result{}, err
	}

	sorted := make([]holiday.SourceHoliday, len(records))
	copy(sorted, records)
	reconcile.SortByDate(sorted)

	existing, err := m.store.Fetch(ctx, store.Query{Year: year})
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("failed to load existing holidays: %w", err)
	}

	result := reconcile.Reconcile(sorted, existing)
	m.logger.Info("Holidays reconciled",
		zap.Int("year", year),
		zap.Int("total", result.Stats.Total),
		zap.Int("new", result.Stats.New),
		zap.Int("existing", result.Stats.Existing))

	return result, nil
}

// Import fetches a year and saves every new holiday as approved
func (m *Manager) Import(ctx context.Context, year int) (ImportResult, error) {
	preview, err := m.Preview(ctx, year)
	if err != nil {
		return ImportResult{}, err
	}

	saved, err := m.BulkSave(ctx, preview.Holidays, holiday.StatusApproved)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{
		Year:     year,
		Imported: saved.Saved,
		Skipped:  saved.Skipped,
		Errors:   saved.Errors,
	}
	m.logger.Info("Import completed",
		zap.Int("year", year),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", result.Errors))

	return result, nil
}

// List returns the stored holidays matching q ordered by start date
func (m *Manager) List(ctx context.Context, q store.Query) ([]holiday.Holiday, error) {
	if q.Year != 0 {
		if err := validateYear(q.Year); err != nil {
			return nil, err
		}
	}
	for _, s := range q.Statuses {
		if !s.IsValid() {
			return nil, fmt.Errorf("%w: invalid status %q", holiday.ErrValidation, s)
		}
	}

	holidays, err := m.store.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	store.SortByStartDate(holidays)
	return holidays, nil
}

// Overlapping returns the stored holidays with at least one day in year,
// including ranges that started the year before
func (m *Manager) Overlapping(ctx context.Context, year int) ([]holiday.Holiday, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}

	previous, err := m.store.Fetch(ctx, store.Query{Year: year - 1})
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays for %d: %w", year-1, err)
	}
	current, err := m.store.Fetch(ctx, store.Query{Year: year})
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays for %d: %w", year, err)
	}

	from, _ := dateutil.YearBounds(year)
	result := make([]holiday.Holiday, 0, len(current)+1)
	for _, h := range previous {
		if h.EndDate >= from {
			result = append(result, h)
		}
	}
	result = append(result, current...)
	store.SortByStartDate(result)
	return result, nil
}

// Calendar builds the month grid of a year from the stored holidays
func (m *Manager) Calendar(ctx context.Context, year int, lang holiday.Language) (calendar.YearView, error) {
	holidays, err := m.Overlapping(ctx, year)
	if err != nil {
		return calendar.YearView{}, err
	}

	view := calendar.BuildYear(year, holidays, m.now(), lang)
	if len(view.Invalid) > 0 {
		m.logger.Warn("Skipped holidays with invalid dates",
			zap.Int("year", year),
			zap.Int("count", len(view.Invalid)))
	}
	return view, nil
}

func validateYear(year int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: year must be between 1 and 9999, got %d", holiday.ErrValidation, year)
	}
	return nil
}

func validateIDs(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: ids are required", holiday.ErrValidation)
	}
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: id at position %d is empty", holiday.ErrValidation, i)
		}
	}
	return nil
}
