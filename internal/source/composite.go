package source

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/username/holiday-calendar/internal/holiday"
)

// CompositeSource implements Source with fallback strategy
// Primary: APISource
// Fallback: FileSource or ComputedSource
type CompositeSource struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(primary, fallback Source, logger *zap.Logger) *CompositeSource {
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Name identifies the source in logs
func (cs *CompositeSource) Name() string {
	return fmt.Sprintf("%s+%s", cs.primary.Name(), cs.fallback.Name())
}

// Fetch tries the primary source first and falls back on any error
func (cs *CompositeSource) Fetch(ctx context.Context, year int) ([]holiday.SourceHoliday, error) {
	records, err := cs.primary.Fetch(ctx, year)
	if err == nil {
		return records, nil
	}

	cs.logger.Warn("Primary holiday source failed, falling back",
		zap.String("primary", cs.primary.Name()),
		zap.String("fallback", cs.fallback.Name()),
		zap.Int("year", year),
		zap.Error(err))

	records, fallbackErr := cs.fallback.Fetch(ctx, year)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}
	return records, nil
}

func sortRecords(records []holiday.SourceHoliday) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
}
