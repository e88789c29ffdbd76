package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/pkg/dateutil"
)

const (
	// DefaultAPIURL is the ArgentinaDatos holidays endpoint
	DefaultAPIURL      = "https://api.argentinadatos.com/v1/feriados/{year}"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
)

// APISource implements Source using the ArgentinaDatos API
type APISource struct {
	urlTemplate string
	minEntries  int
	httpClient  *http.Client
	logger      *zap.Logger
	cache       map[int]*cachedYear
	cacheMu     sync.RWMutex
	cacheTTL    time.Duration
}

type cachedYear struct {
	data      []holiday.SourceHoliday
	fetchedAt time.Time
}

// NewAPISource creates a new APISource. urlTemplate must contain {year}.
func NewAPISource(urlTemplate string, timeout, cacheTTL time.Duration, minEntries int, logger *zap.Logger) *APISource {
	if urlTemplate == "" {
		urlTemplate = DefaultAPIURL
	}
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}
	if minEntries <= 0 {
		minEntries = DefaultMinEntries
	}

	return &APISource{
		urlTemplate: urlTemplate,
		minEntries:  minEntries,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:   logger,
		cache:    make(map[int]*cachedYear),
		cacheTTL: cacheTTL,
	}
}

// Name identifies the source in logs
func (s *APISource) Name() string {
	return "argentinadatos"
}

// Fetch returns the holidays of a year, served from cache while fresh
func (s *APISource) Fetch(ctx context.Context, year int) ([]holiday.SourceHoliday, error) {
	s.cacheMu.RLock()
	if cached, ok := s.cache[year]; ok {
		if time.Since(cached.fetchedAt) < s.cacheTTL {
			s.cacheMu.RUnlock()
			s.logger.Debug("Using cached holidays", zap.Int("year", year))
			return copyRecords(cached.data), nil
		}
	}
	s.cacheMu.RUnlock()

	records, err := s.fetchYear(ctx, year)
	if err != nil {
		return nil, err
	}

	s.cacheMu.Lock()
	s.cache[year] = &cachedYear{
		data:      records,
		fetchedAt: time.Now(),
	}
	s.cacheMu.Unlock()

	return copyRecords(records), nil
}

func (s *APISource) fetchYear(ctx context.Context, year int) ([]holiday.SourceHoliday, error) {
	url := strings.ReplaceAll(s.urlTemplate, "{year}", strconv.Itoa(year))

	s.logger.Debug("Fetching holidays from API",
		zap.String("url", url),
		zap.Int("year", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch holidays: %v", holiday.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API request failed with status %d", holiday.ErrSourceUnavailable, resp.StatusCode)
	}

	var data []apiHoliday
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: API response is not a holiday array: %v", holiday.ErrSourceUnavailable, err)
	}

	records := make([]holiday.SourceHoliday, 0, len(data))
	for _, item := range data {
		if _, err := dateutil.ParseDateString(item.Fecha); err != nil {
			s.logger.Warn("Skipping holiday with invalid date",
				zap.String("name", item.Nombre),
				zap.String("date", item.Fecha),
				zap.Error(err))
			continue
		}
		records = append(records, item.toRecord())
	}

	if err := Check(records, s.minEntries); err != nil {
		return nil, err
	}

	s.logger.Info("Holidays fetched from API",
		zap.Int("year", year),
		zap.Int("count", len(records)))

	return records, nil
}

// ClearCache clears the cache
func (s *APISource) ClearCache() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cache = make(map[int]*cachedYear)
	s.logger.Info("Holiday source cache cleared")
}

func copyRecords(in []holiday.SourceHoliday) []holiday.SourceHoliday {
	out := make([]holiday.SourceHoliday, len(in))
	copy(out, in)
	return out
}
