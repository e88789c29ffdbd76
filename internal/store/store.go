package store

import (
	"context"
	"sort"

	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/pkg/dateutil"
)

// Store persists holidays. Backends wrap failures with holiday.ErrPersistence
// and report unknown ids with holiday.ErrNotFound.
type Store interface {
	// Create inserts a holiday and returns it with its assigned id
	Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error)

	// Get returns a holiday by id
	Get(ctx context.Context, id string) (holiday.Holiday, error)

	// Patch sets the non-nil fields of p on the holiday
	Patch(ctx context.Context, id string, p holiday.Patch) error

	// Fetch returns the holidays matching q ordered by start date
	Fetch(ctx context.Context, q Query) ([]holiday.Holiday, error)

	// Exists reports whether a holiday with this start date and name is stored
	Exists(ctx context.Context, startDate, name string) (bool, error)

	// Delete removes a holiday by id
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every holiday and returns how many were removed
	DeleteAll(ctx context.Context) (int, error)

	// Close releases the backend's resources
	Close() error
}

// Query filters a Fetch. Zero values match everything.
type Query struct {
	Year         int              // holidays starting in this year
	Statuses     []holiday.Status // any of these statuses
	Untranslated bool             // only holidays without nameEn
}

// Bounds returns the start date range of the year filter
func (q Query) Bounds() (from, to string, ok bool) {
	if q.Year <= 0 {
		return "", "", false
	}
	from, to = dateutil.YearBounds(q.Year)
	return from, to, true
}

// Matches reports whether h satisfies the query
func (q Query) Matches(h holiday.Holiday) bool {
	if from, to, ok := q.Bounds(); ok {
		if h.StartDate < from || h.StartDate > to {
			return false
		}
	}
	if len(q.Statuses) > 0 {
		found := false
		for _, s := range q.Statuses {
			if h.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.Untranslated && h.NameEn != "" {
		return false
	}
	return true
}

// SortByStartDate orders holidays ascending by start date, then name
func SortByStartDate(hs []holiday.Holiday) {
	sort.SliceStable(hs, func(i, j int) bool {
		if hs[i].StartDate != hs[j].StartDate {
			return hs[i].StartDate < hs[j].StartDate
		}
		return hs[i].Name < hs[j].Name
	})
}
