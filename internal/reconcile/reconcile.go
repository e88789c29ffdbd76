package reconcile

import (
	"fmt"
	"sort"

	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/pkg/dateutil"
)

// Stats summarizes a reconciliation
type Stats struct {
	Total    int `json:"total"`
	New      int `json:"new"`
	Existing int `json:"existing"`
}

// Result is the outcome of a reconciliation. Holidays keep the input order.
type Result struct {
	Holidays []holiday.Candidate `json:"holidays"`
	Stats    Stats               `json:"stats"`
}

// Reconcile classifies source records as new or already persisted.
// Records must already be sorted by date. It never touches a store.
func Reconcile(records []holiday.SourceHoliday, existing []holiday.Holiday) Result {
	keys := make(map[string]struct{}, len(existing))
	for _, h := range existing {
		keys[h.Key()] = struct{}{}
	}

	result := Result{Holidays: make([]holiday.Candidate, 0, len(records))}
	for i, rec := range records {
		_, exists := keys[holiday.Key(rec.Date, rec.Name)]

		status := holiday.StatusApproved
		if exists {
			status = holiday.StatusExisting
			result.Stats.Existing++
		} else {
			result.Stats.New++
		}

		result.Holidays = append(result.Holidays, holiday.Candidate{
			Holiday: holiday.Holiday{
				ID:          TempID(rec.Date, i),
				Name:        rec.Name,
				StartDate:   rec.Date,
				EndDate:     rec.Date,
				Description: Description(rec.Type),
				Status:      status,
			},
			ExistsInDB: exists,
		})
	}
	result.Stats.Total = len(result.Holidays)

	return result
}

// New returns the candidates that are not persisted yet
func (r Result) New() []holiday.Candidate {
	out := make([]holiday.Candidate, 0, r.Stats.New)
	for _, c := range r.Holidays {
		if !c.ExistsInDB {
			out = append(out, c)
		}
	}
	return out
}

// Message renders the summary shown to the operator
func (r Result) Message() string {
	return fmt.Sprintf("Found %d holidays: %d new, %d already exist in database",
		r.Stats.Total, r.Stats.New, r.Stats.Existing)
}

// Description builds the Spanish description of a source record
func Description(kind string) string {
	if kind == "" {
		return "Feriado oficial"
	}
	return fmt.Sprintf("Feriado oficial (%s)", kind)
}

// TempID builds the provisional identifier of a candidate
func TempID(date string, index int) string {
	return fmt.Sprintf("temp_%s_%d", date, index)
}

// SortByDate sorts records ascending by date. Records with malformed dates
// sort last, keeping their relative order.
func SortByDate(records []holiday.SourceHoliday) {
	sort.SliceStable(records, func(i, j int) bool {
		a, errA := dateutil.ParseDateString(records[i].Date)
		b, errB := dateutil.ParseDateString(records[j].Date)
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		}
		return a.Before(b)
	})
}
