package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/pkg/dateutil"
)

// InvalidHoliday is a holiday skipped during expansion
type InvalidHoliday struct {
	Holiday holiday.Holiday `json:"holiday"`
	Reason  string          `json:"reason"`
}

// DayIndex maps date keys (YYYY-MM-DD) to the holidays occupying that day.
// Within a day, holidays keep the order in which they were expanded.
type DayIndex struct {
	days    map[string][]holiday.Holiday
	Invalid []InvalidHoliday
}

// Expand builds the per-day index of holidays. Every day from start to end
// (inclusive) receives the holiday. Holidays with unparsable dates or an end
// before their start are recorded in Invalid and skipped.
func Expand(holidays []holiday.Holiday) *DayIndex {
	idx := &DayIndex{days: make(map[string][]holiday.Holiday)}

	for _, h := range holidays {
		start, end, err := h.Range()
		if err != nil {
			idx.Invalid = append(idx.Invalid, InvalidHoliday{Holiday: h, Reason: err.Error()})
			continue
		}
		if end.Before(start) {
			idx.Invalid = append(idx.Invalid, InvalidHoliday{
				Holiday: h,
				Reason:  fmt.Sprintf("end date %s is before start date %s", h.EndDate, h.StartDate),
			})
			continue
		}

		dateutil.EachDay(start, end, func(day time.Time) {
			key := dateutil.FormatDate(day)
			idx.days[key] = append(idx.days[key], h)
		})
	}

	return idx
}

// On returns the holidays of a day key
func (d *DayIndex) On(key string) []holiday.Holiday {
	return d.days[key]
}

// OnDate returns the holidays of a calendar date
func (d *DayIndex) OnDate(date time.Time) []holiday.Holiday {
	return d.days[dateutil.FormatDate(date)]
}

// Primary returns the holiday that decides how a day is displayed.
// When several holidays share a day, the first inserted one wins and the
// others are only listed.
func (d *DayIndex) Primary(key string) (holiday.Holiday, bool) {
	hs := d.days[key]
	if len(hs) == 0 {
		return holiday.Holiday{}, false
	}
	return hs[0], true
}

// Map exposes the underlying index. Callers must not modify it.
func (d *DayIndex) Map() map[string][]holiday.Holiday {
	return d.days
}

// Len returns the number of days occupied by at least one holiday
func (d *DayIndex) Len() int {
	return len(d.days)
}

// Keys returns the occupied day keys in ascending order
func (d *DayIndex) Keys() []string {
	keys := make([]string, 0, len(d.days))
	for k := range d.days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
