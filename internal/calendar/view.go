package calendar

import (
	"sort"
	"time"

	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/pkg/dateutil"
)

// BuildYear lays out the 12 months of year with the given holidays.
// today marks the current day when it falls inside the year.
func BuildYear(year int, holidays []holiday.Holiday, today time.Time, lang holiday.Language) YearView {
	idx := Expand(holidays)

	view := YearView{
		Year:     year,
		Months:   make([]MonthInfo, 0, 12),
		Legend:   Legend(),
		Holidays: inYear(year, holidays),
		Invalid:  idx.Invalid,
	}

	for month := time.January; month <= time.December; month++ {
		view.Months = append(view.Months, buildMonth(year, month, idx, today, lang))
	}

	return view
}

func buildMonth(year int, month time.Month, idx *DayIndex, today time.Time, lang holiday.Language) MonthInfo {
	daysInMonth := dateutil.DaysInMonth(year, month)

	info := MonthInfo{
		Year:   year,
		Month:  month,
		Name:   month.String(),
		Offset: int(dateutil.FirstWeekday(year, month)),
		Counts: make(map[holiday.Status]int, len(holiday.Statuses)),
		Days:   make([]DayInfo, 0, daysInMonth),
	}
	for _, s := range holiday.Statuses {
		info.Counts[s] = 0
	}

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		key := dateutil.DateKey(year, month, day)

		d := DayInfo{
			Date:      date,
			Key:       key,
			Day:       day,
			Weekday:   date.Weekday(),
			Holidays:  idx.On(key),
			IsToday:   dateutil.IsSameDay(date, today),
			IsWeekend: dateutil.IsWeekend(date),
		}

		if primary, ok := idx.Primary(key); ok {
			entry := LegendFor(primary.Status)
			d.Status = entry.Status
			d.Color = entry.Color
			d.Title = Title(primary, lang)
			info.Holidays++
			info.Counts[d.Status]++
		}

		info.Days = append(info.Days, d)
	}

	return info
}

// Title is the hover text of a holiday cell
func Title(h holiday.Holiday, lang holiday.Language) string {
	desc := h.DisplayDescription(lang)
	if desc == "" {
		desc = "Official holiday"
	}
	return h.DisplayName(lang) + " - " + desc
}

// inYear returns the holidays overlapping year, ordered by start date
func inYear(year int, holidays []holiday.Holiday) []holiday.Holiday {
	from, to := dateutil.YearBounds(year)

	out := make([]holiday.Holiday, 0, len(holidays))
	for _, h := range holidays {
		if h.StartDate <= to && h.EndDate >= from {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate < out[j].StartDate
	})
	return out
}
