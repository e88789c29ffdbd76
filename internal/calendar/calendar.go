package calendar

import (
	"time"

	"github.com/username/holiday-calendar/internal/holiday"
)

// DayInfo represents one cell of the yearly calendar grid
type DayInfo struct {
	Date      time.Time         `json:"-"`
	Key       string            `json:"date"`
	Day       int               `json:"day"`
	Weekday   time.Weekday      `json:"weekday"`
	Holidays  []holiday.Holiday `json:"holidays,omitempty"`
	Status    holiday.Status    `json:"status,omitempty"`
	Color     string            `json:"color,omitempty"`
	Title     string            `json:"title,omitempty"`
	IsToday   bool              `json:"isToday,omitempty"`
	IsWeekend bool              `json:"isWeekend,omitempty"`
}

// IsHoliday reports whether any holiday falls on the day
func (d DayInfo) IsHoliday() bool {
	return len(d.Holidays) > 0
}

// MonthInfo represents calendar information for a month
type MonthInfo struct {
	Year     int                    `json:"year"`
	Month    time.Month             `json:"month"`
	Name     string                 `json:"name"`
	Offset   int                    `json:"offset"` // blank cells before day 1, weeks start on Sunday
	Holidays int                    `json:"holidays"`
	Counts   map[holiday.Status]int `json:"counts"`
	Days     []DayInfo              `json:"days"`
}

// YearView is the 12-month calendar of a year
type YearView struct {
	Year     int               `json:"year"`
	Months   []MonthInfo       `json:"months"`
	Legend   []LegendEntry     `json:"legend"`
	Holidays []holiday.Holiday `json:"holidays"`
	Invalid  []InvalidHoliday  `json:"invalid,omitempty"`
}

// LegendEntry describes how a status is displayed
type LegendEntry struct {
	Status      holiday.Status `json:"status"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	Color       string         `json:"color"`
	Style       string         `json:"style"`
	Symbol      string         `json:"symbol"`
}

var legend = []LegendEntry{
	{
		Status:      holiday.StatusApproved,
		Label:       "Approved Holiday",
		Description: "Official holiday – no work",
		Color:       "#DC2626",
		Style:       "solid",
		Symbol:      "*",
	},
	{
		Status:      holiday.StatusWorking,
		Label:       "Working Day",
		Description: "Holiday, but we work",
		Color:       "#EA580C",
		Style:       "blurred",
		Symbol:      "~",
	},
	{
		Status:      holiday.StatusCustom,
		Label:       "Custom day off",
		Description: "Revolt's day off",
		Color:       "#9333EA",
		Style:       "solid",
		Symbol:      "+",
	},
}

// Legend returns the display entries of every persisted status
func Legend() []LegendEntry {
	out := make([]LegendEntry, len(legend))
	copy(out, legend)
	return out
}

// LegendFor returns the legend entry of a status. Unknown statuses are
// displayed like approved ones.
func LegendFor(status holiday.Status) LegendEntry {
	for _, e := range legend {
		if e.Status == status {
			return e
		}
	}
	return legend[0]
}

// Color returns the display color of a status
func Color(status holiday.Status) string {
	return LegendFor(status).Color
}
