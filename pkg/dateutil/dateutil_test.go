package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantYear  int
		wantMonth time.Month
		wantDay   int
	}{
		{"New year", "2025-01-01", 2025, time.January, 1},
		{"End of year", "2025-12-31", 2025, time.December, 31},
		{"Leap day", "2024-02-29", 2024, time.February, 29},
		{"DST start in many zones", "2025-03-30", 2025, time.March, 30},
		{"Unpadded fields", "2025-5-1", 2025, time.May, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateString(tt.input)
			if err != nil {
				t.Fatalf("ParseDateString(%q) error = %v", tt.input, err)
			}
			if got.Year() != tt.wantYear || got.Month() != tt.wantMonth || got.Day() != tt.wantDay {
				t.Errorf("ParseDateString(%q) = %v, want %d-%02d-%02d",
					tt.input, got, tt.wantYear, tt.wantMonth, tt.wantDay)
			}
		})
	}
}

func TestParseDateString_IndependentOfLocalZone(t *testing.T) {
	zones := []string{"UTC", "America/Argentina/Buenos_Aires", "Pacific/Kiritimati", "Pacific/Pago_Pago"}

	original := time.Local
	defer func() { time.Local = original }()

	for _, zone := range zones {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			t.Skipf("timezone data unavailable for %s: %v", zone, err)
		}
		time.Local = loc

		got, err := ParseDateString("2025-12-24")
		if err != nil {
			t.Fatalf("ParseDateString() error = %v", err)
		}
		if FormatDate(got) != "2025-12-24" {
			t.Errorf("zone %s: round trip = %s, want 2025-12-24", zone, FormatDate(got))
		}
	}
}

func TestParseDateString_InvalidFormat(t *testing.T) {
	inputs := []string{
		"",
		"2025",
		"2025-01",
		"2025-01-01-01",
		"2025/01/01",
		"01.01.2025",
		"2025-ab-01",
		"2025-13-01",
		"2025-02-30",
		"2025-00-10",
		"+2025-01-01",
		"2025-+1-01",
		" 2025-01-01 ",
		"2025-01-01\n",
		"2025- 1-01",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDateString(input)
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("ParseDateString(%q) error = %v, want ErrInvalidFormat", input, err)
			}
		})
	}
}

func TestEachDay(t *testing.T) {
	start := time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	var keys []string
	EachDay(start, end, func(day time.Time) {
		keys = append(keys, FormatDate(day))
	})

	want := []string{"2025-12-30", "2025-12-31", "2026-01-01", "2026-01-02"}
	if len(keys) != len(want) {
		t.Fatalf("EachDay produced %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("day %d = %s, want %s", i, keys[i], want[i])
		}
	}
}

func TestEachDay_EndBeforeStart(t *testing.T) {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	calls := 0
	EachDay(start, end, func(time.Time) { calls++ })
	if calls != 0 {
		t.Errorf("EachDay called fn %d times, want 0", calls)
	}
}

func TestYearBounds(t *testing.T) {
	from, to := YearBounds(2026)
	if from != "2026-01-01" || to != "2026-12-31" {
		t.Errorf("YearBounds(2026) = (%s, %s)", from, to)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.February, 28},
		{2024, time.February, 29},
		{2025, time.April, 30},
		{2025, time.December, 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestFirstWeekday(t *testing.T) {
	// 1 January 2025 was a Wednesday
	if got := FirstWeekday(2025, time.January); got != time.Wednesday {
		t.Errorf("FirstWeekday(2025, January) = %v, want Wednesday", got)
	}
}

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  bool
	}{
		{"Saturday is weekend", time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC), true},
		{"Sunday is weekend", time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC), true},
		{"Monday is not weekend", time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWeekend(tt.input); got != tt.want {
				t.Errorf("IsWeekend(%v) = %v, want %v", tt.input.Format("2006-01-02 Mon"), got, tt.want)
			}
		})
	}
}

func TestIsSameDay(t *testing.T) {
	a := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 15, 20, 0, 0, 0, time.UTC)
	c := time.Date(2025, 1, 16, 10, 0, 0, 0, time.UTC)

	if !IsSameDay(a, b) {
		t.Error("IsSameDay should be true for same date with different times")
	}
	if IsSameDay(a, c) {
		t.Error("IsSameDay should be false for different dates")
	}
}
