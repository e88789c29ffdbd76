package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/username/holiday-calendar/internal/holiday"
)

func TestWriteICS(t *testing.T) {
	holidays := []holiday.Holiday{
		{ID: "abc", Name: "Navidad", NameEn: "Christmas", StartDate: "2025-12-24", EndDate: "2025-12-25", Description: "Feriado oficial, inamovible; fijo", Status: holiday.StatusApproved},
		{ID: "bad", Name: "Roto", StartDate: "2025-13-01", EndDate: "2025-13-01", Status: holiday.StatusApproved},
	}

	var sb strings.Builder
	err := WriteICS(&sb, holidays, ICSOptions{
		Name:     "Holidays 2025",
		Language: holiday.LanguageSpanish,
		Domain:   "example.com",
		Now:      time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("WriteICS() error = %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"BEGIN:VCALENDAR\r\n",
		"X-WR-CALNAME:Holidays 2025\r\n",
		"UID:abc@example.com\r\n",
		"DTSTAMP:20250102T030405Z\r\n",
		"DTSTART;VALUE=DATE:20251224\r\n",
		"DTEND;VALUE=DATE:20251226\r\n",
		"SUMMARY:Navidad\r\n",
		`DESCRIPTION:Feriado oficial\, inamovible\; fijo` + "\r\n",
		"CATEGORIES:approved\r\n",
		"END:VCALENDAR\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteICS() output missing %q", want)
		}
	}

	if strings.Count(out, "BEGIN:VEVENT") != 1 {
		t.Errorf("expected the invalid holiday to be skipped, got %d events", strings.Count(out, "BEGIN:VEVENT"))
	}
}

func TestWriteICS_EnglishFallsBack(t *testing.T) {
	holidays := []holiday.Holiday{
		{Name: "Carnaval", StartDate: "2025-03-03", EndDate: "2025-03-04", Status: holiday.StatusWorking},
	}

	var sb strings.Builder
	if err := WriteICS(&sb, holidays, ICSOptions{}); err != nil {
		t.Fatalf("WriteICS() error = %v", err)
	}
	out := sb.String()

	if !strings.Contains(out, "SUMMARY:Carnaval\r\n") {
		t.Error("English summary should fall back to the Spanish name")
	}
	if !strings.Contains(out, "UID:2025-03-03_Carnaval@holiday-calendar\r\n") {
		t.Error("UID should fall back to the holiday key")
	}
}

func TestFold(t *testing.T) {
	long := "SUMMARY:" + strings.Repeat("Día de la Memoria ", 10)

	folded := fold(long)
	for i, line := range strings.Split(folded, "\r\n") {
		if len(line) > icsLineLimit {
			t.Errorf("line %d has %d octets", i, len(line))
		}
		if i > 0 && !strings.HasPrefix(line, " ") {
			t.Errorf("continuation line %d does not start with a space", i)
		}
	}

	if unfolded := strings.ReplaceAll(folded, "\r\n ", ""); unfolded != long {
		t.Errorf("unfolded = %q, want %q", unfolded, long)
	}

	if fold("short") != "short" {
		t.Error("short lines must not be folded")
	}
}
