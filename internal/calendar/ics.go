package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/username/holiday-calendar/internal/holiday"
)

const (
	icsProductID  = "-//holiday-calendar//Holiday Calendar//EN"
	icsDateLayout = "20060102"
	icsLineLimit  = 75
)

// ICSOptions controls the iCalendar export
type ICSOptions struct {
	Name     string
	Language holiday.Language
	Domain   string    // UID suffix
	Now      time.Time // DTSTAMP, defaults to time.Now
}

// WriteICS writes the holidays as all-day iCalendar events. Holidays with
// invalid dates are skipped.
func WriteICS(w io.Writer, holidays []holiday.Holiday, opts ICSOptions) error {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Domain == "" {
		opts.Domain = "holiday-calendar"
	}
	if opts.Language == "" {
		opts.Language = holiday.LanguageEnglish
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(fold(s))
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:" + icsProductID)
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	if opts.Name != "" {
		line("X-WR-CALNAME:" + escapeText(opts.Name))
	}

	stamp := opts.Now.UTC().Format("20060102T150405Z")
	for _, h := range holidays {
		start, end, err := h.Range()
		if err != nil || end.Before(start) {
			continue
		}

		uid := h.ID
		if uid == "" {
			uid = h.Key()
		}

		line("BEGIN:VEVENT")
		line(fmt.Sprintf("UID:%s@%s", escapeText(uid), opts.Domain))
		line("DTSTAMP:" + stamp)
		line("DTSTART;VALUE=DATE:" + start.Format(icsDateLayout))
		line("DTEND;VALUE=DATE:" + end.AddDate(0, 0, 1).Format(icsDateLayout))
		line("SUMMARY:" + escapeText(h.DisplayName(opts.Language)))
		if desc := h.DisplayDescription(opts.Language); desc != "" {
			line("DESCRIPTION:" + escapeText(desc))
		}
		if h.Status != "" {
			line("CATEGORIES:" + escapeText(string(h.Status)))
		}
		line("TRANSP:TRANSPARENT")
		line("END:VEVENT")
	}

	line("END:VCALENDAR")

	_, err := io.WriteString(w, b.String())
	return err
}

var icsEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

func escapeText(s string) string {
	return icsEscaper.Replace(s)
}

// fold splits content lines longer than 75 octets without breaking runes
func fold(s string) string {
	if len(s) <= icsLineLimit {
		return s
	}

	var b strings.Builder
	limit := icsLineLimit
	width := 0
	for _, r := range s {
		size := utf8.RuneLen(r)
		if width+size > limit {
			b.WriteString("\r\n ")
			width = 0
			limit = icsLineLimit - 1
		}
		b.WriteRune(r)
		width += size
	}
	return b.String()
}
