package calendar

import (
	"fmt"
	"io"
	"strings"
)

const weekHeader = "  Su  Mo  Tu  We  Th  Fr  Sa"

// Render prints the year view as a terminal grid followed by the holidays of
// each month
func Render(w io.Writer, view YearView) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%d\n\n", view.Year)

	for _, m := range view.Months {
		fmt.Fprintf(&b, "%s\n%s\n", m.Name, weekHeader)

		cells := m.Offset
		b.WriteString(strings.Repeat("    ", m.Offset))
		for _, d := range m.Days {
			fmt.Fprintf(&b, "%4s", fmt.Sprintf("%d%s", d.Day, marker(d)))
			cells++
			if cells%7 == 0 {
				b.WriteString("\n")
			}
		}
		if cells%7 != 0 {
			b.WriteString("\n")
		}

		for _, d := range m.Days {
			if !d.IsHoliday() {
				continue
			}
			fmt.Fprintf(&b, "  %s %s %s\n", d.Key, LegendFor(d.Status).Symbol, d.Title)
			for _, extra := range d.Holidays[1:] {
				fmt.Fprintf(&b, "             also: %s\n", extra.Name)
			}
		}
		b.WriteString("\n")
	}

	for _, e := range view.Legend {
		fmt.Fprintf(&b, "%s %s: %s\n", e.Symbol, e.Label, e.Description)
	}
	b.WriteString("< today\n")

	for _, inv := range view.Invalid {
		fmt.Fprintf(&b, "skipped %q: %s\n", inv.Holiday.Name, inv.Reason)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func marker(d DayInfo) string {
	if d.IsHoliday() {
		return LegendFor(d.Status).Symbol
	}
	if d.IsToday {
		return "<"
	}
	return " "
}
