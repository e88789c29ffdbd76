package source

import (
	"context"
	"fmt"

	"github.com/username/holiday-calendar/internal/holiday"
)

// DefaultMinEntries is the fewest records a year may have before the source
// is considered unavailable
const DefaultMinEntries = 5

// Source provides the public holidays of a year
type Source interface {
	// Fetch returns the holiday records of the given year
	Fetch(ctx context.Context, year int) ([]holiday.SourceHoliday, error)

	// Name identifies the source in logs
	Name() string
}

// Check enforces the sanity floor on a fetched year. Short results are
// treated as an unavailable source rather than a partial success.
func Check(records []holiday.SourceHoliday, min int) error {
	if min <= 0 {
		min = DefaultMinEntries
	}
	if len(records) < min {
		return fmt.Errorf("%w: got only %d holidays, expected at least %d",
			holiday.ErrSourceUnavailable, len(records), min)
	}
	return nil
}

// apiHoliday is the record shape of the ArgentinaDatos API
type apiHoliday struct {
	Fecha  string `json:"fecha"`
	Tipo   string `json:"tipo"`
	Nombre string `json:"nombre"`
}

func (a apiHoliday) toRecord() holiday.SourceHoliday {
	return holiday.SourceHoliday{Date: a.Fecha, Type: a.Tipo, Name: a.Nombre}
}
