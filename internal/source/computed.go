package source

import (
	"context"
	"time"

	"github.com/rickar/cal/v2"

	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/pkg/dateutil"
)

const (
	kindFixed   = "inamovible"
	kindMovable = "trasladable"
)

type computedHoliday struct {
	holiday *cal.Holiday
	kind    string
}

func fixed(name string, month time.Month, day int, kind string) computedHoliday {
	return computedHoliday{
		holiday: &cal.Holiday{
			Name:  name,
			Type:  cal.ObservancePublic,
			Month: month,
			Day:   day,
			Func:  cal.CalcDayOfMonth,
		},
		kind: kind,
	}
}

func easter(name string, offset int) computedHoliday {
	return computedHoliday{
		holiday: &cal.Holiday{
			Name:   name,
			Type:   cal.ObservancePublic,
			Offset: offset,
			Func:   cal.CalcEasterOffset,
		},
		kind: kindFixed,
	}
}

// nationalHolidays are the Argentine national holidays on their nominal dates.
// Movable holidays are not shifted to the nearest Monday.
var nationalHolidays = []computedHoliday{
	fixed("Año Nuevo", time.January, 1, kindFixed),
	easter("Carnaval", -48),
	easter("Carnaval", -47),
	fixed("Día Nacional de la Memoria por la Verdad y la Justicia", time.March, 24, kindFixed),
	fixed("Día del Veterano y de los Caídos en la Guerra de Malvinas", time.April, 2, kindFixed),
	easter("Jueves Santo", -3),
	easter("Viernes Santo", -2),
	fixed("Día del Trabajador", time.May, 1, kindFixed),
	fixed("Día de la Revolución de Mayo", time.May, 25, kindFixed),
	fixed("Paso a la Inmortalidad del General Martín Miguel de Güemes", time.June, 17, kindMovable),
	fixed("Paso a la Inmortalidad del General Manuel Belgrano", time.June, 20, kindFixed),
	fixed("Día de la Independencia", time.July, 9, kindFixed),
	fixed("Paso a la Inmortalidad del General José de San Martín", time.August, 17, kindMovable),
	fixed("Día del Respeto a la Diversidad Cultural", time.October, 12, kindMovable),
	fixed("Día de la Soberanía Nacional", time.November, 20, kindMovable),
	fixed("Inmaculada Concepción de María", time.December, 8, kindFixed),
	fixed("Navidad", time.December, 25, kindFixed),
}

// ComputedSource implements Source by computing national holidays locally.
// It needs no network and serves as the last fallback.
type ComputedSource struct {
	holidays []computedHoliday
}

// NewComputedSource creates a new ComputedSource
func NewComputedSource() *ComputedSource {
	return &ComputedSource{holidays: nationalHolidays}
}

// Name identifies the source in logs
func (cs *ComputedSource) Name() string {
	return "computed"
}

// Fetch computes the holidays of a year, sorted by date
func (cs *ComputedSource) Fetch(_ context.Context, year int) ([]holiday.SourceHoliday, error) {
	records := make([]holiday.SourceHoliday, 0, len(cs.holidays))
	for _, ch := range cs.holidays {
		actual, _ := ch.holiday.Calc(year)
		records = append(records, holiday.SourceHoliday{
			Date: dateutil.DateKey(actual.Year(), actual.Month(), actual.Day()),
			Type: ch.kind,
			Name: ch.holiday.Name,
		})
	}

	sortRecords(records)
	return records, nil
}
