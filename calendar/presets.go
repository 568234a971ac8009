package calendar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/ar"
	"github.com/rickar/cal/v2/es"
	"github.com/rickar/cal/v2/us"
)

// =============================================================================
// HOLIDAY PRESETS - Public holiday calendars merged into uploaded lists
// =============================================================================

// presets maps a preset name to the holidays it observes.
var presets = map[string][]*cal.Holiday{
	"ar": ar.Holidays,
	"es": es.Holidays,
	"us": {
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	},
}

// PresetNames lists the registered preset names in ascending order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetHolidays returns the observed holidays of a named preset that fall
// inside the period. An empty name yields an empty set.
func PresetHolidays(name string, p Period) (HolidaySet, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return NewHolidaySet(), nil
	}
	holidays, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	bc := cal.NewBusinessCalendar()
	bc.AddHoliday(holidays...)

	set := NewHolidaySet()
	for _, d := range p.Days() {
		if _, observed, _ := bc.IsHoliday(d.Time()); observed {
			set.Add(d)
		}
	}
	return set, nil
}
