package rotation

import "time"

// weekdayNames is indexed by time.Weekday (Sunday == 0).
var weekdayNames = [7]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Lunes",
	time.Tuesday:   "Martes",
	time.Wednesday: "Miércoles",
	time.Thursday:  "Jueves",
	time.Friday:    "Viernes",
	time.Saturday:  "Sábado",
}

// WeekdayName returns the localized name of wd.
func WeekdayName(wd time.Weekday) string {
	return weekdayNames[wd%7]
}

// WeekdayNames returns the table Monday first, as shown to users.
func WeekdayNames() []string {
	out := make([]string, 0, 7)
	for i := 1; i <= 7; i++ {
		out = append(out, weekdayNames[i%7])
	}
	return out
}

// Resolve enriches each pair with its office label and weekday name.
// Codes missing from the directory get an empty label. Order and length
// are preserved.
func Resolve(pairs []CodedDate, directory CodeDirectory) []Assignment {
	out := make([]Assignment, len(pairs))
	for i, p := range pairs {
		out[i] = Assignment{
			Date:    p.Date,
			Code:    p.Code,
			Label:   directory.Label(p.Code),
			Weekday: WeekdayName(p.Date.Weekday()),
		}
	}
	return out
}
