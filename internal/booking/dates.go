package booking

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

var ptWeekdays = [...]string{
	"domingo",
	"segunda-feira",
	"terça-feira",
	"quarta-feira",
	"quinta-feira",
	"sexta-feira",
	"sábado",
}

var ptMonths = [...]string{
	"janeiro",
	"fevereiro",
	"março",
	"abril",
	"maio",
	"junho",
	"julho",
	"agosto",
	"setembro",
	"outubro",
	"novembro",
	"dezembro",
}

var weekdayLabels = [...]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sab"}

// WeekdayLabels returns the Sunday-first column headers of the calendar.
func WeekdayLabels() []string {
	return weekdayLabels[:]
}

// FormatMonthLabel renders "março de 2026".
func FormatMonthLabel(year int, month time.Month) string {
	if month < time.January || month > time.December {
		return fmt.Sprintf("%d", year)
	}
	return fmt.Sprintf("%s de %d", ptMonths[month-1], year)
}

// FormatLongDate renders a YYYY-MM-DD date in the long Portuguese form, e.g.
// "quarta-feira, 11 de março de 2026". Empty input yields "". Input that does
// not parse is returned as is.
func FormatLongDate(date string) string {
	if date == "" {
		return ""
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s, %d de %s de %d", ptWeekdays[t.Weekday()], t.Day(), ptMonths[t.Month()-1], t.Year())
}
