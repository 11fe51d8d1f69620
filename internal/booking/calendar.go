package booking

import (
	"fmt"
	"slices"
	"time"
)

// Grid describes a month laid out in a 7-column, Sunday-first calendar.
type Grid struct {
	Year        int
	Month       time.Month
	FirstDay    int // weekday of day 1, 0 = Sunday
	DaysInMonth int
}

// MonthGrid computes the grid for year and month.
func MonthGrid(year int, month time.Month) Grid {
	// Day 0 of the following month normalises to the last day of month.
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Grid{
		Year:        year,
		Month:       month,
		FirstDay:    int(first.Weekday()),
		DaysInMonth: last.Day(),
	}
}

// Cells returns FirstDay blank cells (Day == 0) followed by one cell per day.
// There is no trailing padding.
func (g Grid) Cells() []int {
	cells := make([]int, g.FirstDay+g.DaysInMonth)
	for day := 1; day <= g.DaysInMonth; day++ {
		cells[g.FirstDay+day-1] = day
	}
	return cells
}

// Availability is the single open booking window: one month of one year and
// the days of that month that can be booked.
type Availability struct {
	Year  int
	Month time.Month
	Days  []int
}

// DefaultAvailability is the 9-13 March 2026 window.
func DefaultAvailability() Availability {
	return Availability{
		Year:  2026,
		Month: time.March,
		Days:  []int{9, 10, 11, 12, 13},
	}
}

// Grid returns the calendar grid of the open month.
func (a Availability) Grid() Grid {
	return MonthGrid(a.Year, a.Month)
}

// IsDayAvailable reports whether day belongs to the allow-set.
func (a Availability) IsDayAvailable(day int) bool {
	return slices.Contains(a.Days, day)
}

// IsDayDisabled is the negation of IsDayAvailable.
func (a Availability) IsDayDisabled(day int) bool {
	return !a.IsDayAvailable(day)
}

// CanonicalDate formats day of the open month as YYYY-MM-DD.
func (a Availability) CanonicalDate(day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", a.Year, int(a.Month), day)
}

// IsDaySelected reports whether day is the chosen appointment date.
func (a Availability) IsDaySelected(data FormData, day int) bool {
	if data.AppointmentDate == "" {
		return false
	}
	return data.AppointmentDate == a.CanonicalDate(day)
}

// SelectDay returns the commands for a click on day. Disabled days yield
// nil. A previously chosen time is cleared so it never carries over to a
// different day.
func (a Availability) SelectDay(data FormData, day int) []UpdateField {
	if a.IsDayDisabled(day) {
		return nil
	}
	cmds := Set(FieldAppointmentDate, a.CanonicalDate(day))
	if data.AppointmentTime != "" {
		cmds = append(cmds, UpdateField{Field: FieldAppointmentTime, Value: ""})
	}
	return cmds
}

// DayCell is one rendered position of the calendar grid.
type DayCell struct {
	Day       int // 0 for leading blanks
	Date      string
	Available bool
	Selected  bool
}

// Blank reports whether the cell is leading padding.
func (c DayCell) Blank() bool { return c.Day == 0 }

// Disabled reports whether the cell is a day that cannot be chosen.
func (c DayCell) Disabled() bool { return c.Day != 0 && !c.Available }

// CalendarView is the derived calendar for the current form data.
type CalendarView struct {
	Grid       Grid
	MonthLabel string
	Weekdays   []string
	Cells      []DayCell
}

// Calendar derives the calendar cells for data. Selection is recomputed on
// every call from data.AppointmentDate.
func (a Availability) Calendar(data FormData) CalendarView {
	grid := a.Grid()
	raw := grid.Cells()
	cells := make([]DayCell, len(raw))
	for i, day := range raw {
		if day == 0 {
			continue
		}
		cells[i] = DayCell{
			Day:       day,
			Date:      a.CanonicalDate(day),
			Available: a.IsDayAvailable(day),
			Selected:  a.IsDaySelected(data, day),
		}
	}
	return CalendarView{
		Grid:       grid,
		MonthLabel: FormatMonthLabel(a.Year, a.Month),
		Weekdays:   WeekdayLabels(),
		Cells:      cells,
	}
}
