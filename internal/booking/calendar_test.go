package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthGrid(t *testing.T) {
	tests := []struct {
		name        string
		year        int
		month       time.Month
		firstDay    int
		daysInMonth int
	}{
		{name: "march_2026", year: 2026, month: time.March, firstDay: 0, daysInMonth: 31},
		{name: "february_2026", year: 2026, month: time.February, firstDay: 0, daysInMonth: 28},
		{name: "leap_february_2024", year: 2024, month: time.February, firstDay: 4, daysInMonth: 29},
		{name: "april_2026", year: 2026, month: time.April, firstDay: 3, daysInMonth: 30},
		{name: "december_rolls_year", year: 2025, month: time.December, firstDay: 1, daysInMonth: 31},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			grid := MonthGrid(test.year, test.month)
			assert.Equal(t, test.firstDay, grid.FirstDay)
			assert.Equal(t, test.daysInMonth, grid.DaysInMonth)
		})
	}
}

func TestGridCells(t *testing.T) {
	grid := MonthGrid(2026, time.April)
	cells := grid.Cells()

	require.Len(t, cells, grid.FirstDay+grid.DaysInMonth)
	for i := 0; i < grid.FirstDay; i++ {
		assert.Zero(t, cells[i], "leading cell %d should be blank", i)
	}
	assert.Equal(t, 1, cells[grid.FirstDay])
	assert.Equal(t, 30, cells[len(cells)-1])
}

func TestCanonicalDate(t *testing.T) {
	availability := DefaultAvailability()
	assert.Equal(t, "2026-03-09", availability.CanonicalDate(9))
	assert.Equal(t, "2026-03-11", availability.CanonicalDate(11))

	other := Availability{Year: 2027, Month: time.November, Days: []int{1}}
	assert.Equal(t, "2027-11-01", other.CanonicalDate(1))
}

func TestSelectDay(t *testing.T) {
	availability := DefaultAvailability()
	grid := availability.Grid()

	for day := 1; day <= grid.DaysInMonth; day++ {
		withTime := FormData{AppointmentDate: "2026-03-10", AppointmentTime: "09:30"}
		cmds := availability.SelectDay(withTime, day)

		if !availability.IsDayAvailable(day) {
			assert.Nil(t, cmds, "day %d is outside the allow-set", day)
			assert.Equal(t, withTime, Apply(withTime, cmds...))
			continue
		}

		next := Apply(withTime, cmds...)
		assert.Equal(t, availability.CanonicalDate(day), next.AppointmentDate)
		assert.Empty(t, next.AppointmentTime, "time must be cleared when day %d is picked", day)
	}
}

func TestSelectDay_WithoutTimeEmitsSingleCommand(t *testing.T) {
	availability := DefaultAvailability()

	cmds := availability.SelectDay(FormData{}, 12)

	require.Len(t, cmds, 1)
	assert.Equal(t, UpdateField{Field: FieldAppointmentDate, Value: "2026-03-12"}, cmds[0])
}

func TestIsDaySelected(t *testing.T) {
	availability := DefaultAvailability()

	empty := FormData{}
	for day := 1; day <= 31; day++ {
		assert.False(t, availability.IsDaySelected(empty, day))
	}

	chosen := FormData{AppointmentDate: "2026-03-11"}
	for day := 1; day <= 31; day++ {
		assert.Equal(t, day == 11, availability.IsDaySelected(chosen, day), "day %d", day)
	}

	otherMonth := FormData{AppointmentDate: "2026-04-11"}
	assert.False(t, availability.IsDaySelected(otherMonth, 11))
}

func TestCalendarView(t *testing.T) {
	availability := DefaultAvailability()

	view := availability.Calendar(FormData{AppointmentDate: "2026-03-13"})

	assert.Equal(t, "março de 2026", view.MonthLabel)
	assert.Equal(t, []string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sab"}, view.Weekdays)
	require.Len(t, view.Cells, 31)

	var available, selected []int
	for _, cell := range view.Cells {
		if cell.Blank() {
			continue
		}
		if cell.Available {
			available = append(available, cell.Day)
		}
		if cell.Selected {
			selected = append(selected, cell.Day)
		}
		assert.Equal(t, !cell.Available, cell.Disabled())
	}
	assert.Equal(t, []int{9, 10, 11, 12, 13}, available)
	assert.Equal(t, []int{13}, selected)
}
