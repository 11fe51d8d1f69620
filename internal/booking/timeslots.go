package booking

import (
	"fmt"
	"slices"
	"time"
)

const slotLayout = "15:04"

// SlotBlock is a contiguous range of bookable times. Both Start and End are
// HH:MM and End is inclusive.
type SlotBlock struct {
	Start string
	End   string
	Step  time.Duration
}

// DefaultSlotBlocks are the morning and afternoon blocks around the lunch gap.
func DefaultSlotBlocks() []SlotBlock {
	return []SlotBlock{
		{Start: "09:00", End: "12:00", Step: 30 * time.Minute},
		{Start: "14:00", End: "16:30", Step: 30 * time.Minute},
	}
}

// GenerateSlots expands blocks into an ordered list of HH:MM strings.
func GenerateSlots(blocks ...SlotBlock) (TimeSlots, error) {
	var slots TimeSlots
	for _, block := range blocks {
		start, err := time.Parse(slotLayout, block.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid slot block start %q: %w", block.Start, err)
		}
		end, err := time.Parse(slotLayout, block.End)
		if err != nil {
			return nil, fmt.Errorf("invalid slot block end %q: %w", block.End, err)
		}
		if block.Step <= 0 {
			return nil, fmt.Errorf("slot block %s-%s: step must be positive", block.Start, block.End)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("slot block %s-%s: end before start", block.Start, block.End)
		}
		for t := start; !t.After(end); t = t.Add(block.Step) {
			slots = append(slots, t.Format(slotLayout))
		}
	}
	return slots, nil
}

// TimeSlots is the fixed, ordered list of offered appointment times.
type TimeSlots []string

// DefaultTimeSlots returns the 13 reference slots.
func DefaultTimeSlots() TimeSlots {
	slots, err := GenerateSlots(DefaultSlotBlocks()...)
	if err != nil {
		panic(err)
	}
	return slots
}

// IsValidSlot reports whether value is an HH:MM time of day.
func IsValidSlot(value string) bool {
	_, err := time.Parse(slotLayout, value)
	return err == nil && len(value) == len(slotLayout)
}

// Visible reports whether the picker is shown: only once a date is chosen.
func (s TimeSlots) Visible(data FormData) bool {
	return data.AppointmentDate != ""
}

// Contains reports whether slot is offered.
func (s TimeSlots) Contains(slot string) bool {
	return slices.Contains(s, slot)
}

// IsSelected reports whether slot is the chosen appointment time.
func (s TimeSlots) IsSelected(data FormData, slot string) bool {
	return data.AppointmentTime != "" && data.AppointmentTime == slot
}

// Select returns the command setting the appointment time to slot. The
// picker is inert without a date, and slots that are not offered are ignored.
func (s TimeSlots) Select(data FormData, slot string) []UpdateField {
	if !s.Visible(data) || !s.Contains(slot) {
		return nil
	}
	return Set(FieldAppointmentTime, slot)
}
