package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidChronotype = errors.New("model: invalid chronotype")
	ErrInvalidTimeRange  = errors.New("model: invalid time range")
)

type Chronotype string

const (
	ChronotypeMorning  Chronotype = "morning"
	ChronotypeEvening  Chronotype = "evening"
	ChronotypeFlexible Chronotype = "flexible"
)

func (c Chronotype) IsValid() bool {
	switch c {
	case ChronotypeMorning, ChronotypeEvening, ChronotypeFlexible:
		return true
	default:
		return false
	}
}

// TimeRange is a half-open [Start, End) window within a day, "HH:MM" formatted.
// Containment is checked at hour granularity.
type TimeRange struct {
	Start string
	End   string
}

func (r TimeRange) Validate() error {
	start, err := HourOf(r.Start)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeRange, r.Start)
	}
	end, err := HourOf(r.End)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeRange, r.End)
	}
	if start >= end {
		return fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, r.Start, r.End)
	}
	return nil
}

func (r TimeRange) Contains(hour int) bool {
	start, err := HourOf(r.Start)
	if err != nil {
		return false
	}
	end, err := HourOf(r.End)
	if err != nil {
		return false
	}
	return hour >= start && hour < end
}

// StartHour returns the opening hour of the range, or -1 when malformed.
func (r TimeRange) StartHour() int {
	h, err := HourOf(r.Start)
	if err != nil {
		return -1
	}
	return h
}

// HourOf parses the hour component of an "HH:MM" clock string.
func HourOf(clock string) (int, error) {
	head, _, _ := strings.Cut(clock, ":")
	h, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("hour out of range: %d", h)
	}
	return h, nil
}

// EnergyProfile describes the user's self-reported energy rhythm. It is scoring
// input only; nothing in the engine mutates it.
type EnergyProfile struct {
	Chronotype   Chronotype
	Peaks        []TimeRange
	Dips         []TimeRange
	FocusMinutes int
	BreakMinutes int
	WorkDays     []time.Weekday
}

func DefaultProfile() EnergyProfile {
	return EnergyProfile{
		Chronotype:   ChronotypeMorning,
		Peaks:        []TimeRange{{Start: "09:00", End: "12:00"}},
		Dips:         []TimeRange{{Start: "14:00", End: "16:00"}},
		FocusMinutes: 90,
		BreakMinutes: 15,
		WorkDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
	}
}

func (p EnergyProfile) Validate() error {
	if !p.Chronotype.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidChronotype, p.Chronotype)
	}
	for _, r := range p.Peaks {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	for _, r := range p.Dips {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	if p.FocusMinutes < 0 || p.BreakMinutes < 0 {
		return errors.New("model: focus and break minutes must not be negative")
	}
	return nil
}

func (p EnergyProfile) InPeak(hour int) bool {
	for _, r := range p.Peaks {
		if r.Contains(hour) {
			return true
		}
	}
	return false
}

func (p EnergyProfile) InDip(hour int) bool {
	for _, r := range p.Dips {
		if r.Contains(hour) {
			return true
		}
	}
	return false
}

// PeakHours lists the opening hour of each peak window, in configured order.
func (p EnergyProfile) PeakHours() []int {
	return startHours(p.Peaks)
}

func (p EnergyProfile) DipHours() []int {
	return startHours(p.Dips)
}

func startHours(ranges []TimeRange) []int {
	out := make([]int, 0, len(ranges))
	for _, r := range ranges {
		if h := r.StartHour(); h >= 0 {
			out = append(out, h)
		}
	}
	return out
}

func (p EnergyProfile) IsWorkDay(day time.Weekday) bool {
	for _, d := range p.WorkDays {
		if d == day {
			return true
		}
	}
	return false
}
