package model

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultProfileIsValid(t *testing.T) {
	profile := DefaultProfile()
	if err := profile.Validate(); err != nil {
		t.Fatalf("default profile must validate, got: %v", err)
	}
	if !profile.IsWorkDay(time.Monday) || profile.IsWorkDay(time.Sunday) {
		t.Fatal("default profile should work Monday through Friday")
	}
}

func TestInPeakAndInDipHourGranularity(t *testing.T) {
	profile := EnergyProfile{
		Chronotype: ChronotypeMorning,
		Peaks:      []TimeRange{{Start: "09:00", End: "12:00"}},
		Dips:       []TimeRange{{Start: "14:00", End: "16:00"}},
	}

	if !profile.InPeak(9) || !profile.InPeak(11) {
		t.Fatal("hours 9 and 11 must be inside the 09:00-12:00 peak")
	}
	if profile.InPeak(12) {
		t.Fatal("peak windows are half-open, 12 must be outside")
	}
	if profile.InPeak(8) {
		t.Fatal("hour 8 must be outside the peak")
	}

	if !profile.InDip(14) || !profile.InDip(15) {
		t.Fatal("hours 14 and 15 must be inside the dip")
	}
	if profile.InDip(16) {
		t.Fatal("dip windows are half-open, 16 must be outside")
	}
}

func TestStartHours(t *testing.T) {
	profile := EnergyProfile{
		Peaks: []TimeRange{{Start: "09:00", End: "12:00"}, {Start: "17:00", End: "19:00"}},
		Dips:  []TimeRange{{Start: "14:00", End: "16:00"}},
	}
	peaks := profile.PeakHours()
	if len(peaks) != 2 || peaks[0] != 9 || peaks[1] != 17 {
		t.Fatalf("unexpected peak hours: %v", peaks)
	}
	dips := profile.DipHours()
	if len(dips) != 1 || dips[0] != 14 {
		t.Fatalf("unexpected dip hours: %v", dips)
	}
}

func TestTimeRangeValidate(t *testing.T) {
	if err := (TimeRange{Start: "09:00", End: "12:00"}).Validate(); err != nil {
		t.Fatalf("expected valid range, got: %v", err)
	}
	if err := (TimeRange{Start: "12:00", End: "09:00"}).Validate(); err == nil || !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange for inverted range, got: %v", err)
	}
	if err := (TimeRange{Start: "morning", End: "12:00"}).Validate(); err == nil || !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange for malformed clock, got: %v", err)
	}
}

func TestProfileValidateRejectsBadChronotype(t *testing.T) {
	profile := DefaultProfile()
	profile.Chronotype = Chronotype("nocturnal")
	if err := profile.Validate(); err == nil || !errors.Is(err, ErrInvalidChronotype) {
		t.Fatalf("expected ErrInvalidChronotype, got: %v", err)
	}
}
