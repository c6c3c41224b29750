package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidEnergyLevel = errors.New("model: invalid energy level")

// EnergyCheck is a self-reported energy reading on a 1 (drained) to 5 (peak) scale.
type EnergyCheck struct {
	ID        string
	Timestamp time.Time
	Level     int
	Note      string
}

func (c EnergyCheck) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("model: energy check id is required")
	}
	if c.Timestamp.IsZero() {
		return errors.New("model: energy check timestamp is required")
	}
	if c.Level < 1 || c.Level > 5 {
		return fmt.Errorf("%w: %d", ErrInvalidEnergyLevel, c.Level)
	}
	return nil
}

// DailyNote carries the free-text intention and notebook for one day, plus the
// playlist task ids frozen for that day and any energy checks recorded.
type DailyNote struct {
	ID           string
	Date         time.Time
	Intention    string
	Notebook     string
	Playlist     []string
	EnergyChecks []EnergyCheck
}

func (n DailyNote) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return errors.New("model: daily note id is required")
	}
	if n.Date.IsZero() {
		return errors.New("model: daily note date is required")
	}
	for _, check := range n.EnergyChecks {
		if err := check.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Settings holds the behavior preferences the engine cares about. Appearance
// settings stay with the presentation layer.
type Settings struct {
	AutoArchive     bool
	AutoArchiveDays int
	EnergyTracking  bool
	RealityCheck    bool
	SimplifiedMode  bool
}

func DefaultSettings() Settings {
	return Settings{
		AutoArchive:     true,
		AutoArchiveDays: 30,
		EnergyTracking:  true,
		RealityCheck:    true,
		SimplifiedMode:  false,
	}
}
