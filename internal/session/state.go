package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/palolo875/kairu/internal/model"
)

// DefaultEnergyCheckEvery matches the app rhythm: nudge roughly once an hour.
const DefaultEnergyCheckEvery = time.Hour

// realityCheckThreshold is the planned deep-work effort (in hours) above
// which a day is considered over-ambitious.
const realityCheckThreshold = 3

// State tracks when the next energy-check prompt is due. It replaces the old
// habit of a module-global "last check" timestamp: the caller owns a State
// and the derivation stays testable.
type State struct {
	mu        sync.Mutex
	every     time.Duration
	lastCheck time.Time
}

func NewState(every time.Duration) *State {
	if every <= 0 {
		every = DefaultEnergyCheckEvery
	}
	return &State{every: every}
}

// RecordEnergyCheck marks a completed check and pushes the next prompt out.
func (s *State) RecordEnergyCheck(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCheck = now
}

// NextEnergyCheckAt returns when the next prompt is due. Before any check has
// been recorded the prompt is due immediately.
func (s *State) NextEnergyCheckAt(now time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastCheck.IsZero() {
		return now
	}
	return s.lastCheck.Add(s.every)
}

func (s *State) EnergyCheckDue(now time.Time) bool {
	return !s.NextEnergyCheckAt(now).After(now)
}

// RealityAlert describes an over-planned day of deep work.
type RealityAlert struct {
	Hours   int
	Tasks   []model.Task
	Message string
}

// deepEffortHours mirrors the playlist's effort units: a coarse per-size
// hour count with unsized tasks counting as medium.
func deepEffortHours(size model.Size) int {
	switch size {
	case model.SizeS:
		return 1
	case model.SizeM:
		return 2
	case model.SizeL:
		return 3
	default:
		return 2
	}
}

// EvaluateRealityCheck sums the open deep-work effort in the given day's
// tasks. It reports an alert only when the total crosses the threshold.
func EvaluateRealityCheck(tasks []model.Task) (RealityAlert, bool) {
	var deep []model.Task
	hours := 0
	for _, task := range tasks {
		if task.Energy != model.EnergyDeep || !task.Active() {
			continue
		}
		deep = append(deep, task)
		hours += deepEffortHours(task.Size)
	}
	if hours <= realityCheckThreshold {
		return RealityAlert{}, false
	}
	return RealityAlert{
		Hours:   hours,
		Tasks:   deep,
		Message: fmt.Sprintf("Vous avez prévu %dh de Deep Work aujourd'hui. C'est peut-être trop ambitieux.", hours),
	}, true
}
