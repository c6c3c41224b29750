package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidType     = errors.New("model: invalid task type")
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidSize     = errors.New("model: invalid task size")
	ErrInvalidEnergy   = errors.New("model: invalid task energy")
)

type TaskType string

const (
	TaskTypeTask     TaskType = "task"
	TaskTypeQuestion TaskType = "question"
	TaskTypeIdea     TaskType = "idea"
	TaskTypeLink     TaskType = "link"
)

func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeTask, TaskTypeQuestion, TaskTypeIdea, TaskTypeLink:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Weight orders priorities low < medium < high < urgent as 1..4.
func (p Priority) Weight() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Size is a rough effort estimate. Hour equivalents depend on the consumer:
// the playlist, weekly grid and insights packages each keep their own table.
type Size string

const (
	SizeS Size = "S"
	SizeM Size = "M"
	SizeL Size = "L"
)

func (s Size) IsValid() bool {
	switch s {
	case SizeS, SizeM, SizeL:
		return true
	default:
		return false
	}
}

type Energy string

const (
	EnergyDeep     Energy = "deep"
	EnergyLight    Energy = "light"
	EnergyCreative Energy = "creative"
	EnergyAdmin    Energy = "admin"
	EnergyLearning Energy = "learning"
)

// Energies lists all energy types in display order.
var Energies = []Energy{EnergyDeep, EnergyLight, EnergyCreative, EnergyAdmin, EnergyLearning}

func (e Energy) IsValid() bool {
	switch e {
	case EnergyDeep, EnergyLight, EnergyCreative, EnergyAdmin, EnergyLearning:
		return true
	default:
		return false
	}
}

type Subtask struct {
	ID        string
	Text      string
	Completed bool
}

type Task struct {
	ID          string
	Type        TaskType
	Title       string
	Description string
	Content     string
	Subtasks    []Subtask
	Tags        []string
	Priority    Priority
	Size        Size   // empty when not estimated
	Energy      Energy // empty when not classified
	DueDate     *time.Time
	CreatedAt   time.Time
	Completed   bool
	Archived    bool
	ArchivedAt  *time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.Size != "" && !t.Size.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSize, t.Size)
	}
	if t.Energy != "" && !t.Energy.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidEnergy, t.Energy)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.Archived && t.ArchivedAt == nil {
		return errors.New("model: archived_at is required when task is archived")
	}
	if !t.Archived && t.ArchivedAt != nil {
		return errors.New("model: archived_at must be nil when task is not archived")
	}
	return nil
}

// Active reports whether the task belongs in playlists and the weekly grid.
func (t Task) Active() bool {
	return !t.Completed && !t.Archived
}

func (t Task) HasTag(name string) bool {
	for _, tag := range t.Tags {
		if strings.EqualFold(tag, name) {
			return true
		}
	}
	return false
}

// DueOn compares the due date with the given day by calendar date only.
func (t Task) DueOn(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return SameDay(*t.DueDate, day)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EndOfDay is the instant used for due dates resolved from day-granular input.
func EndOfDay(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 23, 59, 59, 999000000, day.Location())
}

func StartOfDay(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location())
}
