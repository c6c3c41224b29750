// Package weekly derives the heatmap grid, summary statistics and planning
// suggestions for one week of scheduled tasks. Everything here is a pure
// recomputation from the task set; nothing persists between calls.
package weekly

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/palolo875/kairu/internal/model"
)

const (
	// DaySentinel marks a suggestion that applies to the week as a whole.
	DaySentinel = -1

	overloadThreshold = 10.0 // hours per day before the day counts as overloaded
	adminThreshold    = 3.0
	deepMinimum       = 2.0
	deepDaysTarget    = 3
	fullDayHours      = 8.0 // hours that saturate a heatmap cell
)

type SuggestionType string

const (
	SuggestionBalance  SuggestionType = "balance"
	SuggestionOverload SuggestionType = "overload"
	SuggestionOptimize SuggestionType = "optimize"
)

type ActionType string

const ActionBlockTime ActionType = "block-time"

// Action is the structured follow-up a suggestion can carry, e.g. "block two
// hours of deep work".
type Action struct {
	Type   ActionType
	Energy model.Energy
	Hours  float64
}

type Suggestion struct {
	ID      string
	Type    SuggestionType
	Day     int // 0..6 offset from the week start, or DaySentinel
	Message string
	Action  *Action
}

// Cell is one (day, energy) slot of the 7×5 grid.
type Cell struct {
	Day        int
	Energy     model.Energy
	Tasks      []model.Task
	TotalHours float64
	Intensity  float64 // 0..100, hours relative to a full day
}

type Stats struct {
	TotalTasks     int
	CompletedTasks int
	HoursByEnergy  map[model.Energy]float64
	TotalHours     float64
	// Day offsets from the week start; DaySentinel when no day has any hours.
	MostProductiveDay  int
	LeastProductiveDay int
	BalanceScore       int // 0..100
}

type Week struct {
	WeekStart   time.Time
	Cells       []Cell
	Suggestions []Suggestion
	Stats       Stats
}

// estimatedHours is the planning estimate used by the grid. It deliberately
// differs from the playlist's effort units: the grid shows clock hours.
func estimatedHours(size model.Size) float64 {
	switch size {
	case model.SizeS:
		return 0.5
	case model.SizeM:
		return 2
	case model.SizeL:
		return 4
	default:
		return 1
	}
}

// StartOfWeek returns the Monday 00:00 preceding or equal to t, in t's
// location.
func StartOfWeek(t time.Time) time.Time {
	day := model.StartOfDay(t)
	offset := (int(day.Weekday()) - int(time.Monday) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// Generate builds the full weekly view for the seven days starting at
// weekStart. Archived tasks are excluded; completed tasks still occupy their
// cell so the week reflects what was planned.
func Generate(tasks []model.Task, weekStart time.Time) Week {
	weekStart = model.StartOfDay(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 7)

	cells := make([]Cell, 0, 7*len(model.Energies))
	for day := 0; day < 7; day++ {
		dayStart := weekStart.AddDate(0, 0, day)
		for _, energy := range model.Energies {
			cell := Cell{Day: day, Energy: energy}
			for _, task := range tasks {
				if task.Archived || task.DueDate == nil || task.Energy != energy {
					continue
				}
				if task.DueDate.Before(weekStart) || !task.DueDate.Before(weekEnd) {
					continue
				}
				if !model.SameDay(*task.DueDate, dayStart) {
					continue
				}
				cell.Tasks = append(cell.Tasks, task)
				cell.TotalHours += estimatedHours(task.Size)
			}
			cell.Intensity = math.Min(100, cell.TotalHours/fullDayHours*100)
			cells = append(cells, cell)
		}
	}

	return Week{
		WeekStart:   weekStart,
		Cells:       cells,
		Suggestions: suggest(cells),
		Stats:       stats(cells),
	}
}

func dayHours(cells []Cell, day int) float64 {
	total := 0.0
	for _, c := range cells {
		if c.Day == day {
			total += c.TotalHours
		}
	}
	return total
}

func cellFor(cells []Cell, day int, energy model.Energy) Cell {
	for _, c := range cells {
		if c.Day == day && c.Energy == energy {
			return c
		}
	}
	return Cell{Day: day, Energy: energy}
}

func suggest(cells []Cell) []Suggestion {
	// An empty week needs no advice.
	empty := true
	for _, c := range cells {
		if len(c.Tasks) > 0 {
			empty = false
			break
		}
	}
	if empty {
		return nil
	}

	var suggestions []Suggestion
	for day := 0; day < 7; day++ {
		total := dayHours(cells, day)
		if total > overloadThreshold {
			suggestions = append(suggestions, Suggestion{
				ID:      uuid.NewString(),
				Type:    SuggestionOverload,
				Day:     day,
				Message: fmt.Sprintf("Surcharge détectée : %.1fh prévues. Considérez redistribuer certaines tâches.", total),
			})
		}

		if admin := cellFor(cells, day, model.EnergyAdmin); admin.TotalHours > adminThreshold {
			suggestions = append(suggestions, Suggestion{
				ID:      uuid.NewString(),
				Type:    SuggestionBalance,
				Day:     day,
				Message: fmt.Sprintf("Trop de tâches admin (%.1fh). Bloquez du temps pour le Deep Work.", admin.TotalHours),
				Action:  &Action{Type: ActionBlockTime, Energy: model.EnergyDeep, Hours: 2},
			})
		}

		if deep := cellFor(cells, day, model.EnergyDeep); deep.TotalHours < deepMinimum {
			suggestions = append(suggestions, Suggestion{
				ID:      uuid.NewString(),
				Type:    SuggestionOptimize,
				Day:     day,
				Message: "Peu de Deep Work prévu. Bloquez 2-3h le matin pour les tâches importantes.",
				Action:  &Action{Type: ActionBlockTime, Energy: model.EnergyDeep, Hours: 2},
			})
		}
	}

	deepDays := 0
	for day := 0; day < 7; day++ {
		if cellFor(cells, day, model.EnergyDeep).TotalHours > 0 {
			deepDays++
		}
	}
	if deepDays < deepDaysTarget {
		suggestions = append(suggestions, Suggestion{
			ID:      uuid.NewString(),
			Type:    SuggestionBalance,
			Day:     DaySentinel,
			Message: fmt.Sprintf("Seulement %d jours avec du Deep Work. Visez au moins 3-4 jours pour une semaine équilibrée.", deepDays),
		})
	}

	return suggestions
}

func stats(cells []Cell) Stats {
	s := Stats{
		HoursByEnergy:      make(map[model.Energy]float64, len(model.Energies)),
		MostProductiveDay:  DaySentinel,
		LeastProductiveDay: DaySentinel,
	}

	for _, c := range cells {
		s.HoursByEnergy[c.Energy] += c.TotalHours
		s.TotalHours += c.TotalHours
	}

	bestHours, worstHours := 0.0, math.Inf(1)
	for day := 0; day < 7; day++ {
		total := dayHours(cells, day)
		if total > bestHours {
			bestHours = total
			s.MostProductiveDay = day
		}
		if total > 0 && total < worstHours {
			worstHours = total
			s.LeastProductiveDay = day
		}
	}

	seen := make(map[string]bool)
	for _, c := range cells {
		for _, task := range c.Tasks {
			if seen[task.ID] {
				continue
			}
			seen[task.ID] = true
			s.TotalTasks++
			if task.Completed {
				s.CompletedTasks++
			}
		}
	}

	if s.TotalHours > 0 {
		ideal := s.TotalHours / float64(len(model.Energies))
		variance := 0.0
		for _, energy := range model.Energies {
			variance += math.Abs(s.HoursByEnergy[energy] - ideal)
		}
		s.BalanceScore = int(math.Round(math.Max(0, 100-variance/s.TotalHours*100)))
	}

	return s
}
