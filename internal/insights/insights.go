// Package insights computes productivity statistics and dashboard cards from
// the task history. Archived tasks never count; "now" is injected so the
// four-week trend is deterministic under test.
package insights

import (
	"fmt"
	"math"
	"time"

	"github.com/palolo875/kairu/internal/model"
	"github.com/palolo875/kairu/internal/weekly"
)

const (
	trendWeeks    = 4
	peakStartHour = 9
	peakEndHour   = 12 // inclusive
)

// completedHours estimates hours for the history stats. Coarser than the
// weekly grid's table on purpose: done work rounds up to full hours.
func completedHours(size model.Size) int {
	switch size {
	case model.SizeS:
		return 1
	case model.SizeM:
		return 2
	case model.SizeL:
		return 4
	default:
		return 2
	}
}

type PriorityCompletion struct {
	Total     int
	Completed int
}

// WeekPoint is one point of the trailing four-week trend. Labels count back
// from the current week: "S-3", "S-2", "S-1", "S".
type WeekPoint struct {
	Label         string
	Completed     int
	DeepWorkHours int
}

type Stats struct {
	TotalTasks             int
	CompletedTasks         int
	CompletionRate         float64 // 0..100
	DeepWorkHours          int
	DeepWorkPercentage     float64
	PeakTimeCompletionRate float64
	EnergyDistribution     map[model.Energy]int
	PriorityCompletion     map[model.Priority]PriorityCompletion
	TypeDistribution       map[model.TaskType]int
	WeeklyTrend            []WeekPoint
}

// Calculate derives all productivity stats from the task set.
func Calculate(tasks []model.Task, now time.Time) Stats {
	s := Stats{
		EnergyDistribution: make(map[model.Energy]int),
		PriorityCompletion: make(map[model.Priority]PriorityCompletion),
		TypeDistribution:   make(map[model.TaskType]int),
	}

	peakCompleted := 0
	for _, task := range tasks {
		if task.Archived {
			continue
		}
		s.TotalTasks++

		pc := s.PriorityCompletion[task.Priority]
		pc.Total++

		if task.Completed {
			s.CompletedTasks++
			pc.Completed++
			s.EnergyDistribution[task.Energy]++
			s.TypeDistribution[task.Type]++
			if task.Energy == model.EnergyDeep {
				s.DeepWorkHours += completedHours(task.Size)
			}
			if hour := task.CreatedAt.Hour(); hour >= peakStartHour && hour <= peakEndHour {
				peakCompleted++
			}
		}
		s.PriorityCompletion[task.Priority] = pc
	}

	if s.TotalTasks > 0 {
		s.CompletionRate = float64(s.CompletedTasks) / float64(s.TotalTasks) * 100
	}
	if s.CompletedTasks > 0 {
		s.DeepWorkPercentage = float64(s.EnergyDistribution[model.EnergyDeep]) / float64(s.CompletedTasks) * 100
		s.PeakTimeCompletionRate = float64(peakCompleted) / float64(s.CompletedTasks) * 100
	}

	s.WeeklyTrend = weeklyTrend(tasks, now)
	return s
}

func weeklyTrend(tasks []model.Task, now time.Time) []WeekPoint {
	points := make([]WeekPoint, 0, trendWeeks)
	currentWeek := weekly.StartOfWeek(now)

	for i := trendWeeks - 1; i >= 0; i-- {
		weekStart := currentWeek.AddDate(0, 0, -7*i)
		weekEnd := weekStart.AddDate(0, 0, 7)

		point := WeekPoint{Label: "S"}
		if i > 0 {
			point.Label = fmt.Sprintf("S-%d", i)
		}

		for _, task := range tasks {
			if task.Archived || !task.Completed {
				continue
			}
			if task.CreatedAt.Before(weekStart) || !task.CreatedAt.Before(weekEnd) {
				continue
			}
			point.Completed++
			if task.Energy == model.EnergyDeep {
				point.DeepWorkHours += completedHours(task.Size)
			}
		}
		points = append(points, point)
	}
	return points
}

type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// Card is one dashboard tile.
type Card struct {
	ID          string
	Title       string
	Value       string
	Description string
	Trend       TrendDirection
	TrendValue  string
	Icon        string
}

func direction(value, up, stable float64) TrendDirection {
	switch {
	case value > up:
		return TrendUp
	case value > stable:
		return TrendStable
	default:
		return TrendDown
	}
}

// Cards renders the four dashboard tiles from computed stats.
func Cards(s Stats) []Card {
	weeklySum := 0
	for _, p := range s.WeeklyTrend {
		weeklySum += p.Completed
	}
	weeklyAverage := 0
	if len(s.WeeklyTrend) > 0 {
		weeklyAverage = int(math.Round(float64(weeklySum) / float64(len(s.WeeklyTrend))))
	}

	return []Card{
		{
			ID:          "completion-rate",
			Title:       "Taux de complétion",
			Value:       fmt.Sprintf("%d%%", int(math.Round(s.CompletionRate))),
			Description: fmt.Sprintf("%d tâches complétées sur %d", s.CompletedTasks, s.TotalTasks),
			Trend:       direction(s.CompletionRate, 70, 50),
			TrendValue:  fmt.Sprintf("%d complétées", s.CompletedTasks),
			Icon:        "✅",
		},
		{
			ID:          "deep-work",
			Title:       "Deep Work",
			Value:       fmt.Sprintf("%dh", s.DeepWorkHours),
			Description: fmt.Sprintf("%d%% des tâches en Deep Work", int(math.Round(s.DeepWorkPercentage))),
			Trend:       direction(s.DeepWorkPercentage, 40, 25),
			TrendValue:  fmt.Sprintf("%d%% en pic", int(math.Round(s.DeepWorkPercentage))),
			Icon:        "🧠",
		},
		{
			ID:          "peak-time",
			Title:       "Productivité en pic",
			Value:       fmt.Sprintf("%d%%", int(math.Round(s.PeakTimeCompletionRate))),
			Description: "Tâches complétées entre 9h-12h",
			Trend:       direction(s.PeakTimeCompletionRate, 60, 40),
			TrendValue:  "Heures optimales",
			Icon:        "⚡",
		},
		{
			ID:          "weekly-average",
			Title:       "Moyenne hebdomadaire",
			Value:       fmt.Sprintf("%d", weeklyAverage),
			Description: "Tâches complétées par semaine",
			Trend:       TrendStable,
			TrendValue:  "4 dernières semaines",
			Icon:        "📊",
		},
	}
}
