package insights

import (
	"testing"
	"time"

	"github.com/palolo875/kairu/internal/model"
)

// A Monday morning inside the peak window.
var statsNow = time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)

func historyTask(id string, createdAt time.Time, energy model.Energy, size model.Size, completed bool) model.Task {
	return model.Task{
		ID:        id,
		Type:      model.TaskTypeTask,
		Title:     id,
		Priority:  model.PriorityMedium,
		Energy:    energy,
		Size:      size,
		CreatedAt: createdAt,
		Completed: completed,
	}
}

func TestCalculateBasicStats(t *testing.T) {
	morning := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	tasks := []model.Task{
		historyTask("a", morning, model.EnergyDeep, model.SizeM, true),
		historyTask("b", evening, model.EnergyDeep, model.SizeL, true),
		historyTask("c", evening, model.EnergyAdmin, model.SizeS, true),
		historyTask("d", morning, model.EnergyLight, model.SizeS, false),
	}

	s := Calculate(tasks, statsNow)
	if s.TotalTasks != 4 || s.CompletedTasks != 3 {
		t.Fatalf("expected 3/4 completed, got %d/%d", s.CompletedTasks, s.TotalTasks)
	}
	if s.CompletionRate != 75 {
		t.Fatalf("expected completion rate 75, got %v", s.CompletionRate)
	}
	// M deep = 2h + L deep = 4h.
	if s.DeepWorkHours != 6 {
		t.Fatalf("expected 6 deep-work hours, got %d", s.DeepWorkHours)
	}
	if s.EnergyDistribution[model.EnergyDeep] != 2 || s.EnergyDistribution[model.EnergyAdmin] != 1 {
		t.Fatalf("unexpected energy distribution %+v", s.EnergyDistribution)
	}
	// Only task "a" was both completed and created between 9h and 12h.
	if got := s.PeakTimeCompletionRate; got < 33.3 || got > 33.4 {
		t.Fatalf("expected peak rate 1/3, got %v", got)
	}
	pc := s.PriorityCompletion[model.PriorityMedium]
	if pc.Total != 4 || pc.Completed != 3 {
		t.Fatalf("unexpected priority completion %+v", pc)
	}
	if s.TypeDistribution[model.TaskTypeTask] != 3 {
		t.Fatalf("unexpected type distribution %+v", s.TypeDistribution)
	}
}

func TestCalculateIgnoresArchivedTasks(t *testing.T) {
	archived := historyTask("gone", statsNow, model.EnergyDeep, model.SizeL, true)
	archived.Archived = true
	archivedAt := statsNow
	archived.ArchivedAt = &archivedAt

	s := Calculate([]model.Task{archived}, statsNow)
	if s.TotalTasks != 0 || s.DeepWorkHours != 0 {
		t.Fatalf("archived tasks must not count, got %+v", s)
	}
}

func TestCalculateEmptySet(t *testing.T) {
	s := Calculate(nil, statsNow)
	if s.CompletionRate != 0 || s.DeepWorkPercentage != 0 || s.PeakTimeCompletionRate != 0 {
		t.Fatalf("expected zero rates, got %+v", s)
	}
	if len(s.WeeklyTrend) != trendWeeks {
		t.Fatalf("expected %d trend points, got %d", trendWeeks, len(s.WeeklyTrend))
	}
}

func TestCalculateUnsizedDeepTaskCountsAsMedium(t *testing.T) {
	s := Calculate([]model.Task{historyTask("a", statsNow, model.EnergyDeep, "", true)}, statsNow)
	if s.DeepWorkHours != 2 {
		t.Fatalf("expected 2h for an unsized task, got %d", s.DeepWorkHours)
	}
}

func TestWeeklyTrendBucketsAndLabels(t *testing.T) {
	tasks := []model.Task{
		historyTask("this-week", statsNow, model.EnergyDeep, model.SizeM, true),
		historyTask("last-week", statsNow.AddDate(0, 0, -7), model.EnergyLight, model.SizeS, true),
		historyTask("three-back", statsNow.AddDate(0, 0, -21), model.EnergyDeep, model.SizeL, true),
		historyTask("too-old", statsNow.AddDate(0, 0, -35), model.EnergyDeep, model.SizeL, true),
		historyTask("open", statsNow, model.EnergyDeep, model.SizeM, false),
	}

	trend := Calculate(tasks, statsNow).WeeklyTrend
	labels := []string{"S-3", "S-2", "S-1", "S"}
	for i, p := range trend {
		if p.Label != labels[i] {
			t.Fatalf("expected label %q at %d, got %q", labels[i], i, p.Label)
		}
	}

	if trend[3].Completed != 1 || trend[3].DeepWorkHours != 2 {
		t.Fatalf("unexpected current week %+v", trend[3])
	}
	if trend[2].Completed != 1 || trend[2].DeepWorkHours != 0 {
		t.Fatalf("unexpected last week %+v", trend[2])
	}
	if trend[0].Completed != 1 || trend[0].DeepWorkHours != 4 {
		t.Fatalf("unexpected S-3 %+v", trend[0])
	}
	if trend[1].Completed != 0 {
		t.Fatalf("expected an empty S-2, got %+v", trend[1])
	}
}

func TestCardsThresholds(t *testing.T) {
	s := Stats{
		TotalTasks:             10,
		CompletedTasks:         8,
		CompletionRate:         80,
		DeepWorkHours:          6,
		DeepWorkPercentage:     30,
		PeakTimeCompletionRate: 20,
		WeeklyTrend: []WeekPoint{
			{Label: "S-3", Completed: 2},
			{Label: "S-2", Completed: 4},
			{Label: "S-1", Completed: 3},
			{Label: "S", Completed: 3},
		},
	}

	cards := Cards(s)
	if len(cards) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(cards))
	}

	byID := make(map[string]Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	if c := byID["completion-rate"]; c.Trend != TrendUp || c.Value != "80%" {
		t.Fatalf("unexpected completion card %+v", c)
	}
	if c := byID["deep-work"]; c.Trend != TrendStable || c.Value != "6h" {
		t.Fatalf("unexpected deep-work card %+v", c)
	}
	if c := byID["peak-time"]; c.Trend != TrendDown {
		t.Fatalf("unexpected peak card %+v", c)
	}
	if c := byID["weekly-average"]; c.Value != "3" {
		t.Fatalf("unexpected average card %+v", c)
	}
}
