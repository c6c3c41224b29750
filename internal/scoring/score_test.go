package scoring

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/palolo875/kairu/internal/model"
)

var scoreNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) // Monday 10:00

func baseTask(id string) model.Task {
	return model.Task{
		ID:        id,
		Type:      model.TaskTypeTask,
		Title:     "task " + id,
		Priority:  model.PriorityMedium,
		CreatedAt: scoreNow.AddDate(0, 0, -1),
	}
}

func TestOpportunityOverdueUrgentSmall(t *testing.T) {
	yesterday := scoreNow.AddDate(0, 0, -1)
	task := baseTask("t1")
	task.Priority = model.PriorityUrgent
	task.Size = model.SizeS
	task.DueDate = &yesterday

	// 50 + 40 (urgent) - 30 (overdue) + 10 (S) = 70
	if got := Opportunity(task, scoreNow); got != 70 {
		t.Fatalf("expected opportunity 70, got %d", got)
	}
}

func TestOpportunityDueDateBands(t *testing.T) {
	cases := []struct {
		hoursUntil float64
		want       int
	}{
		{-1, 50 + 20 - 30},  // overdue medium task
		{12, 50 + 20 + 20},  // within 24h
		{36, 50 + 20 + 15},  // within 48h
		{60, 50 + 20 + 10},  // within 72h
		{100, 50 + 20},      // far out, no adjustment
	}
	for _, tc := range cases {
		due := scoreNow.Add(time.Duration(tc.hoursUntil * float64(time.Hour)))
		task := baseTask("t")
		task.DueDate = &due
		if got := Opportunity(task, scoreNow); got != tc.want {
			t.Fatalf("due in %.0fh: expected %d, got %d", tc.hoursUntil, tc.want, got)
		}
	}
}

func TestOpportunityTagBonuses(t *testing.T) {
	task := baseTask("t")
	task.Tags = []string{"deepwork", "urgent"}
	// 50 + 20 (medium) + 15 (deepwork) + 10 (urgent tag) = 95
	if got := Opportunity(task, scoreNow); got != 95 {
		t.Fatalf("expected 95, got %d", got)
	}
}

func TestOpportunityClampsToHundred(t *testing.T) {
	soon := scoreNow.Add(2 * time.Hour)
	task := baseTask("t")
	task.Priority = model.PriorityUrgent
	task.Size = model.SizeS
	task.DueDate = &soon
	task.Tags = []string{"deepwork", "urgent"}
	// raw 50+40+20+10+15+10 = 145, clamped
	if got := Opportunity(task, scoreNow); got != 100 {
		t.Fatalf("expected clamp at 100, got %d", got)
	}
}

func TestEnergyFitDeepInPeak(t *testing.T) {
	profile := model.EnergyProfile{Peaks: []model.TimeRange{{Start: "09:00", End: "12:00"}}}
	task := baseTask("t")
	task.Energy = model.EnergyDeep

	// 50 + 30 (in peak) + 10 (deep flat bonus) = 90
	if got := EnergyFit(task, profile, scoreNow); got != 90 {
		t.Fatalf("expected energy score 90, got %d", got)
	}
}

func TestEnergyFitDeepOutsidePeak(t *testing.T) {
	profile := model.EnergyProfile{Peaks: []model.TimeRange{{Start: "09:00", End: "12:00"}}}
	task := baseTask("t")
	task.Energy = model.EnergyDeep
	evening := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	// 50 - 20 (outside peak) + 10 = 40
	if got := EnergyFit(task, profile, evening); got != 40 {
		t.Fatalf("expected energy score 40, got %d", got)
	}
}

func TestEnergyFitLightOutsidePeak(t *testing.T) {
	profile := model.EnergyProfile{Peaks: []model.TimeRange{{Start: "09:00", End: "12:00"}}}
	task := baseTask("t")
	task.Energy = model.EnergyLight
	evening := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	// 50 + 20 (light outside peak) + 3 = 73
	if got := EnergyFit(task, profile, evening); got != 73 {
		t.Fatalf("expected energy score 73, got %d", got)
	}
}

func TestEnergyFitDipWindow(t *testing.T) {
	profile := model.EnergyProfile{
		Peaks: []model.TimeRange{{Start: "09:00", End: "12:00"}},
		Dips:  []model.TimeRange{{Start: "14:00", End: "16:00"}},
	}
	afternoon := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	admin := baseTask("a")
	admin.Energy = model.EnergyAdmin
	// 50 + 15 (dip, admin) + 5 = 70
	if got := EnergyFit(admin, profile, afternoon); got != 70 {
		t.Fatalf("expected admin dip score 70, got %d", got)
	}

	deep := baseTask("d")
	deep.Energy = model.EnergyDeep
	// 50 - 20 (outside peak) - 25 (dip) + 10 = 15
	if got := EnergyFit(deep, profile, afternoon); got != 15 {
		t.Fatalf("expected deep dip score 15, got %d", got)
	}
}

func TestEnergyFitNoEnergyIsNeutral(t *testing.T) {
	profile := model.EnergyProfile{Peaks: []model.TimeRange{{Start: "09:00", End: "12:00"}}}
	task := baseTask("t")
	if got := EnergyFit(task, profile, scoreNow); got != 50 {
		t.Fatalf("expected neutral 50 for unclassified task, got %d", got)
	}
}

func TestScoreBoundsSweep(t *testing.T) {
	profile := model.EnergyProfile{
		Peaks: []model.TimeRange{{Start: "09:00", End: "12:00"}},
		Dips:  []model.TimeRange{{Start: "14:00", End: "16:00"}},
	}
	priorities := []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityUrgent}
	sizes := []model.Size{"", model.SizeS, model.SizeM, model.SizeL}
	energies := []model.Energy{"", model.EnergyDeep, model.EnergyLight, model.EnergyCreative, model.EnergyAdmin, model.EnergyLearning}
	dues := []*time.Time{nil}
	for _, offset := range []time.Duration{-72 * time.Hour, -time.Hour, 6 * time.Hour, 30 * time.Hour, 200 * time.Hour} {
		d := scoreNow.Add(offset)
		dues = append(dues, &d)
	}

	for hour := 0; hour < 24; hour++ {
		at := time.Date(2026, 3, 2, hour, 0, 0, 0, time.UTC)
		for _, p := range priorities {
			for _, s := range sizes {
				for _, e := range energies {
					for _, due := range dues {
						task := baseTask(fmt.Sprintf("%s-%s-%s-%d", p, s, e, hour))
						task.Priority = p
						task.Size = s
						task.Energy = e
						task.DueDate = due
						task.Tags = []string{"deepwork", "urgent"}
						for _, score := range []int{
							Opportunity(task, at),
							EnergyFit(task, profile, at),
							Hybrid(task, profile, at, DefaultWeights),
						} {
							if score < 0 || score > 100 {
								t.Fatalf("score %d out of bounds for %+v at hour %d", score, task, hour)
							}
						}
					}
				}
			}
		}
	}
}

func TestHybridWeightsAndRounding(t *testing.T) {
	profile := model.EnergyProfile{Peaks: []model.TimeRange{{Start: "09:00", End: "12:00"}}}
	task := baseTask("t")
	task.Energy = model.EnergyDeep

	opportunity := Opportunity(task, scoreNow) // 70 (medium baseline)
	energy := EnergyFit(task, profile, scoreNow)

	want := (opportunity*70 + energy*30) / 100
	rem := (opportunity*70 + energy*30) % 100
	if rem >= 50 {
		want++
	}
	if got := Hybrid(task, profile, scoreNow, DefaultWeights); got != want {
		t.Fatalf("expected hybrid %d, got %d", want, got)
	}

	// All-opportunity weighting reproduces the opportunity score exactly.
	if got := Hybrid(task, profile, scoreNow, Weights{Opportunity: 100}); got != opportunity {
		t.Fatalf("expected %d with 100/0 weights, got %d", opportunity, got)
	}
}

func TestRankIsStableAndDeterministic(t *testing.T) {
	profile := model.EnergyProfile{Peaks: []model.TimeRange{{Start: "09:00", End: "12:00"}}}
	tasks := []model.Task{baseTask("a"), baseTask("b"), baseTask("c")}
	tasks[2].Priority = model.PriorityUrgent

	first := Rank(tasks, profile, scoreNow, DefaultWeights)
	if first[0].ID != "c" {
		t.Fatalf("expected urgent task first, got %s", first[0].ID)
	}
	// a and b score identically; original order must hold.
	if first[1].ID != "a" || first[2].ID != "b" {
		t.Fatalf("tie-break must keep collection order, got %s,%s", first[1].ID, first[2].ID)
	}

	second := Rank(tasks, profile, scoreNow, DefaultWeights)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("re-ranking an unchanged set must produce an identical ordering")
	}

	// Rank must not mutate its input.
	if tasks[0].ID != "a" || tasks[2].ID != "c" {
		t.Fatal("input slice order was mutated")
	}
}
