// Package scoring ranks tasks for a given moment. Every function is a pure
// computation over the task, the energy profile and a caller-supplied "now".
package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/palolo875/kairu/internal/model"
)

// Weights balances the hybrid score between urgency and energy fit. Values are
// percentages and should sum to 100.
type Weights struct {
	Opportunity int
	Energy      int
}

var DefaultWeights = Weights{Opportunity: 70, Energy: 30}

const scoreBaseline = 50

// Opportunity scores urgency: priority, deadline pressure, effort size and a
// couple of high-signal tags. Result is clamped to [0,100].
func Opportunity(task model.Task, now time.Time) int {
	score := scoreBaseline

	switch task.Priority {
	case model.PriorityUrgent:
		score += 40
	case model.PriorityHigh:
		score += 30
	case model.PriorityMedium:
		score += 20
	case model.PriorityLow:
		score += 10
	}

	if task.DueDate != nil {
		hoursUntilDue := task.DueDate.Sub(now).Hours()
		switch {
		case hoursUntilDue < 0:
			score -= 30
		case hoursUntilDue < 24:
			score += 20
		case hoursUntilDue < 48:
			score += 15
		case hoursUntilDue < 72:
			score += 10
		}
	}

	switch task.Size {
	case model.SizeS:
		score += 10
	case model.SizeM:
		score += 5
	case model.SizeL:
		score += 3
	}

	if task.HasTag("deepwork") {
		score += 15
	}
	if task.HasTag("urgent") {
		score += 10
	}

	return clamp(score)
}

// EnergyFit scores how well the task's energy type matches the profile at the
// current hour. Result is clamped to [0,100].
func EnergyFit(task model.Task, profile model.EnergyProfile, now time.Time) int {
	score := scoreBaseline
	hour := now.Hour()

	if len(profile.Peaks) > 0 {
		inPeak := profile.InPeak(hour)
		switch {
		case task.Energy == model.EnergyDeep && inPeak:
			score += 30
		case task.Energy == model.EnergyDeep && !inPeak:
			score -= 20
		case task.Energy == model.EnergyLight && !inPeak:
			score += 20
		}
	}

	if len(profile.Dips) > 0 && profile.InDip(hour) {
		switch task.Energy {
		case model.EnergyAdmin, model.EnergyLight:
			score += 15
		case model.EnergyDeep:
			score -= 25
		}
	}

	switch task.Energy {
	case model.EnergyDeep:
		score += 10
	case model.EnergyCreative:
		score += 8
	case model.EnergyLearning:
		score += 7
	case model.EnergyAdmin:
		score += 5
	case model.EnergyLight:
		score += 3
	}

	return clamp(score)
}

// Hybrid combines opportunity and energy fit into one 0..100 ranking score,
// rounded to the nearest integer.
func Hybrid(task model.Task, profile model.EnergyProfile, now time.Time, weights Weights) int {
	opportunity := Opportunity(task, now)
	energy := EnergyFit(task, profile, now)
	blended := float64(opportunity*weights.Opportunity+energy*weights.Energy) / 100
	return int(math.Round(blended))
}

// Rank orders the backlog by hybrid score, highest first. The sort is stable:
// equal scores keep the original collection order.
func Rank(tasks []model.Task, profile model.EnergyProfile, now time.Time, weights Weights) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	scores := make(map[string]int, len(out))
	for _, task := range out {
		scores[task.ID] = Hybrid(task, profile, now, weights)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return scores[out[i].ID] > scores[out[j].ID]
	})
	return out
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
