package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/palolo875/kairu/internal/model"
)

// The daily playlist uses its own, simpler score than the hybrid backlog
// ranking: it leans harder on raw urgency and task age so stale work
// eventually surfaces.

const (
	playlistEffortCutoff = 10 // effort units above which the playlist shrinks
	playlistCountBusy    = 3
	playlistCountCalm    = 5
	maxAgeBonus          = 20
)

type PlaylistEntry struct {
	Task  model.Task
	Score int
}

// PlaylistScore computes the daily-list score: priority weight ×10, due-date
// bonus, capped age bonus and a small-task boost.
func PlaylistScore(task model.Task, now time.Time) int {
	score := task.Priority.Weight() * 10

	if task.DueDate != nil {
		daysUntilDue := int(math.Ceil(task.DueDate.Sub(now).Hours() / 24))
		switch {
		case daysUntilDue <= 0:
			score += 40
		case daysUntilDue <= 1:
			score += 30
		case daysUntilDue <= 3:
			score += 20
		}
	}

	ageInDays := int(math.Ceil(now.Sub(task.CreatedAt).Hours() / 24))
	if ageInDays > 0 {
		bonus := ageInDays * 2
		if bonus > maxAgeBonus {
			bonus = maxAgeBonus
		}
		score += bonus
	}

	switch task.Size {
	case model.SizeS:
		score += 5
	case model.SizeM:
		score += 3
	case model.SizeL:
		score += 1
	}

	return score
}

// effortUnits is the playlist's own size mapping; unsized tasks count as a
// medium effort.
func effortUnits(size model.Size) int {
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

// BuildPlaylist selects the highest-scoring active tasks for today. When the
// active backlog's total effort exceeds the cutoff the list shrinks from five
// to three entries. Ties keep the original collection order.
func BuildPlaylist(tasks []model.Task, now time.Time) []PlaylistEntry {
	entries := make([]PlaylistEntry, 0, len(tasks))
	totalEffort := 0
	for _, task := range tasks {
		if !task.Active() {
			continue
		}
		entries = append(entries, PlaylistEntry{Task: task, Score: PlaylistScore(task, now)})
		totalEffort += effortUnits(task.Size)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	count := playlistCountCalm
	if totalEffort > playlistEffortCutoff {
		count = playlistCountBusy
	}
	if len(entries) > count {
		entries = entries[:count]
	}
	return entries
}

// SuggestTimeSlot proposes a start hour for the task: the next peak for deep
// work, the next dip for light work, otherwise the coming hour. When no window
// remains today the suggestion wraps to the first configured window.
func SuggestTimeSlot(task model.Task, profile model.EnergyProfile, now time.Time) int {
	hour := now.Hour()

	switch task.Energy {
	case model.EnergyDeep:
		if slot, ok := nextHourAfter(profile.PeakHours(), hour); ok {
			return slot
		}
	case model.EnergyLight:
		if slot, ok := nextHourAfter(profile.DipHours(), hour); ok {
			return slot
		}
	}
	return (hour + 1) % 24
}

func nextHourAfter(hours []int, current int) (int, bool) {
	if len(hours) == 0 {
		return 0, false
	}
	for _, h := range hours {
		if h > current {
			return h, true
		}
	}
	return hours[0], true
}
