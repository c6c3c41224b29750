package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/palolo875/kairu/internal/model"
	"github.com/palolo875/kairu/internal/storage"
)

func taskToRecord(t model.Task) storage.Task {
	rec := storage.Task{
		ID:          t.ID,
		Type:        string(t.Type),
		Title:       t.Title,
		Description: t.Description,
		Content:     t.Content,
		Priority:    string(t.Priority),
		Size:        string(t.Size),
		Energy:      string(t.Energy),
		Tags:        append([]string(nil), t.Tags...),
		DueAt:       t.DueDate,
		CreatedAt:   t.CreatedAt,
		Completed:   t.Completed,
		Archived:    t.Archived,
		ArchivedAt:  t.ArchivedAt,
	}
	for _, s := range t.Subtasks {
		rec.Subtasks = append(rec.Subtasks, storage.Subtask{ID: s.ID, Text: s.Text, Completed: s.Completed})
	}
	return rec
}

func taskFromRecord(rec storage.Task) model.Task {
	t := model.Task{
		ID:          rec.ID,
		Type:        model.TaskType(rec.Type),
		Title:       rec.Title,
		Description: rec.Description,
		Content:     rec.Content,
		Priority:    model.Priority(rec.Priority),
		Size:        model.Size(rec.Size),
		Energy:      model.Energy(rec.Energy),
		Tags:        append([]string(nil), rec.Tags...),
		DueDate:     rec.DueAt,
		CreatedAt:   rec.CreatedAt,
		Completed:   rec.Completed,
		Archived:    rec.Archived,
		ArchivedAt:  rec.ArchivedAt,
	}
	for _, s := range rec.Subtasks {
		t.Subtasks = append(t.Subtasks, model.Subtask{ID: s.ID, Text: s.Text, Completed: s.Completed})
	}
	return t
}

func noteToRecord(n model.DailyNote) storage.Note {
	rec := storage.Note{
		ID:        n.ID,
		Date:      n.Date,
		Intention: n.Intention,
		Notebook:  n.Notebook,
		Playlist:  append([]string(nil), n.Playlist...),
	}
	for _, c := range n.EnergyChecks {
		rec.Checks = append(rec.Checks, storage.EnergyCheck{ID: c.ID, Timestamp: c.Timestamp, Level: c.Level, Note: c.Note})
	}
	return rec
}

func noteFromRecord(rec storage.Note) model.DailyNote {
	n := model.DailyNote{
		ID:        rec.ID,
		Date:      rec.Date,
		Intention: rec.Intention,
		Notebook:  rec.Notebook,
		Playlist:  append([]string(nil), rec.Playlist...),
	}
	for _, c := range rec.Checks {
		n.EnergyChecks = append(n.EnergyChecks, model.EnergyCheck{ID: c.ID, Timestamp: c.Timestamp, Level: c.Level, Note: c.Note})
	}
	return n
}

func profileToRecord(p model.EnergyProfile) storage.Profile {
	rec := storage.Profile{
		Chronotype:   string(p.Chronotype),
		Peaks:        rangesToStrings(p.Peaks),
		Dips:         rangesToStrings(p.Dips),
		FocusMinutes: p.FocusMinutes,
		BreakMinutes: p.BreakMinutes,
	}
	for _, d := range p.WorkDays {
		rec.WorkDays = append(rec.WorkDays, int(d))
	}
	return rec
}

func profileFromRecord(rec storage.Profile) (model.EnergyProfile, error) {
	peaks, err := rangesFromStrings(rec.Peaks)
	if err != nil {
		return model.EnergyProfile{}, err
	}
	dips, err := rangesFromStrings(rec.Dips)
	if err != nil {
		return model.EnergyProfile{}, err
	}
	p := model.EnergyProfile{
		Chronotype:   model.Chronotype(rec.Chronotype),
		Peaks:        peaks,
		Dips:         dips,
		FocusMinutes: rec.FocusMinutes,
		BreakMinutes: rec.BreakMinutes,
	}
	for _, d := range rec.WorkDays {
		p.WorkDays = append(p.WorkDays, time.Weekday(d))
	}
	return p, nil
}

func rangesToStrings(ranges []model.TimeRange) []string {
	out := make([]string, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, r.Start+"-"+r.End)
	}
	return out
}

func rangesFromStrings(raw []string) ([]model.TimeRange, error) {
	out := make([]model.TimeRange, 0, len(raw))
	for _, s := range raw {
		start, end, ok := strings.Cut(s, "-")
		if !ok {
			return nil, fmt.Errorf("update: malformed time range %q", s)
		}
		out = append(out, model.TimeRange{Start: start, End: end})
	}
	return out, nil
}

func settingsToRecord(s model.Settings) storage.Settings {
	return storage.Settings{
		AutoArchive:     s.AutoArchive,
		AutoArchiveDays: s.AutoArchiveDays,
		EnergyTracking:  s.EnergyTracking,
		RealityCheck:    s.RealityCheck,
		SimplifiedMode:  s.SimplifiedMode,
	}
}

func settingsFromRecord(rec storage.Settings) model.Settings {
	return model.Settings{
		AutoArchive:     rec.AutoArchive,
		AutoArchiveDays: rec.AutoArchiveDays,
		EnergyTracking:  rec.EnergyTracking,
		RealityCheck:    rec.RealityCheck,
		SimplifiedMode:  rec.SimplifiedMode,
	}
}
