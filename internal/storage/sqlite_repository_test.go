package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "kairu-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func sampleTask(t *testing.T, id string) Task {
	t.Helper()
	due := parseRFC3339(t, "2026-03-03T23:59:59Z")
	return Task{
		ID:          id,
		Type:        "task",
		Title:       "Réunion Jean",
		Description: "point hebdo",
		Content:     "notes libres",
		Priority:    "high",
		Size:        "S",
		Energy:      "deep",
		Tags:        []string{"ProjetX", "equipe"},
		Subtasks: []Subtask{
			{ID: id + "-s1", Text: "préparer l'ordre du jour"},
			{ID: id + "-s2", Text: "réserver la salle", Completed: true},
		},
		DueAt:     &due,
		CreatedAt: parseRFC3339(t, "2026-03-02T10:30:00Z"),
	}
}

func TestTaskCRUDAndChildren(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	task := sampleTask(t, "task-1")
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Title != task.Title || got.Priority != "high" || got.Energy != "deep" {
		t.Fatalf("unexpected task get result: %#v", got)
	}
	if !reflect.DeepEqual(got.Tags, task.Tags) {
		t.Fatalf("tag order not preserved: %v", got.Tags)
	}
	if len(got.Subtasks) != 2 || got.Subtasks[0].ID != "task-1-s1" || !got.Subtasks[1].Completed {
		t.Fatalf("unexpected subtasks: %#v", got.Subtasks)
	}
	if got.DueAt == nil || !got.DueAt.Equal(*task.DueAt) {
		t.Fatalf("unexpected due date: %v", got.DueAt)
	}

	// Update replaces children wholesale.
	task.Title = "Réunion Jean (reportée)"
	task.Tags = []string{"equipe"}
	task.Subtasks = task.Subtasks[:1]
	task.Completed = true
	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("update task: %v", err)
	}
	got, err = repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if !got.Completed || len(got.Tags) != 1 || len(got.Subtasks) != 1 {
		t.Fatalf("update did not replace children: %#v", got)
	}

	if err := repo.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := repo.GetTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDueDateKeepsCalendarDayAcrossZones(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	// Just before midnight west of Greenwich. Normalising to UTC on the way
	// into the database would land this on the next calendar day.
	montreal := time.FixedZone("UTC-5", -5*60*60)
	due := time.Date(2026, 3, 3, 23, 59, 59, 999000000, montreal)
	task := sampleTask(t, "task-tz")
	task.DueAt = &due
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.DueAt == nil || !got.DueAt.Equal(due) {
		t.Fatalf("due instant drifted: %v", got.DueAt)
	}
	y, m, d := got.DueAt.Date()
	if y != 2026 || m != time.March || d != 3 {
		t.Fatalf("calendar day shifted across the round trip: %v", got.DueAt)
	}
}

func TestTaskListFilters(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	open := sampleTask(t, "open")
	open.Tags = []string{"ProjetX"}

	done := sampleTask(t, "done")
	done.Completed = true
	done.Tags = nil
	done.Subtasks = nil

	archived := sampleTask(t, "archived")
	archived.Archived = true
	archivedAt := parseRFC3339(t, "2026-03-04T08:00:00Z")
	archived.ArchivedAt = &archivedAt
	archived.Tags = nil
	archived.Subtasks = nil

	for _, task := range []Task{open, done, archived} {
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("create %s: %v", task.ID, err)
		}
	}

	no := false
	yes := true
	active, err := repo.ListTasks(ctx, TaskListFilter{Archived: &no})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 unarchived tasks, got %d", len(active))
	}

	completed, err := repo.ListTasks(ctx, TaskListFilter{Completed: &yes})
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != "done" {
		t.Fatalf("unexpected completed list: %#v", completed)
	}

	tagged, err := repo.ListTasks(ctx, TaskListFilter{Tag: "ProjetX"})
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if len(tagged) != 1 || tagged[0].ID != "open" {
		t.Fatalf("unexpected tagged list: %#v", tagged)
	}
}

func TestNoteCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	day := parseRFC3339(t, "2026-03-02T00:00:00Z")

	note := Note{
		ID:        "note-1",
		Date:      day,
		Intention: "Terminer la maquette",
		Notebook:  "journal de bord",
		Playlist:  []string{"task-b", "task-a"},
		Checks: []EnergyCheck{
			{ID: "check-1", Timestamp: parseRFC3339(t, "2026-03-02T09:00:00Z"), Level: 4},
			{ID: "check-2", Timestamp: parseRFC3339(t, "2026-03-02T15:00:00Z"), Level: 2, Note: "coup de barre"},
		},
	}
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("create note: %v", err)
	}

	got, err := repo.GetNoteByDate(ctx, day)
	if err != nil {
		t.Fatalf("get note by date: %v", err)
	}
	if got.ID != "note-1" || got.Intention != note.Intention {
		t.Fatalf("unexpected note: %#v", got)
	}
	if !reflect.DeepEqual(got.Playlist, note.Playlist) {
		t.Fatalf("playlist order not preserved: %v", got.Playlist)
	}
	if len(got.Checks) != 2 || got.Checks[1].Level != 2 || got.Checks[1].Note != "coup de barre" {
		t.Fatalf("unexpected checks: %#v", got.Checks)
	}

	got.Intention = "Relire le contrat"
	got.Checks = got.Checks[:1]
	if err := repo.UpdateNote(ctx, got); err != nil {
		t.Fatalf("update note: %v", err)
	}
	updated, err := repo.GetNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if updated.Intention != "Relire le contrat" || len(updated.Checks) != 1 {
		t.Fatalf("unexpected updated note: %#v", updated)
	}

	if _, err := repo.GetNoteByDate(ctx, day.AddDate(0, 0, 1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an empty day, got %v", err)
	}

	if err := repo.DeleteNote(ctx, "note-1"); err != nil {
		t.Fatalf("delete note: %v", err)
	}
}

func TestListNotesByRange(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for i, id := range []string{"n1", "n2", "n3"} {
		note := Note{ID: id, Date: parseRFC3339(t, "2026-03-02T00:00:00Z").AddDate(0, 0, i*7)}
		if err := repo.CreateNote(ctx, note); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	from := parseRFC3339(t, "2026-03-02T00:00:00Z")
	to := from.AddDate(0, 0, 7)
	notes, err := repo.ListNotes(ctx, NoteListFilter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != "n1" {
		t.Fatalf("unexpected range result: %#v", notes)
	}
}

func TestProfileAndSettingsUpsert(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.GetProfile(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before save, got %v", err)
	}

	profile := Profile{
		Chronotype:   "morning",
		Peaks:        []string{"09:00-12:00"},
		Dips:         []string{"14:00-16:00"},
		FocusMinutes: 90,
		BreakMinutes: 15,
		WorkDays:     []int{1, 2, 3, 4, 5},
	}
	if err := repo.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	profile.Chronotype = "evening"
	profile.Peaks = []string{"17:00-20:00"}
	if err := repo.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("second save must upsert: %v", err)
	}
	got, err := repo.GetProfile(ctx)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if !reflect.DeepEqual(got, profile) {
		t.Fatalf("profile round trip mismatch:\n got %#v\nwant %#v", got, profile)
	}

	settings := Settings{AutoArchive: true, AutoArchiveDays: 30, EnergyTracking: true, RealityCheck: true}
	if err := repo.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	settings.SimplifiedMode = true
	if err := repo.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("upsert settings: %v", err)
	}
	gotSettings, err := repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if gotSettings != settings {
		t.Fatalf("settings round trip mismatch: %#v", gotSettings)
	}
}
