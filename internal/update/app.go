package update

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/palolo875/kairu/internal/insights"
	"github.com/palolo875/kairu/internal/model"
	"github.com/palolo875/kairu/internal/parser"
	"github.com/palolo875/kairu/internal/scoring"
	"github.com/palolo875/kairu/internal/search"
	"github.com/palolo875/kairu/internal/session"
	"github.com/palolo875/kairu/internal/storage"
	"github.com/palolo875/kairu/internal/weekly"
)

// App owns the domain flows behind the TUI: capture, scoring, weekly review,
// search and backup. It keeps the search indexes in sync with the repository.
type App struct {
	repo      storage.Repository
	index     *search.Index
	noteIndex *search.NoteIndex
	parser    *parser.Parser
	log       *slog.Logger
	cfg       RuntimeConfig
}

func NewApp(repo storage.Repository, cfg RuntimeConfig, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{
		repo:      repo,
		index:     search.NewIndex(),
		noteIndex: search.NewNoteIndex(),
		parser:    parser.New(),
		log:       log,
		cfg:       cfg,
	}
}

// CaptureOutcome reports what a capture attempt produced. When the parse is
// too ambiguous the task is not saved and Review carries the fields to
// confirm.
type CaptureOutcome struct {
	Task   model.Task
	Parse  parser.Result
	Saved  bool
	Review bool
}

// Preview parses without saving. The capture view calls this on every
// keystroke for the live field preview.
func (a *App) Preview(input string, now time.Time) parser.Result {
	return a.parser.Parse(input, now)
}

// Capture parses a shorthand line and saves the resulting task unless the
// parse confidence falls below the review threshold.
func (a *App) Capture(ctx context.Context, input string, now time.Time) (CaptureOutcome, error) {
	res := a.parser.Parse(input, now)
	if strings.TrimSpace(res.CleanText) == "" {
		return CaptureOutcome{}, fmt.Errorf("update: empty capture input")
	}
	if res.NeedsReview() {
		a.log.Info("capture needs review", "confidence", res.Confidence, "input", input)
		return CaptureOutcome{Task: parser.ToTask(res, now), Parse: res, Review: true}, nil
	}
	task, err := a.saveParsed(ctx, res, now)
	if err != nil {
		return CaptureOutcome{}, err
	}
	return CaptureOutcome{Task: task, Parse: res, Saved: true}, nil
}

// ConfirmCapture saves a previously reviewed parse as-is.
func (a *App) ConfirmCapture(ctx context.Context, res parser.Result, now time.Time) (model.Task, error) {
	return a.saveParsed(ctx, res, now)
}

func (a *App) saveParsed(ctx context.Context, res parser.Result, now time.Time) (model.Task, error) {
	task := parser.ToTask(res, now)
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	if err := a.repo.CreateTask(ctx, taskToRecord(task)); err != nil {
		return model.Task{}, err
	}
	a.log.Info("task captured", "id", task.ID, "title", task.Title, "energy", string(task.Energy))
	if err := a.RebuildTaskIndex(ctx); err != nil {
		a.log.Warn("index rebuild failed after capture", "error", err)
	}
	return task, nil
}

func (a *App) Tasks(ctx context.Context) ([]model.Task, error) {
	records, err := a.repo.ListTasks(ctx, storage.TaskListFilter{})
	if err != nil {
		return nil, err
	}
	tasks := make([]model.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, taskFromRecord(rec))
	}
	return tasks, nil
}

// ToggleComplete flips the completion flag on a task.
func (a *App) ToggleComplete(ctx context.Context, id string) (model.Task, error) {
	rec, err := a.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	rec.Completed = !rec.Completed
	if err := a.repo.UpdateTask(ctx, rec); err != nil {
		return model.Task{}, err
	}
	return taskFromRecord(rec), nil
}

func (a *App) ArchiveTask(ctx context.Context, id string, now time.Time) error {
	rec, err := a.repo.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if rec.Archived {
		return nil
	}
	rec.Archived = true
	at := now
	rec.ArchivedAt = &at
	if err := a.repo.UpdateTask(ctx, rec); err != nil {
		return err
	}
	a.log.Info("task archived", "id", id)
	return a.RebuildTaskIndex(ctx)
}

// ArchiveCompleted archives every completed, unarchived task and returns how
// many were touched.
func (a *App) ArchiveCompleted(ctx context.Context, now time.Time) (int, error) {
	completed := true
	archived := false
	records, err := a.repo.ListTasks(ctx, storage.TaskListFilter{Completed: &completed, Archived: &archived})
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		rec.Archived = true
		at := now
		rec.ArchivedAt = &at
		if err := a.repo.UpdateTask(ctx, rec); err != nil {
			return 0, err
		}
	}
	if len(records) > 0 {
		a.log.Info("completed tasks archived", "count", len(records))
		if err := a.RebuildTaskIndex(ctx); err != nil {
			return len(records), err
		}
	}
	return len(records), nil
}

// ArchiveStale applies the auto-archive setting: completed tasks created more
// than AutoArchiveDays ago are moved to the archive.
func (a *App) ArchiveStale(ctx context.Context, now time.Time) (int, error) {
	settings, err := a.Settings(ctx)
	if err != nil {
		return 0, err
	}
	if !settings.AutoArchive || settings.AutoArchiveDays <= 0 {
		return 0, nil
	}
	cutoff := now.AddDate(0, 0, -settings.AutoArchiveDays)
	completed := true
	archived := false
	records, err := a.repo.ListTasks(ctx, storage.TaskListFilter{Completed: &completed, Archived: &archived})
	if err != nil {
		return 0, err
	}
	count := 0
	for _, rec := range records {
		if rec.CreatedAt.After(cutoff) {
			continue
		}
		rec.Archived = true
		at := now
		rec.ArchivedAt = &at
		if err := a.repo.UpdateTask(ctx, rec); err != nil {
			return count, err
		}
		count++
	}
	if count > 0 {
		a.log.Info("stale tasks auto-archived", "count", count, "days", settings.AutoArchiveDays)
		if err := a.RebuildTaskIndex(ctx); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Playlist builds today's ranked short list together with a suggested start
// hour per entry.
func (a *App) Playlist(ctx context.Context, now time.Time) ([]scoring.PlaylistEntry, model.EnergyProfile, error) {
	tasks, err := a.Tasks(ctx)
	if err != nil {
		return nil, model.EnergyProfile{}, err
	}
	profile, err := a.Profile(ctx)
	if err != nil {
		return nil, model.EnergyProfile{}, err
	}
	return scoring.BuildPlaylist(tasks, now), profile, nil
}

// Ranked returns all active tasks ordered by the hybrid score.
func (a *App) Ranked(ctx context.Context, now time.Time) ([]model.Task, error) {
	tasks, err := a.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := a.Profile(ctx)
	if err != nil {
		return nil, err
	}
	active := tasks[:0]
	for _, t := range tasks {
		if t.Active() {
			active = append(active, t)
		}
	}
	return scoring.Rank(active, profile, now, scoring.DefaultWeights), nil
}

// Week computes the weekly grid for the week holding now, shifted by offset
// weeks.
func (a *App) Week(ctx context.Context, offset int, now time.Time) (weekly.Week, error) {
	tasks, err := a.Tasks(ctx)
	if err != nil {
		return weekly.Week{}, err
	}
	weekStart := weekly.StartOfWeek(now).AddDate(0, 0, 7*offset)
	return weekly.Generate(tasks, weekStart), nil
}

func (a *App) Insights(ctx context.Context, now time.Time) (insights.Stats, error) {
	tasks, err := a.Tasks(ctx)
	if err != nil {
		return insights.Stats{}, err
	}
	return insights.Calculate(tasks, now), nil
}

// RealityCheck evaluates today's planned deep work load.
func (a *App) RealityCheck(ctx context.Context, now time.Time) (session.RealityAlert, bool, error) {
	settings, err := a.Settings(ctx)
	if err != nil {
		return session.RealityAlert{}, false, err
	}
	if !settings.RealityCheck {
		return session.RealityAlert{}, false, nil
	}
	tasks, err := a.Tasks(ctx)
	if err != nil {
		return session.RealityAlert{}, false, err
	}
	today := tasks[:0]
	for _, t := range tasks {
		if t.DueDate != nil && model.SameDay(*t.DueDate, now) {
			today = append(today, t)
		}
	}
	alert, ok := session.EvaluateRealityCheck(today)
	return alert, ok, nil
}

// RecordEnergyCheck appends a check to today's note, creating the note when
// the day has none yet.
func (a *App) RecordEnergyCheck(ctx context.Context, check model.EnergyCheck, now time.Time) error {
	if err := check.Validate(); err != nil {
		return err
	}
	rec, err := a.repo.GetNoteByDate(ctx, now)
	if errors.Is(err, storage.ErrNotFound) {
		note := model.DailyNote{
			ID:           check.ID + "-note",
			Date:         model.StartOfDay(now),
			EnergyChecks: []model.EnergyCheck{check},
		}
		return a.repo.CreateNote(ctx, noteToRecord(note))
	}
	if err != nil {
		return err
	}
	note := noteFromRecord(rec)
	note.EnergyChecks = append(note.EnergyChecks, check)
	return a.repo.UpdateNote(ctx, noteToRecord(note))
}

func (a *App) SearchTasks(query string) []search.Result {
	return a.index.Search(query)
}

func (a *App) QuickSearch(query string) []search.Result {
	return a.index.QuickSearch(query, a.cfg.QuickSearchLimit)
}

func (a *App) SearchNotes(query string) []search.NoteResult {
	return a.noteIndex.Search(query)
}

// RebuildTaskIndex reindexes every task from scratch. Called after any write
// so search always reflects the repository.
func (a *App) RebuildTaskIndex(ctx context.Context) error {
	tasks, err := a.Tasks(ctx)
	if err != nil {
		return err
	}
	return a.index.Build(tasks)
}

func (a *App) RebuildNoteIndex(ctx context.Context) error {
	records, err := a.repo.ListNotes(ctx, storage.NoteListFilter{})
	if err != nil {
		return err
	}
	notes := make([]model.DailyNote, 0, len(records))
	for _, rec := range records {
		notes = append(notes, noteFromRecord(rec))
	}
	return a.noteIndex.Build(notes)
}

// Profile returns the stored energy profile, falling back to the default when
// none has been saved yet.
func (a *App) Profile(ctx context.Context) (model.EnergyProfile, error) {
	rec, err := a.repo.GetProfile(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return model.DefaultProfile(), nil
	}
	if err != nil {
		return model.EnergyProfile{}, err
	}
	return profileFromRecord(rec)
}

func (a *App) SaveProfile(ctx context.Context, profile model.EnergyProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	return a.repo.SaveProfile(ctx, profileToRecord(profile))
}

func (a *App) Settings(ctx context.Context) (model.Settings, error) {
	rec, err := a.repo.GetSettings(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.Settings{}, err
	}
	return settingsFromRecord(rec), nil
}

func (a *App) SaveSettings(ctx context.Context, settings model.Settings) error {
	return a.repo.SaveSettings(ctx, settingsToRecord(settings))
}

// ExportBackup writes the full dataset as indented JSON to path.
func (a *App) ExportBackup(ctx context.Context, path string, now time.Time) error {
	doc, err := storage.Export(ctx, a.repo, now)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := storage.WriteBackup(f, doc); err != nil {
		f.Close()
		return err
	}
	// Close errors matter here: the backup is only durable once the file is
	// flushed all the way out.
	if err := f.Close(); err != nil {
		return err
	}
	a.log.Info("backup written", "path", path, "tasks", len(doc.Tasks), "notes", len(doc.Notes))
	return nil
}

// ImportBackup loads a backup file and upserts its records.
func (a *App) ImportBackup(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	doc, err := storage.ReadBackup(f)
	if err != nil {
		return err
	}
	if err := storage.Import(ctx, a.repo, doc); err != nil {
		return err
	}
	a.log.Info("backup imported", "path", path, "tasks", len(doc.Tasks), "notes", len(doc.Notes))
	if err := a.RebuildTaskIndex(ctx); err != nil {
		return err
	}
	return a.RebuildNoteIndex(ctx)
}
