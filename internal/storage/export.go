package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// BackupVersion is bumped whenever the backup document layout changes.
const BackupVersion = 1

var ErrBackupVersion = errors.New("storage: unsupported backup version")

// BackupDocument is the versioned JSON dump of everything the app owns.
type BackupDocument struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	Tasks      []Task    `json:"tasks"`
	Notes      []Note    `json:"notes"`
	Profile    *Profile  `json:"profile,omitempty"`
	Settings   *Settings `json:"settings,omitempty"`
}

// Export gathers the full repository contents into a backup document.
// A missing profile or settings row is not an error, the field stays empty.
func Export(ctx context.Context, repo Repository, now time.Time) (BackupDocument, error) {
	doc := BackupDocument{Version: BackupVersion, ExportedAt: now.UTC()}

	tasks, err := repo.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		return BackupDocument{}, fmt.Errorf("export tasks: %w", err)
	}
	doc.Tasks = tasks

	notes, err := repo.ListNotes(ctx, NoteListFilter{})
	if err != nil {
		return BackupDocument{}, fmt.Errorf("export notes: %w", err)
	}
	doc.Notes = notes

	profile, err := repo.GetProfile(ctx)
	switch {
	case err == nil:
		doc.Profile = &profile
	case !errors.Is(err, ErrNotFound):
		return BackupDocument{}, fmt.Errorf("export profile: %w", err)
	}

	settings, err := repo.GetSettings(ctx)
	switch {
	case err == nil:
		doc.Settings = &settings
	case !errors.Is(err, ErrNotFound):
		return BackupDocument{}, fmt.Errorf("export settings: %w", err)
	}

	return doc, nil
}

// WriteBackup serializes a backup document as indented JSON.
func WriteBackup(w io.Writer, doc BackupDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ReadBackup parses and version-checks a backup document.
func ReadBackup(r io.Reader) (BackupDocument, error) {
	var doc BackupDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return BackupDocument{}, fmt.Errorf("decode backup: %w", err)
	}
	if doc.Version != BackupVersion {
		return BackupDocument{}, fmt.Errorf("%w: %d", ErrBackupVersion, doc.Version)
	}
	return doc, nil
}

// Import restores a backup into the repository. Existing records with the
// same id are overwritten.
func Import(ctx context.Context, repo Repository, doc BackupDocument) error {
	for _, task := range doc.Tasks {
		if err := upsertTask(ctx, repo, task); err != nil {
			return fmt.Errorf("import task %s: %w", task.ID, err)
		}
	}
	for _, note := range doc.Notes {
		if err := upsertNote(ctx, repo, note); err != nil {
			return fmt.Errorf("import note %s: %w", note.ID, err)
		}
	}
	if doc.Profile != nil {
		if err := repo.SaveProfile(ctx, *doc.Profile); err != nil {
			return fmt.Errorf("import profile: %w", err)
		}
	}
	if doc.Settings != nil {
		if err := repo.SaveSettings(ctx, *doc.Settings); err != nil {
			return fmt.Errorf("import settings: %w", err)
		}
	}
	return nil
}

func upsertTask(ctx context.Context, repo Repository, task Task) error {
	err := repo.UpdateTask(ctx, task)
	if errors.Is(err, ErrNotFound) {
		return repo.CreateTask(ctx, task)
	}
	return err
}

func upsertNote(ctx context.Context, repo Repository, note Note) error {
	err := repo.UpdateNote(ctx, note)
	if errors.Is(err, ErrNotFound) {
		return repo.CreateNote(ctx, note)
	}
	return err
}
