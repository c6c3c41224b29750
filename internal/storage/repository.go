package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)

	CreateNote(ctx context.Context, in Note) error
	GetNote(ctx context.Context, id string) (Note, error)
	GetNoteByDate(ctx context.Context, day time.Time) (Note, error)
	UpdateNote(ctx context.Context, in Note) error
	DeleteNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context, filter NoteListFilter) ([]Note, error)

	GetProfile(ctx context.Context) (Profile, error)
	SaveProfile(ctx context.Context, in Profile) error

	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, in Settings) error
}
