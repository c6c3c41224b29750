package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteTimeLayout = time.RFC3339Nano
	sqliteDateLayout = "2006-01-02"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, type, title, description, content, priority, size, energy, due_at, created_at, completed, archived, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Type, in.Title, in.Description, in.Content, in.Priority, in.Size, in.Energy,
		nullTime(in.DueAt), mustTime(in.CreatedAt), boolInt(in.Completed), boolInt(in.Archived), nullTime(in.ArchivedAt),
	)
	if err != nil {
		return err
	}
	if err := insertTaskChildren(ctx, tx, in); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, type, title, description, content, priority, size, energy, due_at, created_at, completed, archived, archived_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	if err := r.loadTaskChildren(ctx, &task); err != nil {
		return Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET type = ?, title = ?, description = ?, content = ?, priority = ?, size = ?, energy = ?, due_at = ?, completed = ?, archived = ?, archived_at = ?
		WHERE id = ?`,
		in.Type, in.Title, in.Description, in.Content, in.Priority, in.Size, in.Energy,
		nullTime(in.DueAt), boolInt(in.Completed), boolInt(in.Archived), nullTime(in.ArchivedAt), in.ID,
	)
	if err != nil {
		return err
	}
	if err := checkRowsAffected(res); err != nil {
		return err
	}

	// Children are replaced wholesale; their order is the slice order.
	if _, err := tx.ExecContext(ctx, `DELETE FROM subtasks WHERE task_id = ?`, in.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?`, in.ID); err != nil {
		return err
	}
	if err := insertTaskChildren(ctx, tx, in); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT id, type, title, description, content, priority, size, energy, due_at, created_at, completed, archived, archived_at FROM tasks`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.Archived != nil {
		clauses = append(clauses, "archived = ?")
		args = append(args, boolInt(*filter.Archived))
	}
	if filter.Completed != nil {
		clauses = append(clauses, "completed = ?")
		args = append(args, boolInt(*filter.Completed))
	}
	if filter.Tag != "" {
		clauses = append(clauses, "id IN (SELECT task_id FROM task_tags WHERE tag = ?)")
		args = append(args, filter.Tag)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadTaskChildren(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteRepository) CreateNote(ctx context.Context, in Note) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notes (id, note_date, intention, notebook)
		VALUES (?, ?, ?, ?)`,
		in.ID, in.Date.UTC().Format(sqliteDateLayout), in.Intention, in.Notebook,
	)
	if err != nil {
		return err
	}
	if err := insertNoteChildren(ctx, tx, in); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) GetNote(ctx context.Context, id string) (Note, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, note_date, intention, notebook FROM notes WHERE id = ?`, id)
	return r.finishNote(ctx, row)
}

func (r *SQLiteRepository) GetNoteByDate(ctx context.Context, day time.Time) (Note, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, note_date, intention, notebook FROM notes WHERE note_date = ?`,
		day.UTC().Format(sqliteDateLayout))
	return r.finishNote(ctx, row)
}

func (r *SQLiteRepository) finishNote(ctx context.Context, row *sql.Row) (Note, error) {
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Note{}, ErrNotFound
		}
		return Note{}, err
	}
	if err := r.loadNoteChildren(ctx, &note); err != nil {
		return Note{}, err
	}
	return note, nil
}

func (r *SQLiteRepository) UpdateNote(ctx context.Context, in Note) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE notes SET note_date = ?, intention = ?, notebook = ? WHERE id = ?`,
		in.Date.UTC().Format(sqliteDateLayout), in.Intention, in.Notebook, in.ID,
	)
	if err != nil {
		return err
	}
	if err := checkRowsAffected(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM note_playlist WHERE note_id = ?`, in.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM energy_checks WHERE note_id = ?`, in.ID); err != nil {
		return err
	}
	if err := insertNoteChildren(ctx, tx, in); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) DeleteNote(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListNotes(ctx context.Context, filter NoteListFilter) ([]Note, error) {
	query := `SELECT id, note_date, intention, notebook FROM notes`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.From != nil {
		clauses = append(clauses, "note_date >= ?")
		args = append(args, filter.From.UTC().Format(sqliteDateLayout))
	}
	if filter.To != nil {
		clauses = append(clauses, "note_date < ?")
		args = append(args, filter.To.UTC().Format(sqliteDateLayout))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY note_date ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Note, 0)
	for rows.Next() {
		note, scanErr := scanNote(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadNoteChildren(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteRepository) GetProfile(ctx context.Context) (Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT chronotype, peaks, dips, focus_minutes, break_minutes, work_days FROM profile WHERE id = 1`)

	var out Profile
	var peaks, dips, workDays string
	err := row.Scan(&out.Chronotype, &peaks, &dips, &out.FocusMinutes, &out.BreakMinutes, &workDays)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	out.Peaks = splitCSV(peaks)
	out.Dips = splitCSV(dips)
	out.WorkDays, err = splitIntCSV(workDays)
	if err != nil {
		return Profile{}, err
	}
	return out, nil
}

func (r *SQLiteRepository) SaveProfile(ctx context.Context, in Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profile (id, chronotype, peaks, dips, focus_minutes, break_minutes, work_days)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			chronotype = excluded.chronotype,
			peaks = excluded.peaks,
			dips = excluded.dips,
			focus_minutes = excluded.focus_minutes,
			break_minutes = excluded.break_minutes,
			work_days = excluded.work_days`,
		in.Chronotype, joinCSV(in.Peaks), joinCSV(in.Dips), in.FocusMinutes, in.BreakMinutes, joinIntCSV(in.WorkDays),
	)
	return err
}

func (r *SQLiteRepository) GetSettings(ctx context.Context) (Settings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT auto_archive, auto_archive_days, energy_tracking, reality_check, simplified_mode FROM settings WHERE id = 1`)

	var out Settings
	var autoArchive, energyTracking, realityCheck, simplified int
	err := row.Scan(&autoArchive, &out.AutoArchiveDays, &energyTracking, &realityCheck, &simplified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Settings{}, ErrNotFound
		}
		return Settings{}, err
	}
	out.AutoArchive = autoArchive == 1
	out.EnergyTracking = energyTracking == 1
	out.RealityCheck = realityCheck == 1
	out.SimplifiedMode = simplified == 1
	return out, nil
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, in Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, auto_archive, auto_archive_days, energy_tracking, reality_check, simplified_mode)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			auto_archive = excluded.auto_archive,
			auto_archive_days = excluded.auto_archive_days,
			energy_tracking = excluded.energy_tracking,
			reality_check = excluded.reality_check,
			simplified_mode = excluded.simplified_mode`,
		boolInt(in.AutoArchive), in.AutoArchiveDays, boolInt(in.EnergyTracking), boolInt(in.RealityCheck), boolInt(in.SimplifiedMode),
	)
	return err
}

func insertTaskChildren(ctx context.Context, tx *sql.Tx, in Task) error {
	for i, sub := range in.Subtasks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO subtasks (id, task_id, text, completed, position) VALUES (?, ?, ?, ?, ?)`,
			sub.ID, in.ID, sub.Text, boolInt(sub.Completed), i,
		); err != nil {
			return err
		}
	}
	for i, tag := range in.Tags {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_tags (task_id, tag, position) VALUES (?, ?, ?)`,
			in.ID, tag, i,
		); err != nil {
			return err
		}
	}
	return nil
}

func insertNoteChildren(ctx context.Context, tx *sql.Tx, in Note) error {
	for i, taskID := range in.Playlist {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO note_playlist (note_id, task_id, position) VALUES (?, ?, ?)`,
			in.ID, taskID, i,
		); err != nil {
			return err
		}
	}
	for _, check := range in.Checks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO energy_checks (id, note_id, checked_at, level, note) VALUES (?, ?, ?, ?, ?)`,
			check.ID, in.ID, mustTime(check.Timestamp), check.Level, check.Note,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) loadTaskChildren(ctx context.Context, task *Task) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, completed FROM subtasks WHERE task_id = ? ORDER BY position ASC`, task.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var sub Subtask
		var completed int
		if err := rows.Scan(&sub.ID, &sub.Text, &completed); err != nil {
			return err
		}
		sub.Completed = completed == 1
		task.Subtasks = append(task.Subtasks, sub)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagRows, err := r.db.QueryContext(ctx, `
		SELECT tag FROM task_tags WHERE task_id = ? ORDER BY position ASC`, task.ID)
	if err != nil {
		return err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tag string
		if err := tagRows.Scan(&tag); err != nil {
			return err
		}
		task.Tags = append(task.Tags, tag)
	}
	return tagRows.Err()
}

func (r *SQLiteRepository) loadNoteChildren(ctx context.Context, note *Note) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT task_id FROM note_playlist WHERE note_id = ? ORDER BY position ASC`, note.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var taskID string
		if err := rows.Scan(&taskID); err != nil {
			return err
		}
		note.Playlist = append(note.Playlist, taskID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	checkRows, err := r.db.QueryContext(ctx, `
		SELECT id, checked_at, level, note FROM energy_checks WHERE note_id = ? ORDER BY checked_at ASC`, note.ID)
	if err != nil {
		return err
	}
	defer checkRows.Close()
	for checkRows.Next() {
		var check EnergyCheck
		var checkedAt string
		if err := checkRows.Scan(&check.ID, &checkedAt, &check.Level, &check.Note); err != nil {
			return err
		}
		check.Timestamp, err = parseRequiredTime(checkedAt)
		if err != nil {
			return err
		}
		note.Checks = append(note.Checks, check)
	}
	return checkRows.Err()
}

// nullTime and mustTime keep the zone offset on the wire. Normalising to UTC
// would shift due dates across a calendar day for zones west of Greenwich,
// and day-of-due is what playlist filtering and weekly bucketing key on.
func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func joinCSV(values []string) string {
	return strings.Join(values, ",")
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

func joinIntCSV(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}

func splitIntCSV(value string) ([]int, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("parse work day %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var due sql.NullString
	var created string
	var archivedAt sql.NullString
	var completed, archived int
	if err := s.Scan(&out.ID, &out.Type, &out.Title, &out.Description, &out.Content, &out.Priority, &out.Size, &out.Energy,
		&due, &created, &completed, &archived, &archivedAt); err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	dueAt, err := parseNullableTime(due)
	if err != nil {
		return Task{}, err
	}
	archivedTime, err := parseNullableTime(archivedAt)
	if err != nil {
		return Task{}, err
	}
	out.CreatedAt = createdAt
	out.DueAt = dueAt
	out.ArchivedAt = archivedTime
	out.Completed = completed == 1
	out.Archived = archived == 1
	return out, nil
}

func scanNote(s scanner) (Note, error) {
	var out Note
	var day string
	if err := s.Scan(&out.ID, &day, &out.Intention, &out.Notebook); err != nil {
		return Note{}, err
	}
	date, err := time.Parse(sqliteDateLayout, day)
	if err != nil {
		return Note{}, err
	}
	out.Date = date
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
