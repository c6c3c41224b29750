package storage

import "time"

// Storage entities mirror the domain model with flat, primitive fields. The
// JSON tags double as the backup wire format, dates travel as RFC 3339
// strings.

type Task struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Content     string     `json:"content,omitempty"`
	Priority    string     `json:"priority"`
	Size        string     `json:"size,omitempty"`
	Energy      string     `json:"energy,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Subtasks    []Subtask  `json:"subtasks,omitempty"`
	DueAt       *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	Completed   bool       `json:"completed"`
	Archived    bool       `json:"archived"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty"`
}

type Subtask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type Note struct {
	ID        string        `json:"id"`
	Date      time.Time     `json:"date"`
	Intention string        `json:"intention,omitempty"`
	Notebook  string        `json:"notebook,omitempty"`
	Playlist  []string      `json:"playlist,omitempty"`
	Checks    []EnergyCheck `json:"energyChecks,omitempty"`
}

type EnergyCheck struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     int       `json:"level"`
	Note      string    `json:"note,omitempty"`
}

// Profile stores peak/dip windows as "HH:MM-HH:MM" strings and work days as
// time.Weekday ints.
type Profile struct {
	Chronotype   string   `json:"chronotype"`
	Peaks        []string `json:"peaks"`
	Dips         []string `json:"dips"`
	FocusMinutes int      `json:"focusMinutes"`
	BreakMinutes int      `json:"breakMinutes"`
	WorkDays     []int    `json:"workDays"`
}

type Settings struct {
	AutoArchive     bool `json:"autoArchive"`
	AutoArchiveDays int  `json:"autoArchiveDays"`
	EnergyTracking  bool `json:"energyTracking"`
	RealityCheck    bool `json:"realityCheck"`
	SimplifiedMode  bool `json:"simplifiedMode"`
}

type TaskListFilter struct {
	Archived  *bool
	Completed *bool
	Tag       string
	Limit     int
	Offset    int
}

type NoteListFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
