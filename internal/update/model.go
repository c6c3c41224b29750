package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/palolo875/kairu/internal/insights"
	"github.com/palolo875/kairu/internal/model"
	"github.com/palolo875/kairu/internal/parser"
	"github.com/palolo875/kairu/internal/scoring"
	"github.com/palolo875/kairu/internal/search"
	"github.com/palolo875/kairu/internal/session"
	"github.com/palolo875/kairu/internal/weekly"
)

type View string

const (
	ViewCapture  View = "Capture"
	ViewPlaylist View = "Playlist"
	ViewWeekly   View = "Semaine"
	ViewSearch   View = "Recherche"
	ViewInsights View = "Insights"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Capture  string
	Playlist string
	Weekly   string
	Search   string
	Insights string
	Palette  string
	Help     string
	Quit     string
}

// CaptureState holds the quick-capture line together with its live parse
// preview. Pending is set when a low-confidence parse awaits confirmation.
type CaptureState struct {
	Preview *parser.Result
	Pending *parser.Result
	Recent  []model.Task
}

// PlaylistSlot pairs a ranked entry with its suggested start hour.
type PlaylistSlot struct {
	Entry scoring.PlaylistEntry
	Hour  int
}

type PlaylistState struct {
	Slots  []PlaylistSlot
	Cursor int
}

type WeeklyState struct {
	Week   weekly.Week
	Offset int
}

type SearchState struct {
	Query   string
	Results []search.Result
}

type InsightsState struct {
	Stats insights.Stats
	Cards []insights.Card
}

type CommandPaletteState struct {
	Active bool
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type CaptureDoneMsg struct {
	Outcome CaptureOutcome
}

type PlaylistLoadedMsg struct {
	Slots []PlaylistSlot
}

type WeekLoadedMsg struct {
	Week   weekly.Week
	Offset int
}

type SearchResultsMsg struct {
	Query   string
	Results []search.Result
}

type InsightsLoadedMsg struct {
	Stats insights.Stats
	Cards []insights.Card
}

type PromptDueMsg struct {
	Event session.PromptEvent
}

type RealityAlertMsg struct {
	Alert session.RealityAlert
}

type BackupDoneMsg struct {
	Path string
}

type ArchivedMsg struct {
	Count int
}

type Model struct {
	App          *App
	Engine       *session.Engine
	Session      *session.State
	CurrentView  View
	Capture      CaptureState
	Playlist     PlaylistState
	Weekly       WeeklyState
	Search       SearchState
	Insights     InsightsState
	Palette      CommandPaletteState
	PromptLog    []session.PromptEvent
	Status       StatusBar
	Keys         GlobalKeyMap
	HelpVisible  bool
	Quitting     bool
	LastError    error
	Now          func() time.Time
	captureInput textinput.Model
	commandInput textinput.Model
	searchInput  textinput.Model
	helpModel    help.Model
}

func NewModel(app *App) Model {
	m := Model{
		App:         app,
		CurrentView: ViewCapture,
		Keys: GlobalKeyMap{
			Capture:  "1",
			Playlist: "2",
			Weekly:   "3",
			Search:   "4",
			Insights: "5",
			Palette:  "/",
			Help:     "?",
			Quit:     "q",
		},
		Now: time.Now,
	}
	m.initBubbleComponents()
	return m
}

func NewModelWithEngine(app *App, engine *session.Engine) Model {
	m := NewModel(app)
	m.Engine = engine
	return m
}

func NewModelWithConfig(app *App, engine *session.Engine, cfg RuntimeConfig) Model {
	m := NewModelWithEngine(app, engine)
	m.Session = session.NewState(time.Duration(cfg.EnergyCheckMinutes) * time.Minute)
	return m
}

func (m *Model) initBubbleComponents() {
	capture := textinput.New()
	capture.Placeholder = "appeler Jean demain #ProjetX !! @S 💬"
	capture.CharLimit = 280
	capture.Focus()
	m.captureInput = capture

	command := textinput.New()
	command.Placeholder = "add | search | week | archive | export"
	command.CharLimit = 200
	m.commandInput = command

	searchIn := textinput.New()
	searchIn.Placeholder = "rechercher des tâches..."
	searchIn.CharLimit = 200
	m.searchInput = searchIn

	m.helpModel = help.New()
}
