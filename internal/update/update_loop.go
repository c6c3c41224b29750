package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/palolo875/kairu/internal/commands"
	"github.com/palolo875/kairu/internal/model"
	"github.com/palolo875/kairu/internal/session"
	"github.com/palolo875/kairu/internal/views"
)

const promptLogLimit = 20

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refreshViewCmd()}
	if m.Engine != nil {
		cmds = append(cmds, waitForPromptCmd(m.Engine.C()))
		if m.Session != nil {
			cmds = append(cmds, m.scheduleEnergyPromptCmd())
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.CurrentView == ViewCapture && m.captureInput.Focused() {
			return m.handleCaptureKey(typed)
		}
		if m.CurrentView == ViewSearch && m.searchInput.Focused() {
			return m.handleSearchKey(typed)
		}
		return m.handleGlobalKey(typed)

	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			return m, m.refreshViewCmd()
		}
		return m, nil

	case CaptureDoneMsg:
		return m.onCaptureDone(typed.Outcome)

	case PlaylistLoadedMsg:
		m.Playlist.Slots = typed.Slots
		if m.Playlist.Cursor >= len(typed.Slots) {
			m.Playlist.Cursor = 0
		}
		return m, nil

	case WeekLoadedMsg:
		m.Weekly.Week = typed.Week
		m.Weekly.Offset = typed.Offset
		return m, nil

	case SearchResultsMsg:
		m.Search.Query = typed.Query
		m.Search.Results = typed.Results
		return m, nil

	case InsightsLoadedMsg:
		m.Insights.Stats = typed.Stats
		m.Insights.Cards = typed.Cards
		return m, nil

	case PromptDueMsg:
		return m.onPromptDue(typed.Event)

	case RealityAlertMsg:
		m.Status = StatusBar{Text: typed.Alert.Message, IsError: false}
		return m, nil

	case BackupDoneMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("sauvegarde écrite : %s", typed.Path), IsError: false}
		return m, nil

	case ArchivedMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("%d tâche(s) archivée(s)", typed.Count), IsError: false}
		return m, m.refreshViewCmd()

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil

	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil

	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Palette:
		m.Palette.Active = true
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "palette de commandes active", IsError: false}
		return m, nil
	case m.Keys.Capture:
		m.CurrentView = ViewCapture
		m.captureInput.Focus()
		return m, nil
	case m.Keys.Playlist:
		m.CurrentView = ViewPlaylist
		return m, m.refreshViewCmd()
	case m.Keys.Weekly:
		m.CurrentView = ViewWeekly
		return m, m.refreshViewCmd()
	case m.Keys.Search:
		m.CurrentView = ViewSearch
		m.searchInput.Focus()
		return m, nil
	case m.Keys.Insights:
		m.CurrentView = ViewInsights
		return m, m.refreshViewCmd()
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}
	if m.CurrentView == ViewPlaylist {
		return m.handlePlaylistKey(msg)
	}
	if m.CurrentView == ViewWeekly {
		return m.handleWeeklyKey(msg)
	}
	return m, nil
}

func (m Model) handleCaptureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "esc":
		m.captureInput.Blur()
		m.Capture.Pending = nil
		return m, nil
	case "enter":
		input := strings.TrimSpace(m.captureInput.Value())
		if input == "" {
			return m, nil
		}
		if pending := m.Capture.Pending; pending != nil && pending.Raw == input {
			m.Capture.Pending = nil
			return m, m.confirmCaptureCmd(*pending)
		}
		return m, m.captureCmd(input)
	}
	var cmd tea.Cmd
	m.captureInput, cmd = m.captureInput.Update(msg)
	m.Capture.Pending = nil
	if input := strings.TrimSpace(m.captureInput.Value()); input != "" {
		preview := m.App.Preview(input, m.Now())
		m.Capture.Preview = &preview
	} else {
		m.Capture.Preview = nil
	}
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "esc":
		m.searchInput.Blur()
		return m, nil
	case "enter":
		return m, m.searchCmd(m.searchInput.Value())
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// Live quick search narrows as the query grows.
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		m.Search.Query = ""
		m.Search.Results = nil
		return m, cmd
	}
	m.Search.Query = query
	m.Search.Results = m.App.QuickSearch(query)
	return m, cmd
}

func (m Model) handlePlaylistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.Playlist.Cursor > 0 {
			m.Playlist.Cursor--
		}
	case "down", "j":
		if m.Playlist.Cursor < len(m.Playlist.Slots)-1 {
			m.Playlist.Cursor++
		}
	case "x", "enter":
		if m.Playlist.Cursor < len(m.Playlist.Slots) {
			id := m.Playlist.Slots[m.Playlist.Cursor].Entry.Task.ID
			return m, m.toggleCompleteCmd(id)
		}
	case "a":
		if m.Playlist.Cursor < len(m.Playlist.Slots) {
			id := m.Playlist.Slots[m.Playlist.Cursor].Entry.Task.ID
			return m, m.archiveCmd(id)
		}
	}
	return m, nil
}

func (m Model) handleWeeklyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		return m, m.loadWeekCmd(m.Weekly.Offset - 1)
	case "right", "l":
		return m, m.loadWeekCmd(m.Weekly.Offset + 1)
	case "0":
		return m, m.loadWeekCmd(0)
	}
	return m, nil
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.commandInput.Blur()
		m.Status = StatusBar{}
		return m, nil
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "enter":
		input := m.commandInput.Value()
		m.Palette.Active = false
		m.commandInput.Blur()
		m.commandInput.SetValue("")
		return m.executePalette(input)
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

// executePalette parses a palette line and routes it to the matching app
// command.
func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parsed, err := commands.Parse(input)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	var pending tea.Cmd
	handlers := commands.Handlers{
		Add: func(args commands.AddArgs) (commands.Result, error) {
			pending = m.captureCmd(args.Input)
			return commands.Result{Message: "capture en cours"}, nil
		},
		Search: func(args commands.SearchArgs) (commands.Result, error) {
			m.CurrentView = ViewSearch
			m.searchInput.SetValue(args.Query)
			pending = m.searchCmd(args.Query)
			return commands.Result{Message: "recherche en cours"}, nil
		},
		Week: func(args commands.WeekArgs) (commands.Result, error) {
			m.CurrentView = ViewWeekly
			pending = m.loadWeekCmd(args.Offset)
			return commands.Result{Message: "semaine chargée"}, nil
		},
		Archive: func(args commands.ArchiveArgs) (commands.Result, error) {
			if args.Done {
				pending = m.archiveCompletedCmd()
			} else {
				pending = m.archiveCmd(args.Target)
			}
			return commands.Result{Message: "archivage en cours"}, nil
		},
		Export: func(args commands.ExportArgs) (commands.Result, error) {
			pending = m.exportCmd(args.Path)
			return commands.Result{Message: "export en cours"}, nil
		},
	}
	res, err := commands.Execute(parsed, handlers)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	return m, pending
}

func (m Model) onCaptureDone(out CaptureOutcome) (tea.Model, tea.Cmd) {
	if out.Review {
		pending := out.Parse
		m.Capture.Pending = &pending
		m.Status = StatusBar{
			Text:    fmt.Sprintf("confiance %.0f%% : vérifiez les champs puis validez avec entrée", out.Parse.Confidence*100),
			IsError: false,
		}
		return m, nil
	}
	m.Capture.Recent = append([]model.Task{out.Task}, m.Capture.Recent...)
	if len(m.Capture.Recent) > 5 {
		m.Capture.Recent = m.Capture.Recent[:5]
	}
	m.captureInput.SetValue("")
	m.Capture.Preview = nil
	m.Status = StatusBar{Text: fmt.Sprintf("tâche ajoutée : %s", out.Task.Title), IsError: false}
	return m, m.realityCheckCmd()
}

func (m Model) onPromptDue(ev session.PromptEvent) (tea.Model, tea.Cmd) {
	m.PromptLog = append(m.PromptLog, ev)
	if len(m.PromptLog) > promptLogLimit {
		m.PromptLog = m.PromptLog[len(m.PromptLog)-promptLogLimit:]
	}
	cmds := []tea.Cmd{}
	switch ev.Kind {
	case session.KindEnergyCheck:
		m.Status = StatusBar{Text: "Comment est votre énergie en ce moment ?", IsError: false}
		if m.Session != nil {
			m.Session.RecordEnergyCheck(ev.At)
			cmds = append(cmds, m.scheduleEnergyPromptCmd())
		}
	case session.KindRealityCheck:
		cmds = append(cmds, m.realityCheckCmd())
	}
	if m.Engine != nil {
		cmds = append(cmds, waitForPromptCmd(m.Engine.C()))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	status := m.Status.Text
	if m.Status.IsError && status != "" {
		status = "erreur : " + status
	}

	var body, side string
	switch m.CurrentView {
	case ViewCapture:
		body = views.RenderCapturePanel(m.capturePanel())
	case ViewPlaylist:
		body = views.RenderPlaylistPanel(m.playlistPanel())
	case ViewWeekly:
		panel := m.weeklyPanel()
		body = views.RenderWeeklyPanel(panel)
		side = views.RenderMarkdown(views.WeeklyMarkdown(panel))
	case ViewSearch:
		body = views.RenderSearchPanel(m.searchPanel())
	case ViewInsights:
		body = views.RenderInsightsPanel(m.insightsPanel())
	}

	if m.Palette.Active {
		side = views.RenderPalette(m.commandInput.View())
	}
	if m.HelpVisible {
		side = strings.TrimSpace(side + "\n" + views.RenderHelp())
	}

	notification := ""
	if len(m.PromptLog) > 0 {
		last := m.PromptLog[len(m.PromptLog)-1]
		notification = fmt.Sprintf("dernier rappel : %s @ %s", last.Kind, last.At.Format("15:04"))
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("kairu | vue : %s", m.CurrentView),
		LeftPane:     body,
		RightPane:    side,
		StatusLine:   status,
		Notification: notification,
		Footer: fmt.Sprintf("touches : %s capture | %s playlist | %s semaine | %s recherche | %s insights | %s palette | %s aide | %s quitter",
			m.Keys.Capture, m.Keys.Playlist, m.Keys.Weekly, m.Keys.Search, m.Keys.Insights, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewCapture, ViewPlaylist, ViewWeekly, ViewSearch, ViewInsights:
		return true
	default:
		return false
	}
}
