package update

import (
	"context"
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/palolo875/kairu/internal/insights"
	"github.com/palolo875/kairu/internal/model"
	"github.com/palolo875/kairu/internal/parser"
	"github.com/palolo875/kairu/internal/scoring"
	"github.com/palolo875/kairu/internal/session"
	"github.com/palolo875/kairu/internal/views"
	"github.com/palolo875/kairu/internal/weekly"
)

// Week days run Monday-first, matching the grid's day offsets.
var (
	frenchDayShort = []string{"lun", "mar", "mer", "jeu", "ven", "sam", "dim"}
	frenchDayFull  = []string{"lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi", "dimanche"}
)

// refreshViewCmd reloads the data behind the current view.
func (m Model) refreshViewCmd() tea.Cmd {
	switch m.CurrentView {
	case ViewPlaylist:
		return m.loadPlaylistCmd()
	case ViewWeekly:
		return m.loadWeekCmd(m.Weekly.Offset)
	case ViewInsights:
		return m.loadInsightsCmd()
	default:
		return nil
	}
}

func (m Model) captureCmd(input string) tea.Cmd {
	app, now := m.App, m.Now()
	return func() tea.Msg {
		out, err := app.Capture(context.Background(), input, now)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return CaptureDoneMsg{Outcome: out}
	}
}

func (m Model) confirmCaptureCmd(res parser.Result) tea.Cmd {
	app, now := m.App, m.Now()
	return func() tea.Msg {
		task, err := app.ConfirmCapture(context.Background(), res, now)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return CaptureDoneMsg{Outcome: CaptureOutcome{Task: task, Parse: res, Saved: true}}
	}
}

func (m Model) loadPlaylistCmd() tea.Cmd {
	app, now := m.App, m.Now()
	return func() tea.Msg {
		entries, profile, err := app.Playlist(context.Background(), now)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		slots := make([]PlaylistSlot, 0, len(entries))
		for _, entry := range entries {
			slots = append(slots, PlaylistSlot{
				Entry: entry,
				Hour:  scoring.SuggestTimeSlot(entry.Task, profile, now),
			})
		}
		return PlaylistLoadedMsg{Slots: slots}
	}
}

func (m Model) loadWeekCmd(offset int) tea.Cmd {
	app, now := m.App, m.Now()
	return func() tea.Msg {
		week, err := app.Week(context.Background(), offset, now)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return WeekLoadedMsg{Week: week, Offset: offset}
	}
}

func (m Model) searchCmd(query string) tea.Cmd {
	app := m.App
	return func() tea.Msg {
		return SearchResultsMsg{Query: query, Results: app.SearchTasks(query)}
	}
}

func (m Model) loadInsightsCmd() tea.Cmd {
	app, now := m.App, m.Now()
	return func() tea.Msg {
		stats, err := app.Insights(context.Background(), now)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return InsightsLoadedMsg{Stats: stats, Cards: insights.Cards(stats)}
	}
}

func (m Model) toggleCompleteCmd(id string) tea.Cmd {
	app := m.App
	return func() tea.Msg {
		task, err := app.ToggleComplete(context.Background(), id)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		state := "réouverte"
		if task.Completed {
			state = "terminée"
		}
		return SetStatusMsg{Text: fmt.Sprintf("tâche %s : %s", state, task.Title)}
	}
}

func (m Model) archiveCmd(id string) tea.Cmd {
	app, now := m.App, m.Now()
	return func() tea.Msg {
		if err := app.ArchiveTask(context.Background(), id, now); err != nil {
			return AppErrorMsg{Err: err}
		}
		return ArchivedMsg{Count: 1}
	}
}

func (m Model) archiveCompletedCmd() tea.Cmd {
	app, now := m.App, m.Now()
	return func() tea.Msg {
		count, err := app.ArchiveCompleted(context.Background(), now)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return ArchivedMsg{Count: count}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	app, now := m.App, m.Now()
	return func() tea.Msg {
		if err := app.ExportBackup(context.Background(), path, now); err != nil {
			return AppErrorMsg{Err: err}
		}
		return BackupDoneMsg{Path: path}
	}
}

func (m Model) realityCheckCmd() tea.Cmd {
	app, now := m.App, m.Now()
	return func() tea.Msg {
		alert, ok, err := app.RealityCheck(context.Background(), now)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		if !ok {
			return nil
		}
		return RealityAlertMsg{Alert: alert}
	}
}

func (m Model) scheduleEnergyPromptCmd() tea.Cmd {
	engine, state, now := m.Engine, m.Session, m.Now()
	return func() tea.Msg {
		err := engine.Schedule(session.PromptEvent{
			ID:   uuid.NewString(),
			Kind: session.KindEnergyCheck,
			At:   state.NextEnergyCheckAt(now),
		})
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return nil
	}
}

func waitForPromptCmd(ch <-chan session.PromptEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return PromptDueMsg{Event: ev}
	}
}

func (m Model) capturePanel() views.CapturePanel {
	panel := views.CapturePanel{Input: m.captureInput.View()}
	if m.Capture.Preview != nil {
		panel.Preview = previewView(*m.Capture.Preview)
	}
	for _, t := range m.Capture.Recent {
		panel.Recent = append(panel.Recent, views.TaskLine{
			Title: t.Title,
			Meta:  taskMeta(t),
			Done:  t.Completed,
		})
	}
	return panel
}

func previewView(res parser.Result) *views.ParsePreview {
	p := &views.ParsePreview{
		Title:       res.CleanText,
		Type:        string(res.Type),
		Priority:    string(res.Priority),
		Size:        string(res.Size),
		Energy:      string(res.Energy),
		Tags:        res.Tags,
		Subtasks:    res.Subtasks,
		People:      res.People,
		Confidence:  int(res.Confidence * 100),
		NeedsReview: res.NeedsReview(),
	}
	if res.DueDate != nil {
		p.Due = res.DueDate.Format("02/01/2006 15:04")
	}
	return p
}

func (m Model) playlistPanel() views.PlaylistPanel {
	panel := views.PlaylistPanel{Cursor: m.Playlist.Cursor}
	for _, slot := range m.Playlist.Slots {
		panel.Rows = append(panel.Rows, views.PlaylistRow{
			Title:    slot.Entry.Task.Title,
			Score:    slot.Entry.Score,
			Hour:     slot.Hour,
			Energy:   string(slot.Entry.Task.Energy),
			Size:     string(slot.Entry.Task.Size),
			Priority: string(slot.Entry.Task.Priority),
			Done:     slot.Entry.Task.Completed,
		})
	}
	return panel
}

func (m Model) weeklyPanel() views.WeeklyPanel {
	week := m.Weekly.Week
	panel := views.WeeklyPanel{
		WeekLabel: fmt.Sprintf("Semaine du %s", week.WeekStart.Format("02/01/2006")),
	}
	for d := 0; d < 7; d++ {
		date := week.WeekStart.AddDate(0, 0, d)
		panel.Days = append(panel.Days, fmt.Sprintf("%s %02d", frenchDayShort[d], date.Day()))
	}
	for _, e := range model.Energies {
		panel.Energies = append(panel.Energies, string(e))
		row := make([]views.WeeklyCell, 7)
		for _, cell := range week.Cells {
			if cell.Energy != e || cell.Day < 0 || cell.Day > 6 {
				continue
			}
			row[cell.Day] = views.WeeklyCell{
				Hours:     cell.TotalHours,
				Intensity: cell.Intensity,
				Count:     len(cell.Tasks),
			}
		}
		panel.Cells = append(panel.Cells, row)
	}
	for _, s := range week.Suggestions {
		panel.Suggestions = append(panel.Suggestions, s.Message)
	}
	panel.Stats = weeklyStatLines(week)
	return panel
}

func weeklyStatLines(week weekly.Week) []string {
	stats := week.Stats
	lines := []string{
		fmt.Sprintf("%d tâches planifiées, %d terminées", stats.TotalTasks, stats.CompletedTasks),
		fmt.Sprintf("%.1fh au total, équilibre %d/100", stats.TotalHours, stats.BalanceScore),
	}
	if d := stats.MostProductiveDay; d != weekly.DaySentinel && d >= 0 && d < len(frenchDayFull) {
		lines = append(lines, fmt.Sprintf("jour le plus chargé : %s", frenchDayFull[d]))
	}
	energies := make([]model.Energy, 0, len(stats.HoursByEnergy))
	for e := range stats.HoursByEnergy {
		energies = append(energies, e)
	}
	sort.Slice(energies, func(i, j int) bool { return energies[i] < energies[j] })
	for _, e := range energies {
		if h := stats.HoursByEnergy[e]; h > 0 {
			lines = append(lines, fmt.Sprintf("%s : %.1fh", e, h))
		}
	}
	return lines
}

func (m Model) searchPanel() views.SearchPanel {
	panel := views.SearchPanel{Query: m.searchInput.View()}
	for _, res := range m.Search.Results {
		panel.Rows = append(panel.Rows, views.SearchRow{
			Title:  res.Task.Title,
			Score:  res.Score,
			Fields: res.Fields,
			Done:   res.Task.Completed,
		})
	}
	return panel
}

func (m Model) insightsPanel() views.InsightsPanel {
	panel := views.InsightsPanel{}
	for _, card := range m.Insights.Cards {
		panel.Cards = append(panel.Cards, views.InsightCard{
			Icon:        card.Icon,
			Title:       card.Title,
			Value:       card.Value,
			Description: card.Description,
			Trend:       string(card.Trend),
			TrendValue:  card.TrendValue,
		})
	}
	for _, point := range m.Insights.Stats.WeeklyTrend {
		panel.TrendLabels = append(panel.TrendLabels, point.Label)
		panel.TrendCompleted = append(panel.TrendCompleted, point.Completed)
	}
	return panel
}

func taskMeta(t model.Task) string {
	meta := string(t.Priority)
	if t.Energy != "" {
		meta += " @" + string(t.Energy)
	}
	if t.Size != "" {
		meta += " ~" + string(t.Size)
	}
	if t.DueDate != nil {
		meta += " " + t.DueDate.Format("02/01 15:04")
	}
	return meta
}
