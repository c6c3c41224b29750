package views

import (
	"fmt"
	"strings"
)

type ParsePreview struct {
	Title       string
	Type        string
	Priority    string
	Size        string
	Energy      string
	Due         string
	Tags        []string
	Subtasks    []string
	People      []string
	Confidence  int
	NeedsReview bool
}

type TaskLine struct {
	Title string
	Meta  string
	Done  bool
}

type CapturePanel struct {
	Input   string
	Preview *ParsePreview
	Recent  []TaskLine
}

type PlaylistRow struct {
	Title    string
	Score    int
	Hour     int
	Energy   string
	Size     string
	Priority string
	Done     bool
}

type PlaylistPanel struct {
	Rows   []PlaylistRow
	Cursor int
}

type WeeklyCell struct {
	Hours     float64
	Intensity float64
	Count     int
}

type WeeklyPanel struct {
	WeekLabel   string
	Days        []string
	Energies    []string
	Cells       [][]WeeklyCell
	Suggestions []string
	Stats       []string
}

type SearchRow struct {
	Title  string
	Score  float64
	Fields []string
	Done   bool
}

type SearchPanel struct {
	Query string
	Rows  []SearchRow
}

type InsightCard struct {
	Icon        string
	Title       string
	Value       string
	Description string
	Trend       string
	TrendValue  string
}

type InsightsPanel struct {
	Cards          []InsightCard
	TrendLabels    []string
	TrendCompleted []int
}

func RenderCapturePanel(data CapturePanel) string {
	var b strings.Builder
	b.WriteString("capture :\n")
	b.WriteString(data.Input + "\n")
	b.WriteString("actions : [entrée]ajouter [échap]annuler\n")
	if data.Preview != nil {
		b.WriteString("\naperçu :\n")
		b.WriteString(fmt.Sprintf("titre : %s\n", data.Preview.Title))
		writeField(&b, "type", data.Preview.Type)
		writeField(&b, "priorité", data.Preview.Priority)
		writeField(&b, "taille", data.Preview.Size)
		writeField(&b, "énergie", data.Preview.Energy)
		writeField(&b, "échéance", data.Preview.Due)
		if len(data.Preview.Tags) > 0 {
			b.WriteString(fmt.Sprintf("tags : #%s\n", strings.Join(data.Preview.Tags, " #")))
		}
		if len(data.Preview.People) > 0 {
			b.WriteString(fmt.Sprintf("personnes : %s\n", strings.Join(data.Preview.People, ", ")))
		}
		for _, sub := range data.Preview.Subtasks {
			b.WriteString(fmt.Sprintf("  - %s\n", sub))
		}
		b.WriteString(fmt.Sprintf("confiance : %d%%\n", data.Preview.Confidence))
		if data.Preview.NeedsReview {
			b.WriteString("⚠ vérification demandée avant enregistrement\n")
		}
	}
	if len(data.Recent) > 0 {
		b.WriteString("\nrécemment ajoutées :\n")
		for _, line := range data.Recent {
			b.WriteString(fmt.Sprintf("%s %s (%s)\n", checkbox(line.Done), line.Title, line.Meta))
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderPlaylistPanel(data PlaylistPanel) string {
	var b strings.Builder
	b.WriteString("playlist du jour :\n")
	b.WriteString("actions : [j/k]naviguer [x]terminer [a]archiver\n")
	if len(data.Rows) == 0 {
		b.WriteString("(aucune tâche pour aujourd'hui)")
		return strings.TrimSpace(b.String())
	}
	for i, row := range data.Rows {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		slot := fmt.Sprintf("%02dh", row.Hour)
		meta := row.Priority
		if row.Energy != "" {
			meta += " @" + row.Energy
		}
		if row.Size != "" {
			meta += " ~" + row.Size
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s (%s, score %d)\n", cursor, checkbox(row.Done), slot, row.Title, meta, row.Score))
	}
	return strings.TrimSpace(b.String())
}

func RenderWeeklyPanel(data WeeklyPanel) string {
	var b strings.Builder
	b.WriteString(data.WeekLabel + "\n")
	b.WriteString("actions : [h/l]semaine précédente/suivante [0]semaine courante\n\n")

	for row, energy := range data.Energies {
		b.WriteString(fmt.Sprintf("%-9s", energy))
		for day := 0; day < len(data.Days) && row < len(data.Cells); day++ {
			cell := data.Cells[row][day]
			b.WriteString(" " + heatGlyph(cell.Intensity))
		}
		b.WriteString("\n")
	}

	if len(data.Suggestions) > 0 {
		b.WriteString("\nsuggestions :\n")
		for _, s := range data.Suggestions {
			b.WriteString("• " + s + "\n")
		}
	}
	if len(data.Stats) > 0 {
		b.WriteString("\nbilan :\n")
		for _, s := range data.Stats {
			b.WriteString(s + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// WeeklyMarkdown builds the shareable weekly report rendered through
// RenderMarkdown.
func WeeklyMarkdown(data WeeklyPanel) string {
	var b strings.Builder
	b.WriteString("# " + data.WeekLabel + "\n\n")
	b.WriteString("| Énergie |")
	for _, d := range data.Days {
		b.WriteString(" " + d + " |")
	}
	b.WriteString("\n|---|")
	for range data.Days {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for row, energy := range data.Energies {
		b.WriteString("| " + energy + " |")
		for day := 0; day < len(data.Days) && row < len(data.Cells); day++ {
			cell := data.Cells[row][day]
			if cell.Hours > 0 {
				b.WriteString(fmt.Sprintf(" %.1fh |", cell.Hours))
			} else {
				b.WriteString(" · |")
			}
		}
		b.WriteString("\n")
	}
	if len(data.Suggestions) > 0 {
		b.WriteString("\n## Suggestions\n\n")
		for _, s := range data.Suggestions {
			b.WriteString("- " + s + "\n")
		}
	}
	if len(data.Stats) > 0 {
		b.WriteString("\n## Bilan\n\n")
		for _, s := range data.Stats {
			b.WriteString("- " + s + "\n")
		}
	}
	return b.String()
}

func RenderSearchPanel(data SearchPanel) string {
	var b strings.Builder
	b.WriteString("recherche :\n")
	b.WriteString(data.Query + "\n")
	b.WriteString("actions : [entrée]rechercher [échap]quitter la saisie\n")
	if len(data.Rows) == 0 {
		b.WriteString("(aucun résultat)")
		return strings.TrimSpace(b.String())
	}
	b.WriteString("\n")
	for _, row := range data.Rows {
		fields := ""
		if len(row.Fields) > 0 {
			fields = " [" + strings.Join(row.Fields, ", ") + "]"
		}
		b.WriteString(fmt.Sprintf("%s %s (%.2f)%s\n", checkbox(row.Done), row.Title, row.Score, fields))
	}
	return strings.TrimSpace(b.String())
}

func RenderInsightsPanel(data InsightsPanel) string {
	var b strings.Builder
	b.WriteString("insights :\n")
	for _, card := range data.Cards {
		b.WriteString(fmt.Sprintf("\n%s %s : %s\n", card.Icon, card.Title, card.Value))
		b.WriteString(fmt.Sprintf("  %s (%s %s)\n", card.Description, trendArrow(card.Trend), card.TrendValue))
	}
	if len(data.TrendLabels) > 0 {
		b.WriteString("\ntendance :")
		for i, label := range data.TrendLabels {
			b.WriteString(fmt.Sprintf(" %s=%d", label, data.TrendCompleted[i]))
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderPalette(inputView string) string {
	var b strings.Builder
	b.WriteString("palette :\n")
	b.WriteString(inputView + "\n")
	b.WriteString("commandes : add, search, week, archive, export\n")
	b.WriteString("actions : [entrée]exécuter [échap]fermer")
	return b.String()
}

func RenderHelp() string {
	var b strings.Builder
	b.WriteString("aide :\n")
	b.WriteString("1-5 : changer de vue\n")
	b.WriteString("/ : palette de commandes\n")
	b.WriteString("? : afficher/masquer l'aide\n")
	b.WriteString("q : quitter")
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(fmt.Sprintf("%s : %s\n", label, value))
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func heatGlyph(intensity float64) string {
	switch {
	case intensity <= 0:
		return "·"
	case intensity < 25:
		return "░"
	case intensity < 50:
		return "▒"
	case intensity < 75:
		return "▓"
	default:
		return "█"
	}
}

func trendArrow(trend string) string {
	switch trend {
	case "up":
		return "↑"
	case "down":
		return "↓"
	default:
		return "→"
	}
}
