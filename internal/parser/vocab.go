package parser

import (
	"regexp"

	"github.com/palolo875/kairu/internal/model"
)

// The vocabularies below are static ordered tables. Category order is part of
// the contract: categories are mutually exclusive, the first hit wins, and
// within a category the first matching pattern wins.

type typeEntry struct {
	taskType model.TaskType
	prefixes []string
}

// typeTable matches leading keyword phrases. "note" style captures fold into
// the idea type since the task model has no note type of its own.
var typeTable = []typeEntry{
	{model.TaskTypeTask, []string{"tâche", "tache", "task", "à faire", "faire", "todo"}},
	{model.TaskTypeIdea, []string{"idée", "idee", "idea", "suggestion", "note", "noter", "rappel", "mémo"}},
	{model.TaskTypeQuestion, []string{"question", "pourquoi", "comment", "quoi", "qui"}},
	{model.TaskTypeLink, []string{"lien", "link", "url", "site"}},
}

type priorityEntry struct {
	priority model.Priority
	keywords []string
}

var priorityTable = []priorityEntry{
	{model.PriorityUrgent, []string{"urgent", "urgente", "asap", "critique", "immédiat", "immédiate", "tout de suite"}},
	{model.PriorityHigh, []string{"important", "importante", "prioritaire", "essentiel", "essentielle", "rapidement"}},
	{model.PriorityMedium, []string{"moyen", "moyenne", "normal", "normale"}},
	{model.PriorityLow, []string{"bas", "basse", "peu important", "peu importante", "quand possible"}},
}

type energyEntry struct {
	energy   model.Energy
	keywords []string
}

var energyTable = []energyEntry{
	{model.EnergyDeep, []string{"🧠", "deepwork", "deep work", "concentration", "focus", "complexe", "réfléchir", "réflexion", "analyse", "analyser"}},
	{model.EnergyCreative, []string{"✨", "créatif", "créative", "creative", "création", "design", "brainstorm", "imaginer"}},
	{model.EnergyLearning, []string{"📚", "apprentissage", "learning", "apprendre", "étude", "étudier", "formation", "cours", "lire"}},
	{model.EnergyAdmin, []string{"💬", "admin", "administratif", "email", "emails", "réunion", "meeting", "appel", "organiser"}},
	{model.EnergyLight, []string{"🔧", "léger", "légère", "light", "facile", "rapide", "simple", "vite"}},
}

type sizeEntry struct {
	size     model.Size
	keywords []string
}

var sizeTable = []sizeEntry{
	{model.SizeS, []string{"petit", "petite", "rapide", "quick", "5 min", "10 min", "court", "courte"}},
	{model.SizeM, []string{"moyen", "moyenne", "medium", "30 min", "1h", "1 heure", "normal"}},
	{model.SizeL, []string{"grand", "grande", "gros", "grosse", "long", "longue", "large", "plusieurs heures", "2h", "3h"}},
}

type dateEntry struct {
	pattern *regexp.Regexp
	offset  int
	capture bool // offset comes from the first capture group ("dans N jours")
}

// dateTable resolves relative-date phrases to a day offset from "now".
// "après-demain" sits before "demain" so the longer phrase wins.
var dateTable = []dateEntry{
	{pattern: regexp.MustCompile(`(?i)aujourd'?hui|\btoday\b`), offset: 0},
	{pattern: regexp.MustCompile(`(?i)(?:après|apres)[- ]?demain`), offset: 2},
	{pattern: regexp.MustCompile(`(?i)\bdemain\b|\btomorrow\b`), offset: 1},
	{pattern: regexp.MustCompile(`(?i)dans (\d+) jours?`), capture: true},
	{pattern: regexp.MustCompile(`(?i)cette semaine`), offset: 3},
	{pattern: regexp.MustCompile(`(?i)semaine prochaine`), offset: 7},
}

var (
	priorityShorthandRe = regexp.MustCompile(`!{1,3}`)
	sizeShorthandRe     = regexp.MustCompile(`@([SMLsml])`)
	tagRe               = regexp.MustCompile(`#(\w+)`)
	checkboxLineRe      = regexp.MustCompile(`(?m)^\s*- \[ \]\s*(.+)$`)
	bulletLineRe        = regexp.MustCompile(`(?m)^\s*[-•*]\s*(.+)$`)
	numberedLineRe      = regexp.MustCompile(`(?m)^\s*\d+[.)]\s*(.+)$`)
	bareSizeTokenRe     = regexp.MustCompile(`\b[SML]\b`)
	whitespaceRe        = regexp.MustCompile(`\s+`)
)
