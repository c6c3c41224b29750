// Package parser turns free-form task input (French first, English tolerated)
// into a structured partial task. Parsing is a pure function of the input text
// and the caller-supplied reference time; no field is ever required to match,
// and unmatched input degrades to a plain medium-priority task.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/palolo875/kairu/internal/model"
)

// ReviewThreshold is the confidence below which callers should ask the user to
// confirm the silent defaults instead of auto-accepting them.
const ReviewThreshold = 0.8

// DateResolver is an optional natural-language date capability. The built-in
// relative-date table works without one; a resolver only adds coverage.
type DateResolver interface {
	ResolveDates(text string, reference time.Time) []time.Time
}

// PeopleExtractor is an optional named-entity capability.
type PeopleExtractor interface {
	ExtractPeople(text string) []string
}

type Result struct {
	Raw        string
	CleanText  string
	Type       model.TaskType
	Priority   model.Priority // empty when not inferred
	Size       model.Size     // empty when not inferred
	Energy     model.Energy   // empty when not inferred
	Tags       []string
	DueDate    *time.Time
	Subtasks   []string
	People     []string
	Confidence float64
}

// NeedsReview reports whether the parse left enough ambiguity that the caller
// should prompt for disambiguation.
func (r Result) NeedsReview() bool {
	return r.Confidence < ReviewThreshold
}

type Parser struct {
	dates  DateResolver
	people PeopleExtractor
}

type Option func(*Parser)

func WithDateResolver(d DateResolver) Option {
	return func(p *Parser) { p.dates = d }
}

func WithPeopleExtractor(e PeopleExtractor) Option {
	return func(p *Parser) { p.people = e }
}

func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is a convenience wrapper using a parser without optional capabilities.
func Parse(input string, now time.Time) Result {
	return New().Parse(input, now)
}

func (p *Parser) Parse(input string, now time.Time) Result {
	res := Result{
		Raw:        input,
		Type:       model.TaskTypeTask,
		Tags:       []string{},
		Subtasks:   []string{},
		Confidence: 0.5,
	}
	working := input
	lower := strings.ToLower(input)

	working = res.matchType(working, lower)
	working = res.matchPriority(working, lower)
	working = res.matchEnergy(working, lower)
	working = res.matchSize(working, lower)
	working = res.matchTags(working)
	working = p.matchDueDate(&res, working, now)
	working = res.matchSubtasks(working)

	if p.people != nil {
		res.People = p.people.ExtractPeople(input)
	}

	res.CleanText = cleanup(working)
	if res.Confidence > 1.0 {
		res.Confidence = 1.0
	}
	return res
}

func (r *Result) matchType(working, lower string) string {
	for _, entry := range typeTable {
		for _, prefix := range entry.prefixes {
			if !strings.HasPrefix(lower, prefix) {
				continue
			}
			r.Type = entry.taskType
			r.Confidence += 0.1
			strip := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(prefix) + `\s*:?\s*`)
			return strip.ReplaceAllString(working, "")
		}
	}
	return working
}

func (r *Result) matchPriority(working, lower string) string {
	if shorthand := priorityShorthandRe.FindString(working); shorthand != "" {
		switch len(shorthand) {
		case 3:
			r.Priority = model.PriorityUrgent
		case 2:
			r.Priority = model.PriorityHigh
		default:
			r.Priority = model.PriorityLow
		}
		r.Confidence += 0.2
		return priorityShorthandRe.ReplaceAllString(working, "")
	}
	for _, entry := range priorityTable {
		for _, keyword := range entry.keywords {
			if !hasWord(lower, keyword) {
				continue
			}
			r.Priority = entry.priority
			r.Confidence += 0.15
			return removeWord(working, keyword)
		}
	}
	return working
}

func (r *Result) matchEnergy(working, lower string) string {
	for _, entry := range energyTable {
		for _, keyword := range entry.keywords {
			if !hasWord(lower, keyword) {
				continue
			}
			r.Energy = entry.energy
			r.Confidence += 0.15
			return removeWord(working, keyword)
		}
	}
	return working
}

func (r *Result) matchSize(working, lower string) string {
	if m := sizeShorthandRe.FindStringSubmatch(working); m != nil {
		r.Size = model.Size(strings.ToUpper(m[1]))
		r.Confidence += 0.15
		return sizeShorthandRe.ReplaceAllString(working, "")
	}
	for _, entry := range sizeTable {
		for _, keyword := range entry.keywords {
			if !hasWord(lower, keyword) {
				continue
			}
			r.Size = entry.size
			r.Confidence += 0.1
			return removeWord(working, keyword)
		}
	}
	return working
}

func (r *Result) matchTags(working string) string {
	matches := tagRe.FindAllStringSubmatch(working, -1)
	if len(matches) == 0 {
		return working
	}
	for _, m := range matches {
		r.Tags = append(r.Tags, m[1])
	}
	r.Confidence += 0.1
	return tagRe.ReplaceAllString(working, "")
}

func (p *Parser) matchDueDate(r *Result, working string, now time.Time) string {
	dated := false
	if p.dates != nil {
		if dates := p.dates.ResolveDates(r.Raw, now); len(dates) > 0 {
			due := dates[0]
			r.DueDate = &due
			r.Confidence += 0.1
			dated = true
		}
	}
	for _, entry := range dateTable {
		m := entry.pattern.FindStringSubmatch(working)
		if m == nil {
			continue
		}
		offset := entry.offset
		if entry.capture {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			offset = n
		}
		due := model.EndOfDay(now.AddDate(0, 0, offset))
		r.DueDate = &due
		// A date marker counts toward confidence once, even when the
		// resolver already claimed it.
		if !dated {
			r.Confidence += 0.1
		}
		return entry.pattern.ReplaceAllString(working, "")
	}
	return working
}

func (r *Result) matchSubtasks(working string) string {
	for _, re := range []*regexp.Regexp{checkboxLineRe, bulletLineRe, numberedLineRe} {
		matches := re.FindAllStringSubmatch(working, -1)
		if len(matches) == 0 {
			continue
		}
		for _, m := range matches {
			r.Subtasks = append(r.Subtasks, strings.TrimSpace(m[1]))
		}
		return re.ReplaceAllString(working, "")
	}
	return working
}

// isWordRune reports whether r can be part of a vocabulary word. Emoji and
// punctuation act as boundaries, so emoji keywords match anywhere.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// boundedAt reports whether the span [start, start+length) in s is delimited
// by word boundaries. Only the sides of the span that are themselves word
// runes need a boundary, so an emoji token glued to a word still counts.
// Regexp \b cannot be used here because RE2 boundaries are ASCII-only and
// miss keywords starting with accented letters.
func boundedAt(s string, start, length int) bool {
	if first, _ := utf8.DecodeRuneInString(s[start:]); isWordRune(first) {
		if before, _ := utf8.DecodeLastRuneInString(s[:start]); isWordRune(before) {
			return false
		}
	}
	if last, _ := utf8.DecodeLastRuneInString(s[start : start+length]); isWordRune(last) {
		if after, _ := utf8.DecodeRuneInString(s[start+length:]); isWordRune(after) {
			return false
		}
	}
	return true
}

// hasWord reports whether token occurs in lower as a whole word. A hit inside
// a longer word ("appel" inside "appeler") does not count.
func hasWord(lower, token string) bool {
	from := 0
	for {
		i := strings.Index(lower[from:], token)
		if i < 0 {
			return false
		}
		i += from
		if boundedAt(lower, i, len(token)) {
			return true
		}
		from = i + len(token)
	}
}

// removeWord strips every case-insensitive whole-word occurrence of a matched
// vocabulary token so the clean text never echoes inferred markers back as
// title content. Occurrences embedded in longer words are left intact.
func removeWord(text, token string) string {
	var b strings.Builder
	i := 0
	for i < len(text) {
		if len(text)-i >= len(token) &&
			strings.EqualFold(text[i:i+len(token)], token) &&
			boundedAt(text, i, len(token)) {
			i += len(token)
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		b.WriteString(text[i : i+size])
		i += size
	}
	return b.String()
}

func cleanup(text string) string {
	text = priorityShorthandRe.ReplaceAllString(text, "")
	text = bareSizeTokenRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ToTask materialises a parse result into a full task record.
func ToTask(res Result, now time.Time) model.Task {
	title := res.CleanText
	if title == "" {
		title = strings.TrimSpace(res.Raw)
	}
	priority := res.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	subtasks := make([]model.Subtask, 0, len(res.Subtasks))
	for _, text := range res.Subtasks {
		subtasks = append(subtasks, model.Subtask{ID: uuid.NewString(), Text: text})
	}
	return model.Task{
		ID:        uuid.NewString(),
		Type:      res.Type,
		Title:     title,
		Subtasks:  subtasks,
		Tags:      res.Tags,
		Priority:  priority,
		Size:      res.Size,
		Energy:    res.Energy,
		DueDate:   res.DueDate,
		CreatedAt: now,
	}
}
