// Package search wraps an in-memory bleve index over the task collection.
// The index is rebuilt wholesale and swapped atomically; queries never fail,
// they degrade to an empty result set.
package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/char/asciifolding"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/letter"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveSearch "github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/palolo875/kairu/internal/model"
)

// Field boosts, highest first. Content aggregates free text and subtask text.
const (
	boostTitle       = 10.0
	boostTags        = 7.0
	boostDescription = 5.0
	boostContent     = 3.0
)

var taskFieldBoosts = map[string]float64{
	"title":       boostTitle,
	"tags":        boostTags,
	"description": boostDescription,
	"content":     boostContent,
}

// Result is one ranked hit with the fields the query matched in.
type Result struct {
	Task   model.Task
	Score  float64
	Fields []string
}

// Index is a rebuildable full-text index over tasks. Safe for concurrent use;
// Build replaces the underlying bleve index under the write lock.
type Index struct {
	mu    sync.RWMutex
	idx   bleve.Index
	tasks map[string]model.Task
}

func NewIndex() *Index {
	return &Index{tasks: make(map[string]model.Task)}
}

const foldingAnalyzer = "folding"

// queryFolder applies the same diacritic folding to query terms that the
// analyzer applies at index time. Prefix and fuzzy queries bypass analysis,
// so the fold must happen on both sides for "reunion" to hit "réunion".
var queryFolder = asciifolding.New()

func foldTerm(term string) string {
	return string(queryFolder.Filter([]byte(strings.ToLower(term))))
}

// newIndexMapping builds a mapping whose analyzer strips diacritics, then
// tokenizes on letters and lowercases. No stemming. Stemming an English way
// would corrupt French vocabulary.
func newIndexMapping(fields map[string]float64) (mapping.IndexMapping, error) {
	m := bleve.NewIndexMapping()
	err := m.AddCustomAnalyzer(foldingAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"char_filters":  []string{asciifolding.Name},
		"tokenizer":     letter.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, err
	}

	doc := bleve.NewDocumentMapping()
	for field := range fields {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = foldingAnalyzer
		doc.AddFieldMappingsAt(field, fm)
	}
	m.DefaultAnalyzer = foldingAnalyzer
	m.DefaultMapping = doc
	return m, nil
}

func taskDocument(task model.Task) map[string]interface{} {
	content := task.Content
	for _, sub := range task.Subtasks {
		content += " " + sub.Text
	}
	return map[string]interface{}{
		"title":       task.Title,
		"description": task.Description,
		"tags":        strings.Join(task.Tags, " "),
		"content":     content,
	}
}

// Build replaces the index with one over the given tasks. On failure the
// previous index stays in place and search runs in degraded mode against it.
func (ix *Index) Build(tasks []model.Task) error {
	m, err := newIndexMapping(taskFieldBoosts)
	if err != nil {
		return err
	}
	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return err
	}

	byID := make(map[string]model.Task, len(tasks))
	batch := idx.NewBatch()
	for _, task := range tasks {
		byID[task.ID] = task
		if err := batch.Index(task.ID, taskDocument(task)); err != nil {
			idx.Close()
			return err
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return err
	}

	ix.mu.Lock()
	old := ix.idx
	ix.idx = idx
	ix.tasks = byID
	ix.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// expandQuery turns each whitespace-separated term into a prefix-or-fuzzy
// disjunction across all boosted fields, tolerating partial typing and
// one-edit typos. Terms are OR'd together.
func expandQuery(raw string, boosts map[string]float64) query.Query {
	terms := strings.Fields(raw)
	if len(terms) == 0 {
		return nil
	}

	var clauses []query.Query
	for _, rawTerm := range terms {
		term := foldTerm(rawTerm)
		for field, boost := range boosts {
			prefix := bleve.NewPrefixQuery(term)
			prefix.SetField(field)
			prefix.SetBoost(boost)
			clauses = append(clauses, prefix)

			fuzzy := bleve.NewFuzzyQuery(term)
			fuzzy.SetField(field)
			fuzzy.SetBoost(boost)
			fuzzy.SetFuzziness(1)
			clauses = append(clauses, fuzzy)
		}
	}
	return bleve.NewDisjunctionQuery(clauses...)
}

// Search returns tasks ranked by relevance. A blank query, an unbuilt index
// or an engine error all yield an empty slice.
func (ix *Index) Search(raw string) []Result {
	return ix.search(raw, 0)
}

// QuickSearch caps the result list, for live as-you-type lookups.
func (ix *Index) QuickSearch(raw string, limit int) []Result {
	if limit <= 0 {
		return nil
	}
	return ix.search(raw, limit)
}

func (ix *Index) search(raw string, limit int) []Result {
	q := expandQuery(raw, taskFieldBoosts)
	if q == nil {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.idx == nil {
		return nil
	}

	size := limit
	if size == 0 {
		size = len(ix.tasks)
	}
	req := bleve.NewSearchRequestOptions(q, size, 0, false)
	req.IncludeLocations = true

	res, err := ix.idx.Search(req)
	if err != nil {
		return nil
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		task, ok := ix.tasks[hit.ID]
		if !ok {
			continue
		}
		results = append(results, Result{
			Task:   task,
			Score:  hit.Score,
			Fields: matchedFields(hit.Locations),
		})
	}
	return results
}

// matchedFields lists the document fields a hit matched in, sorted for
// stable output.
func matchedFields(locations bleveSearch.FieldTermLocationMap) []string {
	if len(locations) == 0 {
		return nil
	}
	fields := make([]string, 0, len(locations))
	for field := range locations {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
