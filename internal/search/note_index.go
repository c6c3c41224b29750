package search

import (
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/palolo875/kairu/internal/model"
)

var noteFieldBoosts = map[string]float64{
	"intention": 10.0,
	"notebook":  8.0,
}

// NoteResult is one ranked daily-note hit.
type NoteResult struct {
	Note   model.DailyNote
	Score  float64
	Fields []string
}

// NoteIndex mirrors Index for daily notes: intention and notebook text,
// rebuilt wholesale.
type NoteIndex struct {
	mu    sync.RWMutex
	idx   bleve.Index
	notes map[string]model.DailyNote
}

func NewNoteIndex() *NoteIndex {
	return &NoteIndex{notes: make(map[string]model.DailyNote)}
}

func (nx *NoteIndex) Build(notes []model.DailyNote) error {
	m, err := newIndexMapping(noteFieldBoosts)
	if err != nil {
		return err
	}
	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return err
	}

	byID := make(map[string]model.DailyNote, len(notes))
	batch := idx.NewBatch()
	for _, note := range notes {
		byID[note.ID] = note
		doc := map[string]interface{}{
			"intention": note.Intention,
			"notebook":  note.Notebook,
		}
		if err := batch.Index(note.ID, doc); err != nil {
			idx.Close()
			return err
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return err
	}

	nx.mu.Lock()
	old := nx.idx
	nx.idx = idx
	nx.notes = byID
	nx.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

func (nx *NoteIndex) Search(raw string) []NoteResult {
	q := expandQuery(raw, noteFieldBoosts)
	if q == nil {
		return nil
	}

	nx.mu.RLock()
	defer nx.mu.RUnlock()
	if nx.idx == nil {
		return nil
	}

	req := bleve.NewSearchRequestOptions(q, len(nx.notes), 0, false)
	req.IncludeLocations = true

	res, err := nx.idx.Search(req)
	if err != nil {
		return nil
	}

	results := make([]NoteResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		note, ok := nx.notes[hit.ID]
		if !ok {
			continue
		}
		results = append(results, NoteResult{
			Note:   note,
			Score:  hit.Score,
			Fields: matchedFields(hit.Locations),
		})
	}
	return results
}
