// Package qa tracks question/answer exchanges for one document. A failed
// question is recorded on its own entry and never affects document state.
package qa

import (
	"context"
	"sync"
)

// Asker is the slice of the service client the Q&A flow needs.
type Asker interface {
	AskQuestion(ctx context.Context, documentID, question string) (string, error)
}

type Entry struct {
	Question string
	Answer   string
	Err      string
}

// History is the per-document Q&A transcript.
type History struct {
	asker      Asker
	documentID string

	mu      sync.Mutex
	entries []Entry
}

func NewHistory(asker Asker, documentID string) *History {
	return &History{asker: asker, documentID: documentID}
}

// Ask submits the question and appends the outcome to the transcript. The
// returned error carries the client taxonomy; it is also recorded on the
// entry so the transcript stays self-contained.
func (h *History) Ask(ctx context.Context, question string) (Entry, error) {
	answer, err := h.asker.AskQuestion(ctx, h.documentID, question)
	e := Entry{Question: question, Answer: answer}
	if err != nil {
		e.Err = err.Error()
	}
	h.mu.Lock()
	h.entries = append(h.entries, e)
	h.mu.Unlock()
	return e, err
}

// Entries returns a copy of the transcript in ask order.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Entry(nil), h.entries...)
}
