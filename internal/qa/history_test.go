package qa

import (
	"context"
	"errors"
	"testing"
)

type scriptedAsker struct {
	answers map[string]string
}

func (a *scriptedAsker) AskQuestion(ctx context.Context, documentID, question string) (string, error) {
	if ans, ok := a.answers[question]; ok {
		return ans, nil
	}
	return "", errors.New("server error - please try again later")
}

func TestAskRecordsAnswer(t *testing.T) {
	h := NewHistory(&scriptedAsker{answers: map[string]string{"sample size?": "n = 120"}}, "doc1")
	e, err := h.Ask(context.Background(), "sample size?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Answer != "n = 120" {
		t.Fatalf("unexpected answer %q", e.Answer)
	}
	if len(h.Entries()) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(h.Entries()))
	}
}

func TestAskFailureScopedToEntry(t *testing.T) {
	h := NewHistory(&scriptedAsker{answers: map[string]string{"ok?": "yes"}}, "doc1")
	if _, err := h.Ask(context.Background(), "ok?"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Ask(context.Background(), "broken?"); err == nil {
		t.Fatal("expected error")
	}

	entries := h.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Err != "" || entries[0].Answer != "yes" {
		t.Fatalf("first entry contaminated: %#v", entries[0])
	}
	if entries[1].Err == "" {
		t.Fatal("second entry should carry the error")
	}

	// A later question still works; the failure did not poison the history.
	if _, err := h.Ask(context.Background(), "ok?"); err != nil {
		t.Fatal(err)
	}
}
