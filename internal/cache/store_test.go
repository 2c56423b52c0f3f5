package cache

import (
	"reflect"
	"testing"

	"papertldr/internal/models"
)

func sampleState(id string) models.DocumentState {
	return models.DocumentState{
		DocumentID:       id,
		Filename:         "paper.pdf",
		ProcessingStatus: models.StatusProcessing,
		TotalSections:    2,
		Sections: []models.Section{
			{Title: "Methods", SectionType: models.SectionMethodology, Status: models.SectionCompleted, TLDR: &models.TLDR{Text: "short"}},
			{Title: "Results", SectionType: models.SectionResults, Status: models.SectionPending},
		},
	}
}

func TestGetAfterPutReturnsSameState(t *testing.T) {
	s := New()
	st := sampleState("doc1")
	s.Put("doc1", st)
	got, ok := s.Get("doc1")
	if !ok {
		t.Fatal("expected cached entry")
	}
	if !reflect.DeepEqual(got, st) {
		t.Fatalf("cached state differs: %#v", got)
	}
}

func TestGetAbsent(t *testing.T) {
	s := New()
	if _, ok := s.Get("missing"); ok {
		t.Fatal("expected absent entry")
	}
}

func TestClear(t *testing.T) {
	s := New()
	s.Put("doc1", sampleState("doc1"))
	s.Clear("doc1")
	if _, ok := s.Get("doc1"); ok {
		t.Fatal("expected entry cleared")
	}
}

func TestClearAll(t *testing.T) {
	s := New()
	s.Put("doc1", sampleState("doc1"))
	s.Put("doc2", sampleState("doc2"))
	s.ClearAll()
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d entries", s.Len())
	}
}

func TestStoreIsolatesCallersFromCachedCopy(t *testing.T) {
	s := New()
	st := sampleState("doc1")
	s.Put("doc1", st)

	// Mutating the original after Put must not leak into the cache.
	st.Sections[1].Status = models.SectionError
	got, _ := s.Get("doc1")
	if got.Sections[1].Status != models.SectionPending {
		t.Fatal("Put stored a shared slice")
	}

	// Mutating what Get returned must not leak either.
	got.Sections[0].TLDR.Text = "mutated"
	again, _ := s.Get("doc1")
	if again.Sections[0].TLDR.Text != "short" {
		t.Fatal("Get returned a shared payload")
	}
}
