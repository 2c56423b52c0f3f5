package upload

import (
	"context"
	"testing"

	"papertldr/internal/client"
	"papertldr/internal/models"
)

type stubSubmitter struct {
	called bool
}

func (s *stubSubmitter) SubmitDocument(ctx context.Context, filename string, data []byte) (models.DocumentState, error) {
	s.called = true
	return models.DocumentState{DocumentID: "doc1", ProcessingStatus: models.StatusProcessing}, nil
}

func TestValidateRejectsWrongExtension(t *testing.T) {
	err := Validate("notes.txt", []byte("%PDF-1.4"))
	if err == nil {
		t.Fatal("expected error")
	}
	if client.KindOf(err) != client.KindValidation {
		t.Fatalf("got kind %s", client.KindOf(err))
	}
}

func TestValidateRejectsWrongContent(t *testing.T) {
	err := Validate("paper.pdf", []byte("plain text pretending to be a pdf"))
	if err == nil {
		t.Fatal("expected error")
	}
	if client.KindOf(err) != client.KindValidation {
		t.Fatalf("got kind %s", client.KindOf(err))
	}
}

func TestValidateRejectsCorruptPDF(t *testing.T) {
	// Right magic bytes, no readable structure behind them.
	err := Validate("paper.pdf", []byte("%PDF-1.4 but nothing else"))
	if err == nil {
		t.Fatal("expected error")
	}
	if client.KindOf(err) != client.KindValidation {
		t.Fatalf("got kind %s", client.KindOf(err))
	}
}

func TestSubmitNeverCallsGatewayOnValidationFailure(t *testing.T) {
	s := &stubSubmitter{}
	_, err := Submit(context.Background(), s, "notes.txt", []byte("hello"))
	if err == nil {
		t.Fatal("expected error")
	}
	if s.called {
		t.Fatal("gateway must not be called for an invalid file")
	}
}
