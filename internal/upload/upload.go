// Package upload is the user-facing entry into the processing cycle:
// validate the file client-side, submit it, and hand back the initial
// all-pending view model for the watcher to own.
package upload

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"papertldr/internal/client"
	"papertldr/internal/models"

	"github.com/ledongthuc/pdf"
)

// Submitter is the slice of the service client the upload flow needs.
type Submitter interface {
	SubmitDocument(ctx context.Context, filename string, data []byte) (models.DocumentState, error)
}

// Validate rejects anything that is not a readable PDF before a single
// network call is made. The sniff mirrors the browser MIME check; the parse
// check catches files that merely wear a .pdf extension.
func Validate(filename string, data []byte) error {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return &client.Error{Kind: client.KindValidation, Detail: "only PDF files are supported"}
	}
	if http.DetectContentType(data) != "application/pdf" {
		return &client.Error{Kind: client.KindValidation, Detail: "only PDF files are supported"}
	}
	if _, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		return &client.Error{Kind: client.KindValidation, Detail: "file is not a readable PDF", Err: err}
	}
	return nil
}

// Submit validates and uploads the document. A validation failure is
// surfaced synchronously and never starts a polling session.
func Submit(ctx context.Context, s Submitter, filename string, data []byte) (models.DocumentState, error) {
	if err := Validate(filename, data); err != nil {
		return models.DocumentState{}, err
	}
	return s.SubmitDocument(ctx, filename, data)
}
