package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"papertldr/internal/config"
	"papertldr/internal/models"
	"papertldr/internal/util"
)

// Client talks to the summarization service over HTTP. All operations retry
// internally with exponential backoff; uploads get a smaller budget because
// they are user-triggered and should fail fast.
type Client struct {
	baseURL       string
	httpc         *http.Client
	maxRetries    int
	uploadRetries int
	sleep         func(ctx context.Context, d time.Duration) error
}

func New(cfg config.Config) *Client {
	base := strings.TrimRight(cfg.APIBase, "/")
	if base == "" {
		base = "http://127.0.0.1:8000"
	}
	timeout := time.Duration(cfg.HTTPTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	uploadRetries := cfg.UploadRetries
	if uploadRetries <= 0 {
		uploadRetries = 2
	}
	return &Client{
		baseURL:       base,
		httpc:         &http.Client{Timeout: timeout},
		maxRetries:    maxRetries,
		uploadRetries: uploadRetries,
		sleep:         util.SleepCtx,
	}
}

type uploadResponse struct {
	DocumentID    string `json:"document_id"`
	Filename      string `json:"filename"`
	TotalSections int    `json:"total_sections"`
	Sections      []struct {
		Index     int    `json:"index"`
		Title     string `json:"title"`
		Text      string `json:"text"`
		WordCount int    `json:"word_count"`
		Preview   string `json:"preview"`
	} `json:"sections"`
}

// SubmitDocument uploads PDF bytes and returns the initial view model:
// status processing, every section pending with no summary yet. The caller
// must have validated the file is a PDF; the gateway does not re-check.
func (c *Client) SubmitDocument(ctx context.Context, filename string, data []byte) (models.DocumentState, error) {
	build := func(ctx context.Context) (*http.Request, error) {
		buf := new(bytes.Buffer)
		mw := multipart.NewWriter(buf)
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(data); err != nil {
			return nil, err
		}
		if err := mw.Close(); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload_pdf", buf)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req, nil
	}
	body, err := c.doRequest(ctx, build, c.uploadRetries)
	if err != nil {
		return models.DocumentState{}, err
	}
	var parsed uploadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return models.DocumentState{}, &Error{Kind: KindRequestFailed, Detail: "decode upload response failed", Err: err}
	}
	sections := make([]models.Section, len(parsed.Sections))
	for i, s := range parsed.Sections {
		sections[i] = models.Section{
			Title:       s.Title,
			SectionType: models.SectionOther,
			Status:      models.SectionPending,
		}
	}
	return models.DocumentState{
		DocumentID:       parsed.DocumentID,
		Filename:         parsed.Filename,
		ProcessingStatus: models.StatusProcessing,
		TotalSections:    parsed.TotalSections,
		Sections:         sections,
	}, nil
}

// FetchStatus returns the current processing state for a document. The
// polling loop always passes wait=false so a status round trip never hangs
// waiting for the whole document server-side.
func (c *Client) FetchStatus(ctx context.Context, documentID string, wait bool) (models.DocumentState, error) {
	build := func(ctx context.Context) (*http.Request, error) {
		q := url.Values{}
		q.Set("document_id", documentID)
		q.Set("wait", strconv.FormatBool(wait))
		return http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tldr?"+q.Encode(), nil)
	}
	body, err := c.doRequest(ctx, build, c.maxRetries)
	if err != nil {
		return models.DocumentState{}, err
	}
	var state models.DocumentState
	if err := json.Unmarshal(body, &state); err != nil {
		return models.DocumentState{}, &Error{Kind: KindRequestFailed, Detail: "decode status response failed", Err: err}
	}
	return state, nil
}

// AskQuestion submits a free-form question scoped to one document.
func (c *Client) AskQuestion(ctx context.Context, documentID, question string) (string, error) {
	build := func(ctx context.Context) (*http.Request, error) {
		buf := new(bytes.Buffer)
		mw := multipart.NewWriter(buf)
		if err := mw.WriteField("document_id", documentID); err != nil {
			return nil, err
		}
		if err := mw.WriteField("question", question); err != nil {
			return nil, err
		}
		if err := mw.Close(); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/qna", buf)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req, nil
	}
	body, err := c.doRequest(ctx, build, c.maxRetries)
	if err != nil {
		return "", err
	}
	var parsed struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &Error{Kind: KindRequestFailed, Detail: "decode answer failed", Err: err}
	}
	return parsed.Answer, nil
}

// Ping checks service reachability with a single HEAD request, no retries,
// and reports the round-trip latency.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return 0, &Error{Kind: KindRequestFailed, Detail: "build request failed", Err: err}
	}
	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, &Error{Kind: KindRequestFailed, Detail: "service unreachable: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return 0, &Error{Kind: KindRequestFailed, Detail: fmt.Sprintf("service unhealthy: status %d", resp.StatusCode), Status: resp.StatusCode}
	}
	return time.Since(start), nil
}
