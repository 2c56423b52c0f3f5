package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"papertldr/internal/config"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestBackoffDelaySequence(t *testing.T) {
	want := []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second,
		10 * time.Second,
	}
	for i, w := range want {
		if got := backoffDelay(i + 1); got != w {
			t.Fatalf("attempt %d: got %s want %s", i+1, got, w)
		}
	}
}

func TestDoRequestPropagatesLastErrorAfterBudget(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(config.Config{APIBase: srv.URL, MaxRetries: 3})
	c.sleep = noSleep
	_, err := c.FetchStatus(context.Background(), "doc1", false)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if KindOf(err) != KindServerError {
		t.Fatalf("expected server error kind, got %s", KindOf(err))
	}
}

func TestDoRequestSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"document_id":"doc1","processing_status":"processing","sections":[]}`))
	}))
	defer srv.Close()

	c := New(config.Config{APIBase: srv.URL, MaxRetries: 3})
	c.sleep = noSleep
	st, err := c.FetchStatus(context.Background(), "doc1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.DocumentID != "doc1" {
		t.Fatalf("unexpected document: %q", st.DocumentID)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoRequestHonorsCancellationDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(config.Config{APIBase: srv.URL, MaxRetries: 3})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	_, err := c.FetchStatus(ctx, "doc1", false)
	if err == nil {
		t.Fatal("expected error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("canceled request still slept %s", elapsed)
	}
}
