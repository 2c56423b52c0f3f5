// Package poller owns the document processing state machine. A Watcher
// drives one session per uploaded document: while the document is
// processing it arms a single cancellable timer, polls the service with
// wait=false, reconciles the response into the view model and caches it.
// Completed and error are sinks; only a user-initiated Retry re-enters
// processing.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"papertldr/internal/cache"
	"papertldr/internal/models"
	"papertldr/internal/util"

	"github.com/google/uuid"
)

// DefaultInterval is the delay between status polls.
const DefaultInterval = 3 * time.Second

// Gateway is the slice of the service client the watcher needs.
type Gateway interface {
	FetchStatus(ctx context.Context, documentID string, wait bool) (models.DocumentState, error)
}

// Watcher tracks a long-running summarization job through polling. Interval
// and OnUpdate must be set before Start. OnUpdate receives a cloned
// snapshot after every state change, in the order the changes were applied;
// at most one poll is in flight per session.
type Watcher struct {
	Interval time.Duration
	OnUpdate func(models.DocumentState)

	gateway Gateway
	store   *cache.Store

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	doc       *models.DocumentState
	pollCount int
	sessionID string
}

func NewWatcher(gw Gateway, store *cache.Store) *Watcher {
	return &Watcher{gateway: gw, store: store}
}

// Start begins a polling session for a freshly uploaded document, canceling
// any previous session. Returns a session id for log correlation.
func (w *Watcher) Start(doc models.DocumentState) string {
	w.mu.Lock()
	w.stopLocked()
	w.gen++
	gen := w.gen
	d := doc.Clone()
	w.doc = &d
	w.pollCount = 0
	w.sessionID = uuid.NewString()
	sid := w.sessionID
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	cb := w.OnUpdate
	w.mu.Unlock()

	if cb != nil {
		cb(doc.Clone())
	}
	go w.run(ctx, gen)
	return sid
}

// Retry clears a terminal error and restarts the cycle from the top. The
// document is not resubmitted; the service retains the upload.
func (w *Watcher) Retry() error {
	w.mu.Lock()
	if w.doc == nil {
		w.mu.Unlock()
		return errors.New("no active document")
	}
	if w.doc.ProcessingStatus != models.StatusError {
		w.mu.Unlock()
		return errors.New("retry is only valid from the error state")
	}
	w.stopLocked()
	w.gen++
	gen := w.gen
	w.doc.Error = ""
	w.doc.ProcessingStatus = models.StatusProcessing
	w.pollCount = 0
	snapshot := w.doc.Clone()
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	cb := w.OnUpdate
	w.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
	go w.run(ctx, gen)
	return nil
}

// Reset discards the document entirely and returns the watcher to its
// pre-upload condition. The cache entry is deliberately retained so a
// revisit of the same document can skip polling.
func (w *Watcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
	w.gen++
	w.doc = nil
	w.pollCount = 0
	w.sessionID = ""
}

// Stop cancels the session without discarding the view model. A poll that
// is scheduled or already in flight will neither fire nor be applied.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
	w.gen++
}

// State returns a snapshot of the current view model.
func (w *Watcher) State() (models.DocumentState, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.doc == nil {
		return models.DocumentState{}, false
	}
	return w.doc.Clone(), true
}

// PollCount reports how many status polls the current session has applied.
func (w *Watcher) PollCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pollCount
}

func (w *Watcher) stopLocked() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func (w *Watcher) run(ctx context.Context, gen uint64) {
	for {
		doc, ok := w.current(gen)
		if !ok || doc.Terminal() {
			return
		}

		// A prior session that already finished lets us skip the network
		// entirely. The cache is never authoritative for anything else.
		if cached, ok := w.store.Get(doc.DocumentID); ok && cached.ProcessingStatus == models.StatusCompleted {
			doc.ProcessingStatus = models.StatusCompleted
			doc.Sections = cached.Sections
			w.apply(gen, doc)
			return
		}

		if err := util.SleepCtx(ctx, w.interval()); err != nil {
			return
		}

		res, err := w.gateway.FetchStatus(ctx, doc.DocumentID, false)
		if ctx.Err() != nil {
			// Torn down while the request was in flight; the result must
			// not touch a discarded view model.
			return
		}
		if err != nil {
			// The retry budget was already spent inside the HTTP client;
			// this is terminal until a human retries.
			doc.ProcessingStatus = models.StatusError
			doc.Error = err.Error()
			w.apply(gen, doc)
			return
		}

		w.store.Put(doc.DocumentID, res)

		doc.ProcessingStatus = res.ProcessingStatus
		doc.Sections = res.Sections
		if doc.AllSectionsCompleted() {
			// Section-level truth wins over the server's top-level field.
			doc.ProcessingStatus = models.StatusCompleted
		}
		if doc.ProcessingStatus == models.StatusError {
			doc.Error = res.Error
			if doc.Error == "" {
				doc.Error = "processing failed"
			}
		}
		w.countPoll(gen)
		if !w.apply(gen, doc) {
			return
		}
	}
}

func (w *Watcher) interval() time.Duration {
	if w.Interval > 0 {
		return w.Interval
	}
	return DefaultInterval
}

func (w *Watcher) current(gen uint64) (models.DocumentState, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen || w.doc == nil {
		return models.DocumentState{}, false
	}
	return w.doc.Clone(), true
}

// apply installs the new state if the session is still current and notifies
// the subscriber. A stale generation means the session was reset or retried
// while this update was being produced, so it is dropped.
func (w *Watcher) apply(gen uint64, doc models.DocumentState) bool {
	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		return false
	}
	d := doc.Clone()
	w.doc = &d
	cb := w.OnUpdate
	w.mu.Unlock()

	if cb != nil {
		cb(doc.Clone())
	}
	return true
}

func (w *Watcher) countPoll(gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen == w.gen {
		w.pollCount++
	}
}
