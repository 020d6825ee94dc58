package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultQuietPeriod = 500 * time.Millisecond

const autosaveTimeout = 10 * time.Second

// DraftAutosaver coalesces high-frequency edits (drag updates, theme clicks)
// into at most one store write per quiet period. Each ScheduleSave replaces the
// pending snapshot and restarts the timer, so only the last snapshot within a
// window is persisted.
//
// A failed save is not retried on its own; the next edit's cycle supersedes it
// with fresher state. Until then Dirty/LastSaveError expose the gap so a UI can
// show an "unsaved changes" signal instead of pretending the write landed.
type DraftAutosaver struct {
	service DraftServiceInterface
	token   string
	userID  uuid.UUID
	quiet   time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *CardFaceSnapshot
	dirty   bool
	lastErr error
	closed  bool
}

func NewDraftAutosaver(service DraftServiceInterface, token string, userID uuid.UUID, quiet time.Duration) *DraftAutosaver {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &DraftAutosaver{
		service: service,
		token:   token,
		userID:  userID,
		quiet:   quiet,
	}
}

// ScheduleSave records the snapshot and restarts the quiet-period timer.
func (a *DraftAutosaver) ScheduleSave(snapshot CardFaceSnapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	a.pending = &snapshot
	a.dirty = true

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.quiet, a.fireSave)
}

func (a *DraftAutosaver) fireSave() {
	ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
	defer cancel()

	if err := a.Flush(ctx); err != nil {
		log.Printf("Error autosaving draft %s: %v", a.token, err)
	}
}

// Flush writes the pending snapshot immediately, if there is one. Called by the
// timer and by owners that need edits persisted before navigating away.
func (a *DraftAutosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	snapshot := a.pending
	a.pending = nil
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()

	if snapshot == nil {
		return nil
	}

	err := a.service.SaveCardFace(ctx, a.token, a.userID, *snapshot)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastErr = err
	if err == nil {
		// A newer snapshot may have arrived while we were writing.
		a.dirty = a.pending != nil
	} else {
		a.dirty = true
	}
	return err
}

// Dirty reports whether local state is ahead of the store, either because a
// save is pending or because the last one failed.
func (a *DraftAutosaver) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}

func (a *DraftAutosaver) LastSaveError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Close flushes whatever is pending and stops the timer. The autosaver must not
// be used afterwards.
func (a *DraftAutosaver) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return a.Flush(ctx)
}
