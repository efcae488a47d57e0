package activity

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DropObserver is notified when a write fails and is discarded.
type DropObserver interface {
	ObserveActivityDrop()
}

// Recorder appends activity entries on a best-effort basis. A write either
// fully succeeds or is discarded without retry; failure is never surfaced to
// the operation being described, only counted and logged.
type Recorder struct {
	repo    Repository
	logger  *slog.Logger
	drops   DropObserver
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRecorder constructs a Recorder. The observer may be nil.
func NewRecorder(repo Repository, logger *slog.Logger, drops DropObserver) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{repo: repo, logger: logger, drops: drops, timeout: 5 * time.Second}
}

// Record appends an entry describing a state-changing action. The append
// runs in the background: the caller never waits on the store round trip,
// and errors are swallowed so the business operation never fails or rolls
// back on audit loss. Safe to call with any inputs; malformed entries are
// dropped the same way as store failures.
func (r *Recorder) Record(ctx context.Context, action string, resource ResourceType, resourceID, description, actorEmail, actorName, details string) {
	if r == nil || r.repo == nil {
		return
	}
	entry := Entry{
		LogID:       newLogID(),
		ActorEmail:  actorEmail,
		ActorName:   actorName,
		Action:      action,
		Resource:    resource,
		ResourceID:  resourceID,
		Description: description,
		Details:     details,
	}
	if err := entry.validate(); err != nil {
		r.drop(entry, err)
		return
	}

	// Detached from the request so a response already sent (or a slow
	// store) cannot cancel or delay the append.
	writeCtx := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		insertCtx, cancel := context.WithTimeout(writeCtx, r.timeout)
		defer cancel()
		if err := r.repo.Insert(insertCtx, entry); err != nil {
			r.drop(entry, err)
		}
	}()
}

// Wait blocks until in-flight appends settle. Called at shutdown so writes
// already accepted are not discarded with the process; tests use it to
// observe the trail deterministically.
func (r *Recorder) Wait() {
	if r == nil {
		return
	}
	r.wg.Wait()
}

func (r *Recorder) drop(entry Entry, err error) {
	r.logger.Warn("activity entry dropped",
		slog.String("action", entry.Action),
		slog.String("resource_id", entry.ResourceID),
		slog.Any("error", err))
	if r.drops != nil {
		r.drops.ObserveActivityDrop()
	}
}

func newLogID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return "LOG-" + strings.ToUpper(time.Now().UTC().Format("20060102150405.000000000"))
	}
	return "LOG-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))[:16]
}
