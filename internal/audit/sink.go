package audit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/verdantech/greenhouse-core/internal/catalog"
	"github.com/verdantech/greenhouse-core/internal/infrastructure/logging"
)

// writeTimeout bounds each audit insert so a locked database can't stall
// the recording goroutine indefinitely.
const writeTimeout = 5 * time.Second

// Recorder implements catalog.EventSink by writing each event to the
// audit trail. Inserts run on a separate goroutine; a failed insert is
// logged and dropped rather than failing the mutation that caused it.
type Recorder struct {
	repo Repository
	log  *logging.Logger
	wg   sync.WaitGroup
}

// NewRecorder wires a recorder over the given repository.
func NewRecorder(repo Repository, log *logging.Logger) *Recorder {
	if log == nil {
		log = logging.Default()
	}
	return &Recorder{repo: repo, log: log}
}

// Publish implements catalog.EventSink.
func (r *Recorder) Publish(e catalog.Event) {
	entry := &Entry{
		Action:     e.Action,
		EntityType: e.Entity,
		EntityID:   strconv.Itoa(e.ID),
		Source:     sourceFor(e.Action),
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := r.repo.Create(ctx, entry); err != nil {
			r.log.Warn("recording audit entry",
				"entity", e.Entity,
				"action", e.Action,
				"id", e.ID,
				"error", err,
			)
		}
	}()
}

// Close blocks until every in-flight insert has finished. Call before
// closing the backing database.
func (r *Recorder) Close() error {
	r.wg.Wait()
	return nil
}

// sourceFor maps an event action to the subsystem that produced it.
// Evictions only ever come from the sweeper; everything else arrives via
// the HTTP API.
func sourceFor(action string) string {
	if action == "evicted" {
		return "sweeper"
	}
	return "api"
}
