package train

import (
	"sync"

	"github.com/railgraph/railgraph/pkg/resources"
	"github.com/railgraph/railgraph/pkg/station"
	"github.com/railgraph/railgraph/pkg/trainerr"
)

// Resources is TrainResources (spec.md §3): the long-lived typed resource
// map plus a per-destination error table, reader/writer-locked for the
// scheduler's concurrent work phase to write into. It implements
// scheduler.ErrorRecorder directly.
type Resources struct {
	Map *resources.Map

	mu     sync.RWMutex
	errors map[station.RtID]*trainerr.TrainError
}

// NewResources creates an empty Resources, owning a fresh resource map.
func NewResources() *Resources {
	return &Resources{
		Map:    resources.New(),
		errors: make(map[station.RtID]*trainerr.TrainError),
	}
}

// RecordError satisfies scheduler.ErrorRecorder: a station's one write, done
// at most once per station, briefly holding the write lock.
func (r *Resources) RecordError(rtID station.RtID, err *trainerr.TrainError) {
	r.mu.Lock()
	r.errors[rtID] = err
	r.mu.Unlock()
}

// Error returns the recorded error for rtID, if any.
func (r *Resources) Error(rtID station.RtID) (*trainerr.TrainError, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.errors[rtID]
	return e, ok
}

// Errors returns a snapshot copy of the full error table.
func (r *Resources) Errors() map[station.RtID]*trainerr.TrainError {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[station.RtID]*trainerr.TrainError, len(r.errors))
	for k, v := range r.errors {
		out[k] = v
	}
	return out
}

// Succeeded reports whether the run so far has recorded no station errors.
func (r *Resources) Succeeded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.errors) == 0
}
