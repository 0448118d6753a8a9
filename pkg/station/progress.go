package station

import "sync"

// ProgressUnit is the unit a station reports progress in, declared on the
// StationSpec.
type ProgressUnit string

const (
	// ProgressUnitNone indicates the station does not report granular progress.
	ProgressUnitNone ProgressUnit = "none"

	// ProgressUnitBytes indicates the station reports progress in bytes.
	ProgressUnitBytes ProgressUnit = "bytes"
)

// ProgressLimitKind discriminates the three shapes a ProgressLimit can take.
type ProgressLimitKind string

const (
	ProgressLimitUnknown ProgressLimitKind = "unknown"
	ProgressLimitSteps   ProgressLimitKind = "steps"
	ProgressLimitBytes   ProgressLimitKind = "bytes"
)

// ProgressLimit is the bound a setup_fn declares for the work a station will
// perform. The engine treats it opaquely; it exists for the external
// progress renderer (§9 "Progress bars" treats the renderer as an external
// collaborator receiving tick events).
type ProgressLimit struct {
	Kind  ProgressLimitKind
	Steps uint64
	Bytes uint64
}

// UnknownLimit is a ProgressLimit with no declared bound.
func UnknownLimit() ProgressLimit { return ProgressLimit{Kind: ProgressLimitUnknown} }

// StepsLimit declares a station will perform n discrete steps of work.
func StepsLimit(n uint64) ProgressLimit { return ProgressLimit{Kind: ProgressLimitSteps, Steps: n} }

// BytesLimit declares a station will move n bytes of work.
func BytesLimit(n uint64) ProgressLimit { return ProgressLimit{Kind: ProgressLimitBytes, Bytes: n} }

// Sink receives progress ticks for a single station. It is the external
// collaborator named in the design notes; a headless run supplies NullSink.
type Sink interface {
	Tick(id RtID, status OpStatus, limit ProgressLimit)
}

// NullSink discards all progress ticks.
type NullSink struct{}

func (NullSink) Tick(RtID, OpStatus, ProgressLimit) {}

// Progress is the mutable per-station progress record: current status, the
// declared limit, and the renderer handle. It is created in SetupQueued at
// destination build and mutated only by the engine thereafter.
type Progress struct {
	mu     sync.Mutex
	id     RtID
	status OpStatus
	limit  ProgressLimit
	sink   Sink
}

// NewProgress creates a Progress record for id in the initial SetupQueued
// status, reporting ticks to sink (NullSink if nil).
func NewProgress(id RtID, sink Sink) *Progress {
	if sink == nil {
		sink = NullSink{}
	}
	return &Progress{id: id, status: SetupQueued, limit: UnknownLimit(), sink: sink}
}

// Status returns the current OpStatus.
func (p *Progress) Status() OpStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// SetStatus transitions to next and ticks the sink. Callers are responsible
// for only calling this with transitions next_status (§9) has approved.
func (p *Progress) SetStatus(next OpStatus) {
	p.mu.Lock()
	p.status = next
	limit := p.limit
	p.mu.Unlock()
	p.sink.Tick(p.id, next, limit)
}

// CompareAndSetStatus transitions to next only if the current status is
// from, returning whether the transition happened. The scheduler uses this
// to resolve a successor's ParentPending -> OpQueued transition exactly
// once even when several of its predecessors complete concurrently and all
// observe the same not-yet-transitioned status.
func (p *Progress) CompareAndSetStatus(from, next OpStatus) bool {
	p.mu.Lock()
	if p.status != from {
		p.mu.Unlock()
		return false
	}
	p.status = next
	limit := p.limit
	p.mu.Unlock()
	p.sink.Tick(p.id, next, limit)
	return true
}

// SetLimit records the ProgressLimit a setup_fn declared.
func (p *Progress) SetLimit(limit ProgressLimit) {
	p.mu.Lock()
	p.limit = limit
	status := p.status
	p.mu.Unlock()
	p.sink.Tick(p.id, status, limit)
}

// Limit returns the currently declared ProgressLimit.
func (p *Progress) Limit() ProgressLimit {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.limit
}
