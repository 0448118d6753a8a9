package station

// Op bundles a station's create (mandatory) and clean (optional) behaviour.
// A nil Clean means the station has no clean operation; the ensure driver
// returns NothingToDo for it and the scheduler records WorkUnnecessary
// without running anything (spec.md §4.6).
type Op struct {
	Create OpFns[ResIds]
	Clean  *OpFns[Unit]
}

// OpFns is the three-callable bundle behind a single create or clean
// operation: setup_fn (mandatory), check_fn (optional, nil when absent), and
// work_fn (mandatory), each wrapped as a Caller so the ensure driver can
// invoke it uniformly regardless of its declared parameter arity.
//
// spec.md's OpFns<WorkRet, WorkErr, E> carries three type parameters; this
// package collapses WorkErr and E into the single error result every Caller
// already returns (Go's `error` interface, typically a *trainerr.TrainError)
// since a second generic error parameter buys nothing idiomatic Go callers
// don't already get from errors.As. Recorded in DESIGN.md.
type OpFns[WorkRet any] struct {
	Setup Caller[ProgressLimit]
	Check Caller[CheckStatus] // nil if the station has no check_fn
	Work  Caller[WorkRet]
}

// HasCheck reports whether a check_fn was registered for this OpFns.
func (f OpFns[WorkRet]) HasCheck() bool { return f.Check != nil }

// Spec is a station's immutable configuration: identity, human-facing
// metadata, declared progress unit, and its Op. Two stations sharing an ID
// within one destination is a construction error, enforced by the
// destination builder (not here, since ID uniqueness is a property of a set
// of specs, not of one spec in isolation).
type Spec struct {
	ID           ID
	Name         string
	Description  string
	ProgressUnit ProgressUnit
	Op           Op
}

// SpecBuilder builds a Spec incrementally, mirroring spec.md §6:
// "StationSpec::builder(id, station_op).with_name(...)....build()".
type SpecBuilder struct {
	spec Spec
}

// NewSpecBuilder starts building a Spec for id with the given Op. name
// defaults to id's string form and description is empty until overridden.
func NewSpecBuilder(id ID, op Op) *SpecBuilder {
	return &SpecBuilder{spec: Spec{
		ID:           id,
		Name:         id.String(),
		ProgressUnit: ProgressUnitNone,
		Op:           op,
	}}
}

// WithName overrides the human-readable name.
func (b *SpecBuilder) WithName(name string) *SpecBuilder {
	b.spec.Name = name
	return b
}

// WithDescription sets the station's description.
func (b *SpecBuilder) WithDescription(description string) *SpecBuilder {
	b.spec.Description = description
	return b
}

// WithProgressUnit sets the declared progress unit.
func (b *SpecBuilder) WithProgressUnit(unit ProgressUnit) *SpecBuilder {
	b.spec.ProgressUnit = unit
	return b
}

// Build returns the finished Spec.
func (b *SpecBuilder) Build() Spec {
	return b.spec
}
