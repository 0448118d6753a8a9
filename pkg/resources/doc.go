// Package resources implements railgraph's typed, runtime-borrow-checked
// heterogeneous map (spec.md §3 "Resource map", §4.1). It has no direct
// analogue in the teacher repo — openfroyo threads concrete, individually
// named structs (*Config, *Plan, StateManager, ...) through its interfaces
// rather than a single heterogeneous store — so this package is grounded
// instead on the shape of juju's worker/dependency Engine (a named registry
// that type-asserts an `out interface{}` pointer, see
// other_examples/64f9d9e7_juju-juju__worker-dependency-interface.go.go) and
// built from Go's reflect and sync packages, which is the idiomatic way to
// key a value store by runtime type identity when no third-party library in
// the retrieved pack offers one. See DESIGN.md for why this is stdlib-only.
package resources
