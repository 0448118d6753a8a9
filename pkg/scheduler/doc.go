// Package scheduler drives a destination's DAG to a goal status, forward
// (create) or reverse (clean), with bounded concurrency (spec.md §4.8). It
// has no single teacher analogue: openfroyo's ParallelScheduler
// (pkg/engine/scheduler.go) executes a plan level-by-level with a
// worker-pool-per-level design, which this package adapts into a single
// readiness-driven pool that derives the ready set directly from each
// station's status (spec.md: "the scheduler maintains no explicit queue; it
// derives readiness from the status map") rather than precomputed DAG
// levels, since railgraph's status machine (pkg/station) already encodes
// exactly that information.
package scheduler
