// Package graph implements the DAG container stations live in: node
// insertion, Logic/Contains edges with cycle rejection on Logic edges,
// insertion-ordered and topological/reverse-topological iteration, and
// parent/child walkers for status propagation (spec.md §4.4). It is
// grounded on the teacher's pkg/engine/dag.go DAGBuilder — Kahn's-algorithm
// level computation, forward/reverse adjacency maps, DFS cycle detection —
// generalized from openfroyo's single dependency-edge kind to this spec's
// Logic/Contains distinction and from string plan-unit IDs to station.RtID.
// The concurrent streaming operation §4.4 also names is implemented in
// package scheduler, which owns concurrency policy; graph supplies the
// topological order and readiness primitives it streams over.
package graph
