// Package trainerr defines railgraph's error taxonomy: classified engine
// errors and the helper predicates IsFatal and ClassOf, which tell a
// failure that is a station outcome (recorded, non-fatal) from an
// engine-internal failure (fatal, aborts the run).
package trainerr
