// Package dbrow implements a station kind that drives a single row in a
// shared SQLite database to existence, keyed by a (station_id, logical_name)
// natural key. It demonstrates the resource-map's "one slot per shared type"
// rule in practice: every dbrow station in a destination borrows the same
// *stores.SQLiteStore from the resource map rather than opening its own
// connection, and setup_fn only initializes and migrates that store once,
// the first time any dbrow station runs (grounded on pkg/resources.Contains
// guarding pkg/resources.Insert, spec.md §9's "replace" semantics for
// setup_fn re-insertion).
package dbrow
