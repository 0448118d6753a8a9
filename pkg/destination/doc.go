// Package destination computes the workspace/profile/station directory
// layout and builds a Destination: the DAG of station.Spec values plus the
// chosen profile and workspace policy (spec.md §4.5, §3 "Destination").
// Directory calculation is grounded directly on
// original_source/crate/rt_model/src/destination_dir_calc.rs
// (DestinationDirCalc::calc, first_dir_with_file) and profile validation on
// original_source/crate/resource/src/profile.rs — both only named, not
// implemented, by spec.md's distillation. The Destination type itself and
// its StationsOrdered reporting hook are grounded on
// original_source/crate/rt_model/src/destination.rs (Destination::stations,
// stations_iter).
package destination
