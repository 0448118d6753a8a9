// Package persist writes and reads back the resource identifiers a
// station's create work_fn produces, one JSON file per logical name under
// the profile history station directory (spec.md §4.7). It is grounded
// directly on the original's res_id_persister.rs, which this package
// generalizes with a Loader counterpart: the original only ever writes
// during create runs, but a clean run needs the physical values a prior
// create run captured in order to have anything to tear down, so Loader
// reads the same files back (spec.md §9 "Resource IDs with dynamic typing",
// design option (ii): self-describing JSON round-trip, no type registry).
package persist
