// Package ensure implements the check -> work -> re-check idempotence
// protocol a station runs once it reaches WorkInProgress, for both create
// and clean operations (spec.md §4.6). It has no direct analogue in the
// teacher — openfroyo's providers call plan/apply once each with no
// idempotence re-check — so its control flow follows spec.md's own
// numbered protocol directly, translated into Go's (value, error) idiom in
// place of the source's Result<Outcome, StationSpecError> duality.
package ensure
