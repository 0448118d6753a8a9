// Package file implements a station kind that creates or removes a single
// file on local disk, with idempotence driven by a content hash comparison.
// It is railgraph's simplest station.Spec factory, grounded directly on
// spec.md's PURPOSE & SCOPE example of a resource kind the engine drives to
// existence: "files, database rows, uploaded artifacts".
package file
