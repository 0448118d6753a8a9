// Package train implements the two external entry points named in spec.md
// §6: Train.ReachCreate and Train.ReachClean, each driving a
// destination.Destination to completion and returning a Report or an
// engine-internal error. It owns the resource map's lifetime, the
// per-destination error table (TrainResources, spec.md §3), and joining the
// scheduler with the resource-id persister.
package train
