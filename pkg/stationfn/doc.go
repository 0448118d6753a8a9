// Package stationfn wraps user-written setup_fn/check_fn/work_fn closures
// into station.Caller values that borrow their declared parameters from a
// resources.Map before invoking the wrapped function (spec.md §4.2
// "Parameter injection"). The teacher has no analogous machinery — openfroyo
// resource providers take a single fixed (context.Context, *Resource)
// parameter pair, never a variable typed fan-in — so this package implements
// design note (c) from spec.md §9 ("runtime reflection over a registered
// parameter descriptor") rather than the source's code-generated arities,
// using only reflect and the resources package's BorrowDynamic.
package stationfn
