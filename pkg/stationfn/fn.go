package stationfn

import (
	"context"
	"fmt"
	"reflect"

	"github.com/railgraph/railgraph/pkg/resources"
	"github.com/railgraph/railgraph/pkg/station"
)

// Mode declares whether a registered parameter is borrowed shared (&T) or
// exclusive (&mut T). Go has no syntactic distinction between the two forms
// a Rust reference can take, so New takes the mode list explicitly rather
// than inferring it from the parameter's Go type.
type Mode int

const (
	// ModeShared borrows a parameter with resources.Borrow (read access).
	ModeShared Mode = iota

	// ModeExclusive borrows a parameter with resources.BorrowMut (write access).
	ModeExclusive
)

const maxParams = 6

type paramSpec struct {
	Type reflect.Type // T, not *T
	Mode Mode
}

// Fn wraps a registered setup_fn/check_fn/work_fn, satisfying
// station.Caller[R] so the ensure driver can invoke it without knowing its
// arity. It implements spec.md §4.2's StationFnRes: at TryCall time it
// borrows every declared parameter from the resource map via reflection and
// only then invokes the wrapped function.
type Fn[R any] struct {
	rv     reflect.Value
	name   string
	params []paramSpec
}

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
	mutType = reflect.TypeOf((*station.Mut)(nil))
	mapType = reflect.TypeOf((*resources.Map)(nil))
)

// New wraps fn, a Go function of the form
//
//	func(ctx context.Context, st *station.Mut, res *resources.Map, p1 *T1, p2 *T2, ...) (R, error)
//
// with 0 to six extra pointer parameters, each borrowed shared or exclusive
// per the corresponding entry of modes (len(modes) must equal the number of
// extra parameters). New validates fn's signature against R by reflection
// and returns an error rather than panicking on mismatch, so a station-spec
// bug in registration is caught at build time, not call time.
func New[R any](fn interface{}, modes ...Mode) (*Fn[R], error) {
	if len(modes) > maxParams {
		return nil, fmt.Errorf("stationfn: %d parameters exceeds the maximum of %d", len(modes), maxParams)
	}

	rv := reflect.ValueOf(fn)
	rt := rv.Type()
	if rt.Kind() != reflect.Func {
		return nil, fmt.Errorf("stationfn: New expects a function, got %T", fn)
	}

	want := 3 + len(modes)
	if rt.NumIn() != want {
		return nil, fmt.Errorf("stationfn: expected %d parameters (context.Context, *station.Mut, *resources.Map + %d), got %d",
			want, len(modes), rt.NumIn())
	}
	if rt.In(0) != ctxType {
		return nil, fmt.Errorf("stationfn: parameter 0 must be context.Context, got %s", rt.In(0))
	}
	if rt.In(1) != mutType {
		return nil, fmt.Errorf("stationfn: parameter 1 must be *station.Mut, got %s", rt.In(1))
	}
	if rt.In(2) != mapType {
		return nil, fmt.Errorf("stationfn: parameter 2 must be *resources.Map, got %s", rt.In(2))
	}

	params := make([]paramSpec, len(modes))
	for i, mode := range modes {
		pt := rt.In(3 + i)
		if pt.Kind() != reflect.Ptr {
			return nil, fmt.Errorf("stationfn: parameter %d must be a pointer (shared or exclusive borrow), got %s", 3+i, pt)
		}
		params[i] = paramSpec{Type: pt.Elem(), Mode: mode}
	}

	if rt.NumOut() != 2 {
		return nil, fmt.Errorf("stationfn: function must return (R, error), got %d results", rt.NumOut())
	}
	retType := reflect.TypeOf((*R)(nil)).Elem()
	if rt.Out(0) != retType {
		return nil, fmt.Errorf("stationfn: first result must be %s, got %s", retType, rt.Out(0))
	}
	if !rt.Out(1).Implements(errType) {
		return nil, fmt.Errorf("stationfn: second result must implement error, got %s", rt.Out(1))
	}

	return &Fn[R]{rv: rv, name: rt.String(), params: params}, nil
}

// AccessSet returns the ordered shared-borrow and exclusive-borrow type
// lists captured at registration (spec.md §4.2 step 1).
func (f *Fn[R]) AccessSet() (shared []reflect.Type, exclusive []reflect.Type) {
	for _, p := range f.params {
		if p.Mode == ModeExclusive {
			exclusive = append(exclusive, p.Type)
		} else {
			shared = append(shared, p.Type)
		}
	}
	return shared, exclusive
}

// TryCall borrows every declared parameter from res in order, releasing all
// of them (in reverse acquisition order) before returning, then invokes the
// wrapped function. If any borrow fails, TryCall returns the zero R and the
// *resources.BorrowFail without invoking the wrapped function, per spec.md
// §4.2 step 2 ("If any borrow fails, the call fails ... without invoking the
// user code").
func (f *Fn[R]) TryCall(ctx context.Context, st *station.Mut, res *resources.Map) (R, error) {
	var zero R

	args := make([]reflect.Value, 0, 3+len(f.params))
	args = append(args, reflect.ValueOf(ctx), reflect.ValueOf(st), reflect.ValueOf(res))

	releases := make([]func(), 0, len(f.params))
	defer func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}()

	for _, p := range f.params {
		ptr, release, err := resources.BorrowDynamic(res, p.Type, p.Mode == ModeExclusive)
		if err != nil {
			return zero, err
		}
		releases = append(releases, release)
		args = append(args, ptr)
	}

	out := f.rv.Call(args)
	ret, _ := out[0].Interface().(R)
	err, _ := out[1].Interface().(error)
	return ret, err
}
