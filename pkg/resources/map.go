package resources

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// BorrowKind distinguishes the two ways a borrow can fail (spec.md §4.1).
type BorrowKind string

const (
	// BorrowConflict indicates the requested borrow mode (shared or
	// exclusive) could not be granted because of a live conflicting borrow.
	BorrowConflict BorrowKind = "borrow_conflict"

	// ValueNotFound indicates no value of the requested type has ever been
	// inserted into the map.
	ValueNotFound BorrowKind = "value_not_found"
)

// BorrowFail is returned instead of panicking on any borrow violation,
// spec.md §4.1: "Violations are returned as a typed error, never panics."
type BorrowFail struct {
	Kind     BorrowKind
	TypeName string
}

func (e *BorrowFail) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.TypeName)
}

// IsBorrowFail reports whether err is, or wraps, a *BorrowFail.
func IsBorrowFail(err error) bool {
	var bf *BorrowFail
	return errors.As(err, &bf)
}

// cell holds the current value for one runtime type plus its borrow count.
// shared counts live Ref borrows; exclusive is set while a RefMut is live.
// Per spec.md §4.1, at most one exclusive borrow OR any number of shared
// borrows may be live at once, enforced per type (not per entry).
type cell struct {
	mu        sync.Mutex
	value     interface{} // always a *T for the cell's type T
	shared    int
	exclusive bool
}

// Map is the heterogeneous, runtime-borrow-checked resource store backing
// TrainResources (spec.md §3, §4.1). It is Send + Sync: the top-level mutex
// guards the type→cell index, and each cell's own mutex guards that type's
// borrow count, so borrows of distinct types never contend with each other.
type Map struct {
	mu    sync.RWMutex
	cells map[reflect.Type]*cell
}

// New creates an empty resource map.
func New() *Map {
	return &Map{cells: make(map[reflect.Type]*cell)}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Insert stores value, replacing any previous value of type T. This is the
// "replace" semantics spec.md §9 calls out as the documented choice for
// setup_fn re-inserting an already-present type.
func Insert[T any](m *Map, value T) {
	t := typeOf[T]()

	m.mu.Lock()
	c, ok := m.cells[t]
	if !ok {
		c = &cell{}
		m.cells[t] = c
	}
	m.mu.Unlock()

	v := value
	c.mu.Lock()
	c.value = &v
	c.mu.Unlock()
}

// Guard is a scoped borrow of a value of type T. Release must be called
// exactly once, on every exit path, to return the borrow to the map —
// callers should `defer guard.Release()` immediately after a successful
// borrow, which is how every call site in this module uses it.
type Guard[T any] struct {
	Value   *T
	release func()
	done    int32
}

// Release returns this borrow's slot. Safe to call more than once; only the
// first call has effect, so a deferred Release composes safely with an
// explicit early Release on a fast path.
func (g *Guard[T]) Release() {
	if g == nil || !atomic.CompareAndSwapInt32(&g.done, 0, 1) {
		return
	}
	g.release()
}

func lookupCell(m *Map, t reflect.Type) (*cell, bool) {
	m.mu.RLock()
	c, ok := m.cells[t]
	m.mu.RUnlock()
	return c, ok
}

// Borrow acquires a shared borrow of T. Multiple concurrent shared borrows
// of the same type are legal; it fails if an exclusive borrow is live, or if
// no value of T was ever inserted.
func Borrow[T any](m *Map) (*Guard[T], error) {
	t := typeOf[T]()
	c, ok := lookupCell(m, t)
	if !ok {
		return nil, &BorrowFail{Kind: ValueNotFound, TypeName: t.String()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.value == nil {
		return nil, &BorrowFail{Kind: ValueNotFound, TypeName: t.String()}
	}
	if c.exclusive {
		return nil, &BorrowFail{Kind: BorrowConflict, TypeName: t.String()}
	}

	c.shared++
	ptr, _ := c.value.(*T)
	return &Guard[T]{
		Value: ptr,
		release: func() {
			c.mu.Lock()
			c.shared--
			c.mu.Unlock()
		},
	}, nil
}

// BorrowMut acquires an exclusive borrow of T. It fails if any shared or
// exclusive borrow of T is already live, or if no value of T was ever
// inserted.
func BorrowMut[T any](m *Map) (*Guard[T], error) {
	t := typeOf[T]()
	c, ok := lookupCell(m, t)
	if !ok {
		return nil, &BorrowFail{Kind: ValueNotFound, TypeName: t.String()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.value == nil {
		return nil, &BorrowFail{Kind: ValueNotFound, TypeName: t.String()}
	}
	if c.exclusive || c.shared > 0 {
		return nil, &BorrowFail{Kind: BorrowConflict, TypeName: t.String()}
	}

	c.exclusive = true
	ptr, _ := c.value.(*T)
	return &Guard[T]{
		Value: ptr,
		release: func() {
			c.mu.Lock()
			c.exclusive = false
			c.mu.Unlock()
		},
	}, nil
}

// TryBorrow is the non-blocking form of Borrow. Borrows in this map never
// block (§4.1 "borrows themselves are non-suspending — they either succeed
// or fail immediately", spec.md §5) so TryBorrow and Borrow share an
// implementation; both names are kept to mirror the two borrow forms
// spec.md §4.1 and §4.2 call out (the fallible form consulted by
// StationFnRes.try_call, and the named form used to document a function's
// access set).
func TryBorrow[T any](m *Map) (*Guard[T], error) { return Borrow[T](m) }

// TryBorrowMut is the non-blocking form of BorrowMut. See TryBorrow.
func TryBorrowMut[T any](m *Map) (*Guard[T], error) { return BorrowMut[T](m) }

// BorrowDynamic is the reflection-based counterpart to Borrow/BorrowMut used
// by stationfn, which does not know its wrapped function's parameter types
// until it inspects them with reflect at registration time. t is the
// borrowed type T itself (not *T); exclusive selects BorrowMut semantics over
// Borrow. On success it returns a reflect.Value of Kind Ptr (a *T) and a
// release func that must be called exactly once.
func BorrowDynamic(m *Map, t reflect.Type, exclusive bool) (reflect.Value, func(), error) {
	c, ok := lookupCell(m, t)
	if !ok {
		return reflect.Value{}, nil, &BorrowFail{Kind: ValueNotFound, TypeName: t.String()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.value == nil {
		return reflect.Value{}, nil, &BorrowFail{Kind: ValueNotFound, TypeName: t.String()}
	}

	if exclusive {
		if c.exclusive || c.shared > 0 {
			return reflect.Value{}, nil, &BorrowFail{Kind: BorrowConflict, TypeName: t.String()}
		}
		c.exclusive = true
		return reflect.ValueOf(c.value), func() {
			c.mu.Lock()
			c.exclusive = false
			c.mu.Unlock()
		}, nil
	}

	if c.exclusive {
		return reflect.Value{}, nil, &BorrowFail{Kind: BorrowConflict, TypeName: t.String()}
	}
	c.shared++
	return reflect.ValueOf(c.value), func() {
		c.mu.Lock()
		c.shared--
		c.mu.Unlock()
	}, nil
}

// Contains reports whether a value of type T has been inserted.
func Contains[T any](m *Map) bool {
	t := typeOf[T]()
	c, ok := lookupCell(m, t)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value != nil
}
