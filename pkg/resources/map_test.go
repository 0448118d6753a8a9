package resources

import (
	"reflect"
	"sync"
	"testing"
)

type configFile struct {
	Path string
}

type counter struct {
	N int
}

func TestBorrow_sharedConcurrent(t *testing.T) {
	m := New()
	Insert(m, configFile{Path: "/etc/app.conf"})

	g1, err := Borrow[configFile](m)
	if err != nil {
		t.Fatalf("first shared borrow failed: %v", err)
	}
	defer g1.Release()

	g2, err := Borrow[configFile](m)
	if err != nil {
		t.Fatalf("second shared borrow failed: %v", err)
	}
	defer g2.Release()

	if g1.Value.Path != g2.Value.Path {
		t.Fatalf("expected both guards to see the same value")
	}
}

func TestBorrowMut_conflictsWithShared(t *testing.T) {
	m := New()
	Insert(m, counter{N: 1})

	g, err := Borrow[counter](m)
	if err != nil {
		t.Fatalf("shared borrow failed: %v", err)
	}
	defer g.Release()

	_, err = BorrowMut[counter](m)
	if err == nil {
		t.Fatalf("expected BorrowMut to fail while a shared borrow is live")
	}
	bf, ok := err.(*BorrowFail)
	if !ok || bf.Kind != BorrowConflict {
		t.Fatalf("expected BorrowConflict, got %v", err)
	}
}

func TestBorrowMut_conflictsWithExclusive(t *testing.T) {
	m := New()
	Insert(m, counter{N: 1})

	g, err := BorrowMut[counter](m)
	if err != nil {
		t.Fatalf("exclusive borrow failed: %v", err)
	}
	defer g.Release()

	if _, err := BorrowMut[counter](m); err == nil {
		t.Fatalf("expected second exclusive borrow to fail")
	}
	if _, err := Borrow[counter](m); err == nil {
		t.Fatalf("expected shared borrow to fail while exclusive is live")
	}
}

func TestBorrow_valueNotFound(t *testing.T) {
	m := New()
	if _, err := Borrow[counter](m); err == nil {
		t.Fatalf("expected ValueNotFound for type never inserted")
	} else if bf, ok := err.(*BorrowFail); !ok || bf.Kind != ValueNotFound {
		t.Fatalf("expected ValueNotFound, got %v", err)
	}
}

func TestRelease_unblocksSubsequentExclusiveBorrow(t *testing.T) {
	m := New()
	Insert(m, counter{N: 0})

	g, err := BorrowMut[counter](m)
	if err != nil {
		t.Fatalf("borrow failed: %v", err)
	}
	g.Value.N++
	g.Release()
	g.Release() // idempotent

	g2, err := BorrowMut[counter](m)
	if err != nil {
		t.Fatalf("borrow after release should succeed: %v", err)
	}
	defer g2.Release()
	if g2.Value.N != 1 {
		t.Fatalf("expected mutation to persist across borrows, got %d", g2.Value.N)
	}
}

func TestInsert_replacesExistingValue(t *testing.T) {
	m := New()
	Insert(m, counter{N: 1})
	Insert(m, counter{N: 2})

	g, err := Borrow[counter](m)
	if err != nil {
		t.Fatalf("borrow failed: %v", err)
	}
	defer g.Release()
	if g.Value.N != 2 {
		t.Fatalf("expected replaced value 2, got %d", g.Value.N)
	}
}

func TestMap_concurrentDistinctTypesDoNotContend(t *testing.T) {
	m := New()
	Insert(m, configFile{Path: "/a"})
	Insert(m, counter{N: 0})

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		g, err := BorrowMut[configFile](m)
		if err != nil {
			t.Errorf("configFile borrow failed: %v", err)
			return
		}
		defer g.Release()
	}()

	go func() {
		defer wg.Done()
		g, err := BorrowMut[counter](m)
		if err != nil {
			t.Errorf("counter borrow failed: %v", err)
			return
		}
		defer g.Release()
	}()

	wg.Wait()
}

func TestBorrowDynamic_SharedAndExclusive(t *testing.T) {
	m := New()
	Insert(m, counter{N: 7})
	ct := reflect.TypeOf(counter{})

	v, release, err := BorrowDynamic(m, ct, false)
	if err != nil {
		t.Fatalf("shared BorrowDynamic failed: %v", err)
	}
	ptr, ok := v.Interface().(*counter)
	if !ok || ptr.N != 7 {
		t.Fatalf("unexpected dynamic borrow value: %#v", v.Interface())
	}

	if _, _, err := BorrowDynamic(m, ct, true); err == nil {
		t.Fatalf("expected exclusive BorrowDynamic to conflict with live shared borrow")
	}
	release()

	v2, release2, err := BorrowDynamic(m, ct, true)
	if err != nil {
		t.Fatalf("exclusive BorrowDynamic after release failed: %v", err)
	}
	defer release2()
	v2.Interface().(*counter).N = 8

	if counterVal, _ := lookupCell(m, ct); counterVal.value.(*counter).N != 8 {
		t.Fatalf("expected mutation through dynamic borrow to persist")
	}
}

func TestBorrowDynamic_ValueNotFound(t *testing.T) {
	m := New()
	if _, _, err := BorrowDynamic(m, reflect.TypeOf(counter{}), false); err == nil {
		t.Fatalf("expected ValueNotFound")
	} else if bf, ok := err.(*BorrowFail); !ok || bf.Kind != ValueNotFound {
		t.Fatalf("expected ValueNotFound, got %v", err)
	}
}
