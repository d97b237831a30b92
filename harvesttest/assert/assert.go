// Package assert holds the few assertions shared by tests that cannot
// import testify, plus harvest specific error checks.
package assert

import (
	"reflect"
	"testing"

	"github.com/harvestnet/harvest/errors"
)

// Tester is the part of testing.TB used by the helpers.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails unless value is nil, including typed nil pointers, maps, slices,
// channels and functions.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if value == nil {
		return
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		if v.IsNil() {
			return
		}
	}
	// %+v prints the stack of wrapped errors.
	t.Fatalf("want nil, got %+v", value)
}

// Equal fails unless want and got are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if reflect.DeepEqual(want, got) {
		return
	}
	t.Fatalf("not equal\nwant (%T) %v\n got (%T) %v", want, want, got, got)
}

// Panics fails unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	panicked := func() (p bool) {
		defer func() { p = recover() != nil }()
		fn()
		return false
	}()
	if !panicked {
		t.Fatal("want a panic")
	}
}

// IsErr fails unless got is want or is matched by want's Is method.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if m, ok := want.(interface{ Is(error) bool }); ok && m.Is(got) {
		return
	}
	t.Fatalf("want %q error, got %+v", want, got)
}

// FieldError fails unless err holds a field error for name that matches
// want. A nil want asserts that name has no errors at all.
func FieldError(t testing.TB, err error, name string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, name)
	if want == nil {
		if len(errs) != 0 {
			t.Fatalf("want no %q errors, got %q", name, errs)
		}
		return
	}
	for _, e := range errs {
		if want.Is(e) {
			return
		}
	}
	t.Fatalf("want %q error for %q, got %v", want, name, errs)
}
