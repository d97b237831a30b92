package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrUnauthorized,
			b:      ErrUnauthorized,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrUnauthorized,
			b:      ErrNotFound,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrNonceUsed,
			b:      Wrap(ErrNonceUsed, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNonceUsed,
			b:      Wrap(ErrSignature, "gone"),
			wantIs: false,
		},
		"deeply wrapped error": {
			a:      ErrLocked,
			b:      Wrap(Wrap(Wrap(ErrLocked, "1"), "2"), "3"),
			wantIs: true,
		},
		"error inside of a collection": {
			a:      ErrEmpty,
			b:      Append(ErrNotFound, Wrap(ErrEmpty, "a")),
			wantIs: true,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is not an error": {
			a:      nil,
			b:      ErrEmpty,
			wantIs: false,
		},
		"stdlib error is not a registered one": {
			a:      ErrHuman,
			b:      stdlib.New("human"),
			wantIs: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - want %v, got %v", tc.wantIs, got)
			}
		})
	}
}

func TestRegisterTwice(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("registering the same code twice must panic")
		}
	}()
	Register(ErrLocked.ABCICode(), "locked again")
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "nothing"); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
}

func TestWrappedErrorMessage(t *testing.T) {
	err := Wrapf(ErrNotResolved, "cycle %d", 7)
	if got, want := err.Error(), "cycle 7: distribution not resolved"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	full := fmt.Sprintf("%+v", err)
	if !strings.Contains(full, "errors_test.go") {
		t.Fatalf("stack trace is missing: %s", full)
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	if err := fn(); !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
}
