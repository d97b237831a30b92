package errors

import (
	"fmt"
	"io"
	"testing"
)

func TestABCInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"plain registered error": {
			err:      ErrNotFound,
			wantLog:  "not found",
			wantCode: ErrNotFound.code,
		},
		"wrapped registered error": {
			err:      Wrap(Wrap(ErrBatchTooLarge, "foo"), "bar"),
			wantLog:  "bar: foo: batch too large",
			wantCode: ErrBatchTooLarge.code,
		},
		"nil is empty message": {
			err:      nil,
			wantLog:  "",
			wantCode: SuccessABCICode,
		},
		"stdlib is generic message": {
			err:      io.EOF,
			wantLog:  internalABCILog,
			wantCode: internalABCICode,
		},
		"stdlib returns error message in debug mode": {
			err:      io.EOF,
			debug:    true,
			wantLog:  "EOF",
			wantCode: internalABCICode,
		},
		"wrapped stdlib is redacted": {
			err:      Wrap(fmt.Errorf("cannot read file"), "broken"),
			wantLog:  internalABCILog,
			wantCode: internalABCICode,
		},
		"collection uses the first code": {
			err:      Append(ErrLocked, ErrNotFound),
			wantLog:  "2 errors occurred:\n\t* execution locked\n\t* not found",
			wantCode: ErrLocked.code,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if !tc.debug && log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
			if tc.debug && tc.err != nil && log == "" {
				t.Error("debug log must not be empty")
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrPanic, false); ErrPanic.Is(err) {
		t.Error("panic must be redacted")
	}
	if err := Redact(ErrPanic, true); !ErrPanic.Is(err) {
		t.Error("debug mode must not redact")
	}
	if err := Redact(ErrLocked, false); !ErrLocked.Is(err) {
		t.Error("registered errors are not redacted")
	}
}

func TestABCIError(t *testing.T) {
	if err := ABCIError(SuccessABCICode, ""); err != nil {
		t.Fatalf("success code must not produce an error: %v", err)
	}

	code, log := ABCIInfo(Wrap(ErrLocked, "lock held"), false)
	err := ABCIError(code, log)
	if !ErrLocked.Is(err) {
		t.Fatalf("want locked error, got %v", err)
	}
	if ErrNotFound.Is(err) {
		t.Fatal("must match only its own code")
	}
	if err.Error() != "lock held: execution locked" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if got, _ := ABCIInfo(err, false); got != ErrLocked.code {
		t.Fatalf("want code %d, got %d", ErrLocked.code, got)
	}

	unknown := ABCIError(987654, "boom")
	if ErrNotFound.Is(unknown) || ErrPanic.Is(unknown) {
		t.Fatal("unregistered code must not match a registered error")
	}
}
