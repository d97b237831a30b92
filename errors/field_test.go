package errors

import (
	"testing"
)

func TestFieldErrors(t *testing.T) {
	err := AppendField(nil, "MaxPoints", ErrEmpty)
	err = AppendField(err, "Precision", nil)
	err = AppendField(err, "Strategies", ErrNoStrategies)

	if errs := FieldErrors(err, "MaxPoints"); len(errs) != 1 || !ErrEmpty.Is(errs[0]) {
		t.Fatalf("unexpected MaxPoints errors: %v", errs)
	}
	if errs := FieldErrors(err, "Precision"); len(errs) != 0 {
		t.Fatalf("unexpected Precision errors: %v", errs)
	}
	if errs := FieldErrors(err, "Strategies"); len(errs) != 1 || !ErrNoStrategies.Is(errs[0]) {
		t.Fatalf("unexpected Strategies errors: %v", errs)
	}
	if !ErrEmpty.Is(err) || !ErrNoStrategies.Is(err) {
		t.Fatal("collection must match all of its members")
	}
}

func TestFieldNil(t *testing.T) {
	if err := Field("Voter", nil, "whatever"); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := AppendField(nil, "Voter", nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}
