package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches the name of an invalid attribute to err. A nil err gives a
// nil result, so validation code can pass sub-validation results straight
// through.
//
// Field names follow the Go struct field (MaxPoints). Nested attributes are
// dot separated (Recipients.Address) and slice elements use their index
// (Points.2).
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &fieldError{name: name, desc: description, parent: err}
}

// AppendField adds the field error built from err to errs. Both may be nil.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

type fieldError struct {
	name   string
	desc   string
	parent error
}

func (e *fieldError) Error() string {
	msg := fmt.Sprintf("field %q: ", e.name)
	if e.desc != "" {
		msg += e.desc + ": "
	}
	return msg + e.parent.Error()
}

func (e *fieldError) Cause() error { return e.parent }

func (e *fieldError) Field() string { return e.name }

// FieldErrors collects every field error reported for name. Collections
// built with Append are searched recursively.
func FieldErrors(err error, name string) []error {
	var found []error
	collectFields(err, name, &found)
	return found
}

func collectFields(err error, name string, found *[]error) {
	for !isNilErr(err) {
		switch e := err.(type) {
		case fielder:
			if e.Field() == name {
				*found = append(*found, err)
				return
			}
		case unpacker:
			for _, member := range e.Unpack() {
				collectFields(member, name, found)
			}
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}

type fielder interface {
	Field() string
}
