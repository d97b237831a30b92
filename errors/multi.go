package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If none of the given errors is a registered error, the result is an
// internal error. The ABCI code of the result is the code of the first
// error.
func Append(errs ...error) error {
	var all []error
	for _, err := range errs {
		if isNilErr(err) {
			continue
		}
		if m, ok := err.(*multiErr); ok {
			all = append(all, m.errs...)
			continue
		}
		all = append(all, err)
	}

	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	default:
		return &multiErr{errs: all}
	}
}

type unpacker interface {
	Unpack() []error
}

// multiErr is a collection of errors. It is never empty.
type multiErr struct {
	errs []error
}

var (
	_ unpacker = (*multiErr)(nil)
	_ coder    = (*multiErr)(nil)
)

func (m *multiErr) Unpack() []error {
	return m.errs
}

func (m *multiErr) ABCICode() uint32 {
	return abciCode(m.errs[0])
}

func (m *multiErr) Error() string {
	msgs := make([]string, len(m.errs))
	for i, err := range m.errs {
		msgs[i] = "* " + err.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(m.errs), strings.Join(msgs, "\n\t"))
}
