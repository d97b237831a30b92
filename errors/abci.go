package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode declares an ABCI response use 0 to signal that the
	// processing was successful and no error is returned.
	SuccessABCICode = 0

	// Errors that do not provide an ABCI code are reported with the
	// internal code and a generic message.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the ABCI error information as consumed by the tendermint
// client. Returned code and log message should be used as a ABCI response.
//
// Any error that does not provide ABCICode information is categorized as an
// internal error with code 1. Unless running in debug mode, the message of
// such error is replaced with a generic "internal error".
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}

	if code := abciCode(err); code != internalABCICode {
		if debug {
			// Full formatting includes the stack trace.
			return code, fmt.Sprintf("%+v", err)
		}
		return code, err.Error()
	}

	if debug {
		return internalABCICode, fmt.Sprintf("%+v", err)
	}
	return internalABCICode, internalABCILog
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the wrapping chain that
// provides one.
func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}

	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalABCICode
		}
	}
}

// Redact replaces all errors that are not wrapping a registered error with a
// generic internal error instance. Panics are always redacted.
//
// This is a no-operation function when running in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) {
		return errors.New(internalABCILog)
	}
	if abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}

// ABCIError returns an error for the code and log of an ABCI response. It
// is the reverse of ABCIInfo, meant for clients. The result matches the
// registered error with the same code, so
//
//	ErrNotFound.Is(ABCIError(code, log))
//
// works as expected.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	return &abciError{code: code, log: log}
}

type abciError struct {
	code uint32
	log  string
}

func (e *abciError) Error() string {
	return e.log
}

func (e *abciError) ABCICode() uint32 {
	return e.code
}

func (e *abciError) Cause() error {
	if reg, ok := usedCodes[e.code]; ok {
		return reg
	}
	return nil
}
