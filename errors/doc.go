/*
Package errors implements the error handling used across harvest.

Every failure that can be returned to a client wraps one of the root errors
registered with Register. Root errors carry an ABCI code, so a caller can
tell a validation failure from a timing or coordination failure without
parsing messages.

Create errors at the point of failure with ErrXyz.New("...") or
Wrap(err, "..."). The first wrap attaches a stack trace. Format an error with
%+v to print it.

Use Is to test the kind of an error and Field/AppendField to describe
problems with a particular attribute of a model or message.
*/
package errors
