/*
Package harvest defines the common interfaces that tie together the
distribution cycle engine: stores, handlers, decorators, transactions,
conditions and the results returned to tendermint.

Extensions live under x/ and implement handlers for their messages. The app
package routes transactions to them through a chain of decorators.

Context is passed between app, decorators and handlers. For every value XYZ
of type T kept in the context there are two functions:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)
*/
package harvest
