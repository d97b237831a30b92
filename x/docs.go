/*
Package x contains the extensions of the distribution cycle engine and the
helpers they share.

Extensions implement common functionality (Handler, Decorator, Ticker,
Initializer) and are combined together by the app package. Each extension
receives an Authenticator in its constructor, so that the authentication
system can be plugged in rather than hard-coded.
*/
package x
