/*
Package registry maintains the ordered set of active recipients.

Changes to the set are never applied directly. They are queued by the
registry owner and become visible only when ApplyPendingChanges is called,
which happens once per distribution. This keeps the recipient set stable for
the duration of a voting cycle.
*/
package registry
