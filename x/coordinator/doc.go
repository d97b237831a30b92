/*
Package coordinator implements the execution lock shared by all triggering
agents.

The lock is a singleton with a timeout. An agent that acquired the lock and
never released it does not block others forever, once the timeout passes the
lock can be taken over and the abandoned execution is counted as failed.
Execution statistics only ever grow.
*/
package coordinator
