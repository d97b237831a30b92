/*
Package automation provides the triggering agents that execute
distributions.

Many independent agents may try to execute the same distribution. Each
agent polls CheckReady and, when a distribution is due, calls Execute with
the returned payload. All agents share the coordinator execution lock, so
only one of them executes a distribution at a time while the others fail
fast with ErrLocked.

Two adapters are provided. KeeperAgent is driven by PerformMsg
transactions submitted by an external keeper network. TickerAgent runs at
the beginning of every block.

The outcome of every execution is committed, even when the distribution
itself failed, and stored as a Report.
*/
package automation
