/*
Package power provides voting power strategies.

A strategy computes the voting power of an address from the ledger state.
Several strategies can be composed, in which case the power is the sum of
all strategy results.
*/
package power
