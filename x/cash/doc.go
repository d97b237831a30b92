/*
Package cash implements a single denomination balance ledger.

Balances are kept per address in wallets. Every balance change also records
a checkpoint of the new balance at the current block height. Checkpoints are
never removed and allow to reason about the balance history of an account.
*/
package cash
