/*
Package crypto provides the secp256k1 keys used to sign transactions and
votes.

Signatures are 65 bytes long, [R || S || V], and recoverable. The address of
a key is derived the same way an Ethereum client derives it, so that a single
key identifies an account both on chain and in signed votes.
*/
package crypto
