/*
Package sigs provides basic authentication
middleware to verify the signatures on the transaction,
and maintain sequences for replay protection.

Every signature is a recoverable secp256k1 signature. The signer is not
declared in the transaction, it is recovered from the signature. This makes
each signature resolve to the same address an Ethereum client would use for
the signing key.
*/
package sigs
