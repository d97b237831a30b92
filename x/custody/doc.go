/*
Package custody implements the yield custody vault.

Depositors place principal in the vault. The configured yield source adds
value to the vault without increasing the principal. Everything the vault
holds above the principal is the accrued surplus, which can be realized and
sent to a receiver, for example the distribution engine.
*/
package custody
