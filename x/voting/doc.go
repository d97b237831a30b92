/*
Package voting implements the vote accounting engine.

Every stakeholder can distribute points among the active recipients once per
cycle. A vote is weighted by the voting power of the voter, computed by the
configured strategies at the time of the vote. Casting another vote in the
same cycle reverses the previous contribution before applying the new one,
so that only the latest vote of each voter is counted.

Votes can be submitted directly by the signer of a transaction, or relayed
by anyone on behalf of the voter using an EIP-712 signature. Relayed votes
are protected from replay by a per voter nonce.
*/
package voting
