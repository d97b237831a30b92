/*
Package cycle implements the cycle state machine.

A cycle is a period of a fixed number of blocks. While the current block
height is below the cycle end, the cycle is active. Once the end height is
reached the cycle is ready for a transition, which must be requested
explicitly by an authorized caller. Advancing starts the next cycle at the
current height.

	Active --(height >= end)--> ReadyForTransition --(advance)--> Active
*/
package cycle
