/*
Package distribution implements the distribution calculation engine.

Once a cycle is complete, the surplus accrued by the custody vault is
realized and split in two parts. A fixed part, computed using the
configured divisor, is paid to the fixed recipients according to their
percentages. The remaining voted part is split between the active
recipients proportionally to the weighted allocation they received in the
votes of the completed cycle.

Every share is computed using truncating division, except the last
recipient that receives the remainder. This guarantees that the sum of all
payouts is exactly the realized amount.

After all payouts are done, pending registry changes are applied and the
cycle is advanced.
*/
package distribution
