// Package tokenledger implements the fund token ledger inside the fund-core
// context.
//
// The module exclusively owns account balances, the derived quadratic voting
// power (integer square root of balance, recomputed eagerly on every balance
// mutation), total supply, and the ledger pause switch. The other fund-core
// modules never touch account state directly; they go through the application
// service wired in by the composition root.
package tokenledger
