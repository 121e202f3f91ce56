// Package proposalengine implements governance proposals inside the
// fund-core context.
//
// The module owns proposal records, immutable vote records, and the
// quorum-gated finalization state machine. Voting weight comes from the token
// ledger's quadratic voting power, read at cast time and never recomputed
// afterwards. Ledger access is read-only through the LedgerReader port.
package proposalengine
