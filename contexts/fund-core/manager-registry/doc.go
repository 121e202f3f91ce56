// Package managerregistry hosts the fund-manager roster: stake-gated
// registration, the active-manager listing, and performance tracking.
// Election and term mechanics are delegated to the proposal engine.
package managerregistry
