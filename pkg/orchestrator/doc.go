// Package orchestrator wires the fill → export → ledger pipeline, providing
// dependency injection friendly helpers for consumers that prefer a single
// entry point.
package orchestrator
