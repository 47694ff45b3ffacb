// Package diag defines the diagnostic model shared by the parser, the resolver
// and the specialization pass.
//
// Producers emit through a Reporter so they stay decoupled from storage.
// BagReporter collects into a Bag, which supports sorting and deduplication;
// rendering lives in internal/diagfmt.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string form (see codes.go), a short Message, the Primary span and optional
// Notes. Keep it deterministic so output can be compared in tests.
package diag
