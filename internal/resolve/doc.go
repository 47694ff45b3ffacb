// Package resolve answers static-type questions about Java expressions and
// type references.
//
// An Env is composed of providers that know class members: a built-in JDK
// table, source-path directories parsed lazily, and class-path archives read
// from their class files. Providers are consulted in order and the first hit
// wins. Types declared in the unit being processed are always consulted first.
//
// Env is read-only after construction and safe for concurrent use.
package resolve
