// Package memory provides in-memory implementations of the driven ports.
//
// The stores hold everything in maps guarded by a mutex. They back tests,
// the embedded index backend and short-lived corpora built from files.
package memory
