// Package hosts edits the loopback-hostname mapping in the system hosts
// table.
//
// The editor removes every existing loopback-alias entry, appends exactly
// one new mapping, and preserves all unrelated lines byte-for-byte in
// their original order, making the rewrite idempotent. Before mutating it
// writes a timestamped backup next to the table, in addition to the run
// snapshot. Syntax validation and the post-update resolution probe are
// best-effort and report warnings only.
package hosts
