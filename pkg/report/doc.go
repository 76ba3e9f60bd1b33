// Package report renders the human-readable completion summary written
// once at the end of a successful run.
package report
