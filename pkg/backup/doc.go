// Package backup creates the pre-mutation snapshot that backs the
// recovery contract of the pipeline.
//
// A snapshot is a fresh, owner-only, timestamped directory containing
// .bak copies of every tracked system file that exists at snapshot time.
// The credential-file copy is created with no access bits before a single
// byte is written. Snapshot creation either completes fully or removes
// the directory it started; a failed snapshot is "no backup", never a
// partial one. Snapshots are immutable after creation and never deleted
// by the tool.
package backup
