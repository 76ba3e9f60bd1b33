// Package limits raises the open-file descriptor ceiling.
//
// The persisted change is a marker-guarded stanza appended to the
// resource-limits file (idempotent by substring check); the immediate
// change raises RLIMIT_NOFILE for the current process. Failing to raise
// the live limit is a warning, never fatal.
package limits
