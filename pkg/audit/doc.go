// Package audit implements the durable, append-only audit trail for
// initialization runs.
//
// Every record is one line of the form:
//
//	[2025-01-15 10:30:00] [INFO] hostname applied
//
// The log file is created with owner-only permissions (0600) and is only
// ever appended to. Records are additionally mirrored to the default slog
// logger and, when running under systemd, to the journal.
//
// Callers must never pass secret material in record messages; the logger
// writes messages verbatim.
package audit
