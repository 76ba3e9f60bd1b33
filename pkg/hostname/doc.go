// Package hostname applies a validated hostname to the system.
//
// The persisted hostname file is written atomically and is the source of
// truth; the live kernel hostname is applied through hostnamectl when the
// hostname service is available, falling back to the sethostname syscall.
// Inside containers a live-apply failure is a warning, because container
// runtimes commonly deny the operation.
package hostname
