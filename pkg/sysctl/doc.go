// Package sysctl writes the fixed kernel-tunable hardening profile and
// loads it into the running kernel.
//
// The profile is a versioned static contract rendered to a drop-in file
// under /etc/sysctl.d. Individual tunables the running kernel rejects are
// warnings, and inside a container the whole mutation is deliberately
// skipped, since such environments typically deny kernel-tunable writes.
package sysctl
