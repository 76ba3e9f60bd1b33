// Package sysinfo determines the execution environment of a run.
//
// It parses the freedesktop.org os-release file to identify the
// distribution and its package-manager lineage, probes the standard
// container runtime markers, and reads the running kernel release. The
// resulting System value tells the orchestrator which mutations are safe:
// kernel tunables and live hostname application are restricted inside
// containers, and package steps require a known distribution family.
//
// Detection is read-only; nothing in this package mutates the system.
package sysinfo
