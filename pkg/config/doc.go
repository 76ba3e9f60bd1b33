// Package config loads the optional run policy from a YAML file.
//
// Policy values default to pkg/defaults and may be overridden via the
// file named by --config or, when present, /etc/hostinit.yaml. Unknown
// keys are rejected to catch typos early, and overridden values are
// validated before the run starts.
package config
