// Package orchestrator sequences the host initialization pipeline:
// detection, backup, interactive input, and the ordered mutation steps.
// Steps run strictly in order; the first fatal error aborts the run and
// points the operator at the pre-run snapshot, with no automatic
// rollback.
package orchestrator
