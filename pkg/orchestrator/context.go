// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orchestrator

import (
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/host-init/pkg/prompt"
	"github.com/NVIDIA/host-init/pkg/sysinfo"
)

// RunContext is the single in-memory state object scoped to one
// invocation. It is created at start, threaded through every step, and
// torn down at process exit; it is never persisted between runs.
type RunContext struct {
	// ID is the run identifier stamped into audit records and the report.
	ID string

	// StartTime is when the run began.
	StartTime time.Time

	// System is the detected environment, set by the detect step.
	System *sysinfo.System

	// Hostname is the accepted hostname candidate. Invalid candidates are
	// discarded by the prompt layer and never recorded here.
	Hostname string

	// SnapshotDir is the backup snapshot created for this run.
	SnapshotDir string

	// Step is a monotonically increasing counter used for error
	// attribution by the failure handler.
	Step int

	// Applied collects operator-facing descriptions of completed changes
	// for the completion report.
	Applied []string

	// Skipped collects descriptions of downgraded or skipped operations.
	Skipped []string

	// secret is the accepted password. Held only as long as needed; the
	// credential rotator consumes and wipes it, and the orchestrator
	// wipes it again on any exit path.
	secret []byte
}

// NewRunContext creates the context for a fresh invocation.
func NewRunContext() *RunContext {
	return &RunContext{
		ID:        uuid.NewString(),
		StartTime: time.Now(),
	}
}

// SetSecret stores the accepted password candidate.
func (rc *RunContext) SetSecret(secret []byte) {
	rc.secret = secret
}

// Secret returns the stored password for consumption by the credential
// rotator. The rotator wipes the returned buffer.
func (rc *RunContext) Secret() []byte {
	return rc.secret
}

// WipeSecret zeroes and drops the stored password. Safe to call more
// than once.
func (rc *RunContext) WipeSecret() {
	if rc.secret != nil {
		prompt.Wipe(rc.secret)
		rc.secret = nil
	}
}

// NoteApplied records a completed change for the report.
func (rc *RunContext) NoteApplied(desc string) {
	rc.Applied = append(rc.Applied, desc)
}

// NoteSkipped records a downgraded or skipped operation for the report.
func (rc *RunContext) NoteSkipped(desc string) {
	rc.Skipped = append(rc.Skipped, desc)
}
