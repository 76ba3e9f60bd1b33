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
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/NVIDIA/host-init/pkg/audit"
	"github.com/NVIDIA/host-init/pkg/backup"
	"github.com/NVIDIA/host-init/pkg/config"
	"github.com/NVIDIA/host-init/pkg/credential"
	"github.com/NVIDIA/host-init/pkg/errors"
	"github.com/NVIDIA/host-init/pkg/hostname"
	"github.com/NVIDIA/host-init/pkg/hosts"
	"github.com/NVIDIA/host-init/pkg/limits"
	"github.com/NVIDIA/host-init/pkg/pkgmgr"
	"github.com/NVIDIA/host-init/pkg/prompt"
	"github.com/NVIDIA/host-init/pkg/report"
	"github.com/NVIDIA/host-init/pkg/sysctl"
	"github.com/NVIDIA/host-init/pkg/sysinfo"
	"github.com/NVIDIA/host-init/pkg/validate"
)

// toolName labels generated files and the sysctl drop-in header.
const toolName = "hostinit"

// Component interfaces, satisfied by the concrete packages and by test
// fakes. Several components depend on detection results (the container
// flag, the package manager), so the Runner holds factories rather than
// instances.
type (
	detector interface {
		Detect(ctx context.Context) (*sysinfo.System, error)
	}
	snapshotter interface {
		CreateSnapshot(ctx context.Context) (string, error)
	}
	hostnameApplier interface {
		Apply(ctx context.Context, name string) ([]string, error)
	}
	hostsEditor interface {
		Update(ctx context.Context, name string) error
		ValidateSyntax() ([]string, error)
		TestResolution(ctx context.Context, name string) error
	}
	passwordRotator interface {
		Rotate(ctx context.Context, secret []byte) error
	}
	profileApplier interface {
		Apply(ctx context.Context) ([]string, error)
	}
	packageManager interface {
		Update(ctx context.Context) error
		Upgrade(ctx context.Context) error
		Autoremove(ctx context.Context) error
	}
)

// Runner sequences the initialization pipeline over one RunContext.
type Runner struct {
	Config  *config.Config
	Version string

	// RunID overrides the generated run identifier so the audit logger
	// and the run context carry the same tag. Empty generates a fresh one.
	RunID string

	// SkipUpdate suppresses the package index refresh and upgrade.
	SkipUpdate bool

	// SkipPackages suppresses obsolete-package cleanup.
	SkipPackages bool

	// Audit is the durable run log; required.
	Audit *audit.Logger

	// Prompter acquires operator input; required.
	Prompter *prompt.Prompter

	// Stderr receives operator-facing fatal and warning lines.
	Stderr io.Writer

	// Component factories, overridable in tests.
	detect         detector
	newSnapshotter func(root string) snapshotter
	newHostname    func(inContainer bool) hostnameApplier
	newHosts       func(alias string) hostsEditor
	newRotator     func() passwordRotator
	newKernel      func(inContainer bool) profileApplier
	newLimits      func(noFile uint64) profileApplier
	newPackages    func(binary string) packageManager
	writeReport    func(path string, d report.Data) error
}

// NewRunner creates a Runner wired to the real system components.
func NewRunner(cfg *config.Config, version string, log *audit.Logger, p *prompt.Prompter) *Runner {
	return &Runner{
		Config:   cfg,
		Version:  version,
		Audit:    log,
		Prompter: p,
		Stderr:   os.Stderr,

		detect:         &sysinfo.Detector{},
		newSnapshotter: func(root string) snapshotter { return backup.NewManager(root) },
		newHostname:    func(inContainer bool) hostnameApplier { return hostname.NewConfigurator(inContainer) },
		newHosts:       func(alias string) hostsEditor { return hosts.NewEditor(alias) },
		newRotator:     func() passwordRotator { return credential.NewRotator() },
		newKernel:      func(inContainer bool) profileApplier { return sysctl.NewApplier(toolName, inContainer) },
		newLimits:      func(noFile uint64) profileApplier { return limits.NewTuner(noFile) },
		newPackages: func(binary string) packageManager {
			if m := pkgmgr.New(binary); m != nil {
				return m
			}
			return nil
		},
		writeReport: report.Write,
	}
}

// step is one named pipeline stage. Stages run strictly in order; a
// stage never runs after a failed predecessor.
type step struct {
	name string
	fn   func(ctx context.Context, rc *RunContext) error
}

func (r *Runner) steps() []step {
	return []step{
		{"detect", r.stepDetect},
		{"backup", r.stepBackup},
		{"update_packages", r.stepUpdatePackages},
		{"prompt_hostname", r.stepPromptHostname},
		{"prompt_password", r.stepPromptPassword},
		{"apply_hostname", r.stepApplyHostname},
		{"update_hosts", r.stepUpdateHosts},
		{"validate_hosts", r.stepValidateHosts},
		{"test_resolution", r.stepTestResolution},
		{"rotate_password", r.stepRotatePassword},
		{"apply_kernel_profile", r.stepApplyKernelProfile},
		{"tune_limits", r.stepTuneLimits},
		{"report", r.stepReport},
	}
}

// Run executes the pipeline. On any fatal condition it logs the failing
// step and its position, warns the operator that the system may be in a
// partial state, and returns a non-nil error; the caller maps that to
// exit code 1. There is no automatic rollback: the operator is pointed
// at the snapshot for manual recovery.
func (r *Runner) Run(ctx context.Context) (err error) {
	rc := NewRunContext()
	if r.RunID != "" {
		rc.ID = r.RunID
	}
	defer rc.WipeSecret()

	// Global failure handler. A panic anywhere in a step is converted to
	// a fatal INTERNAL error attributed to the step counter. This is a
	// safety net, not a substitute for step-local error handling.
	defer func() {
		if p := recover(); p != nil {
			err = errors.Newf(errors.ErrCodeInternal, "unexpected failure at step %d: %v", rc.Step, p)
			r.fail(rc, "panic", err)
		}
	}()

	r.Audit.Info(fmt.Sprintf("run %s started (version %s)", rc.ID, r.Version))

	steps := r.steps()
	for i, s := range steps {
		rc.Step = i + 1
		r.Audit.Info(fmt.Sprintf("step %d/%d: %s", rc.Step, len(steps), s.name))

		if err := s.fn(ctx, rc); err != nil {
			r.fail(rc, s.name, err)
			return err
		}
	}

	r.Audit.Info(fmt.Sprintf("run %s completed", rc.ID))
	return nil
}

// fail records the abort in the audit log and prints the operator-facing
// partial-state warning.
func (r *Runner) fail(rc *RunContext, stepName string, err error) {
	rc.WipeSecret()
	r.Audit.Error(fmt.Sprintf("aborted at step %d (%s): %v", rc.Step, stepName, err))

	fmt.Fprintln(r.Stderr, "WARNING: the system may be in a partial state.")
	if rc.SnapshotDir != "" {
		fmt.Fprintf(r.Stderr, "Pre-run copies of modified files are in %s for manual recovery.\n", rc.SnapshotDir)
	}
}

// warn routes step warnings to the audit log and the report.
func (r *Runner) warn(rc *RunContext, warnings []string) {
	for _, w := range warnings {
		r.Audit.Warn(w)
		rc.NoteSkipped(w)
	}
}

func (r *Runner) stepDetect(ctx context.Context, rc *RunContext) error {
	sys, err := r.detect.Detect(ctx)
	if err != nil {
		return err
	}
	rc.System = sys
	r.Audit.Info(fmt.Sprintf("detected %s (%s family, container=%t)",
		sys.PrettyName, sys.Family, sys.Container))
	return nil
}

func (r *Runner) stepBackup(ctx context.Context, rc *RunContext) error {
	dir, err := r.newSnapshotter(r.Config.BackupRoot).CreateSnapshot(ctx)
	if err != nil {
		return err
	}
	rc.SnapshotDir = dir
	r.Audit.Info(fmt.Sprintf("snapshot created at %s", dir))
	return nil
}

func (r *Runner) stepUpdatePackages(ctx context.Context, rc *RunContext) error {
	pm := r.newPackages(rc.System.PackageManager)
	if pm == nil {
		r.warn(rc, []string{fmt.Sprintf(
			"no package manager mapping for distribution %q, package steps skipped", rc.System.DistributionID)})
		return nil
	}

	if r.SkipUpdate {
		r.warn(rc, []string{"package update and upgrade skipped by flag"})
	} else {
		if err := pm.Update(ctx); err != nil {
			return err
		}
		if err := pm.Upgrade(ctx); err != nil {
			return err
		}
		rc.NoteApplied("system packages upgraded")
	}

	if r.SkipPackages {
		r.warn(rc, []string{"obsolete package cleanup skipped by flag"})
		return nil
	}
	if err := pm.Autoremove(ctx); err != nil {
		return err
	}
	return nil
}

func (r *Runner) stepPromptHostname(ctx context.Context, rc *RunContext) error {
	name, err := r.Prompter.Line("New hostname", validate.Hostname)
	if err != nil {
		return err
	}
	rc.Hostname = name
	r.Audit.Info(fmt.Sprintf("hostname %q accepted", name))
	return nil
}

func (r *Runner) stepPromptPassword(ctx context.Context, rc *RunContext) error {
	secret, err := r.Prompter.Secret("New root password", func(b []byte) error {
		return validate.Password(b, r.Config.MinPasswordLength)
	})
	if err != nil {
		return err
	}
	rc.SetSecret(secret)
	r.Audit.Info("root password accepted")
	return nil
}

func (r *Runner) stepApplyHostname(ctx context.Context, rc *RunContext) error {
	warnings, err := r.newHostname(rc.System.Container).Apply(ctx, rc.Hostname)
	if err != nil {
		return err
	}
	r.warn(rc, warnings)
	rc.NoteApplied(fmt.Sprintf("hostname set to %s", rc.Hostname))
	return nil
}

func (r *Runner) stepUpdateHosts(ctx context.Context, rc *RunContext) error {
	if err := r.newHosts(r.Config.LoopbackAlias).Update(ctx, rc.Hostname); err != nil {
		return err
	}
	rc.NoteApplied(fmt.Sprintf("hosts table maps %s to %s", r.Config.LoopbackAlias, rc.Hostname))
	return nil
}

func (r *Runner) stepValidateHosts(ctx context.Context, rc *RunContext) error {
	warnings, err := r.newHosts(r.Config.LoopbackAlias).ValidateSyntax()
	if err != nil {
		return err
	}
	r.warn(rc, warnings)
	return nil
}

func (r *Runner) stepTestResolution(ctx context.Context, rc *RunContext) error {
	// Resolution problems right after a hosts change are advisory only.
	if err := r.newHosts(r.Config.LoopbackAlias).TestResolution(ctx, rc.Hostname); err != nil {
		r.warn(rc, []string{err.Error()})
	}
	return nil
}

func (r *Runner) stepRotatePassword(ctx context.Context, rc *RunContext) error {
	err := r.newRotator().Rotate(ctx, rc.Secret())
	rc.WipeSecret()
	if err != nil {
		return err
	}
	rc.NoteApplied("root password rotated")
	return nil
}

func (r *Runner) stepApplyKernelProfile(ctx context.Context, rc *RunContext) error {
	warnings, err := r.newKernel(rc.System.Container).Apply(ctx)
	if err != nil {
		return err
	}
	r.warn(rc, warnings)
	if !rc.System.Container {
		rc.NoteApplied("kernel tunable profile applied")
	}
	return nil
}

func (r *Runner) stepTuneLimits(ctx context.Context, rc *RunContext) error {
	warnings, err := r.newLimits(r.Config.NoFileLimit).Apply(ctx)
	if err != nil {
		return err
	}
	r.warn(rc, warnings)
	rc.NoteApplied(fmt.Sprintf("open-file limit raised to %d", r.Config.NoFileLimit))
	return nil
}

func (r *Runner) stepReport(ctx context.Context, rc *RunContext) error {
	d := report.Data{
		RunID:        rc.ID,
		Hostname:     rc.Hostname,
		Distribution: rc.System.PrettyName,
		Kernel:       rc.System.KernelRelease,
		Applied:      rc.Applied,
		Skipped:      rc.Skipped,
		BackupDir:    rc.SnapshotDir,
		LogPath:      r.Config.LogPath,
		GeneratedAt:  time.Now(),
	}
	if err := r.writeReport(r.Config.ReportPath, d); err != nil {
		return errors.Wrap(errors.ErrCodeMutation, "failed to write completion report", err)
	}
	r.Audit.Info(fmt.Sprintf("completion report written to %s", r.Config.ReportPath))
	return nil
}
