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

package sysctl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/host-init/pkg/defaults"
	"github.com/NVIDIA/host-init/pkg/errors"
)

// procSysRoot is the fallback write location when the sysctl binary is
// unavailable.
var procSysRoot = "/proc/sys"

// Applier writes the kernel-tunable profile and loads it into the
// running kernel.
type Applier struct {
	// Path is the sysctl drop-in file.
	Path string

	// Tool names the managing tool in the drop-in header.
	Tool string

	// InContainer skips kernel-parameter mutation entirely, since
	// container runtimes typically deny writes to kernel tunables.
	InContainer bool

	// load applies one tunable to the running kernel; replaced in tests.
	load func(ctx context.Context, key, value string) error
}

// NewApplier creates an Applier for the default drop-in path.
func NewApplier(tool string, inContainer bool) *Applier {
	a := &Applier{
		Path:        defaults.SysctlFile,
		Tool:        tool,
		InContainer: inContainer,
	}
	a.load = a.loadParam
	return a
}

// Apply writes the versioned profile to the drop-in file
// (world-readable, not writable) and loads each tunable into the running
// kernel. A tunable the kernel rejects (an unsupported congestion
// control algorithm, say) produces a warning; the step still succeeds.
// Inside a container the whole mutation is skipped with a warning.
func (a *Applier) Apply(ctx context.Context) (warnings []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if a.InContainer {
		return []string{"kernel parameter changes skipped inside container"}, nil
	}

	content, err := RenderProfile(a.Tool)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "profile render failed", err)
	}
	if err := os.WriteFile(a.Path, []byte(content), defaults.SystemFileMode); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMutation, "failed to write sysctl drop-in", err)
	}
	slog.Info("kernel tunable profile written", "path", a.Path, "version", ProfileVersion)

	for _, p := range Profile() {
		if err := a.load(ctx, p.Key, p.Value); err != nil {
			warnings = append(warnings, fmt.Sprintf("kernel rejected %s=%s: %v", p.Key, p.Value, err))
		}
	}
	slog.Info("kernel tunables loaded", "applied", len(Profile())-len(warnings), "rejected", len(warnings))
	return warnings, nil
}

// loadParam prefers the sysctl binary and falls back to writing the
// /proc/sys path directly.
func (a *Applier) loadParam(ctx context.Context, key, value string) error {
	if path, err := exec.LookPath("sysctl"); err == nil {
		ctx, cancel := context.WithTimeout(ctx, defaults.CommandTimeout)
		defer cancel()

		out, err := exec.CommandContext(ctx, path, "-w", fmt.Sprintf("%s=%s", key, value)).CombinedOutput()
		if err != nil {
			return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
		}
		return nil
	}

	proc := filepath.Join(procSysRoot, strings.ReplaceAll(key, ".", "/"))
	return os.WriteFile(proc, []byte(value+"\n"), 0o644)
}
