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

package pkgmgr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/NVIDIA/host-init/pkg/defaults"
	"github.com/NVIDIA/host-init/pkg/errors"
)

// Manager invokes the distribution package manager as a black box. The
// tool never interprets package state; it only propagates success or
// failure of the external command.
type Manager struct {
	// Binary is the package manager ("apt-get", "dnf", "yum", "zypper",
	// "pacman").
	Binary string

	// run executes one invocation; replaced in tests.
	run func(ctx context.Context, args ...string) error
}

// New creates a Manager for the given package manager binary. An empty
// binary yields a nil Manager; callers skip package steps in that case.
func New(binary string) *Manager {
	if binary == "" {
		return nil
	}
	m := &Manager{Binary: binary}
	m.run = m.execRun
	return m
}

// Update refreshes the package index.
func (m *Manager) Update(ctx context.Context) error {
	args, ok := updateArgs[m.Binary]
	if !ok {
		return errors.Newf(errors.ErrCodeEnvironment, "no update command for %q", m.Binary)
	}
	return m.invoke(ctx, args)
}

// Upgrade applies pending package upgrades non-interactively.
func (m *Manager) Upgrade(ctx context.Context) error {
	args, ok := upgradeArgs[m.Binary]
	if !ok {
		return errors.Newf(errors.ErrCodeEnvironment, "no upgrade command for %q", m.Binary)
	}
	return m.invoke(ctx, args)
}

// Autoremove removes obsolete packages. Package managers without an
// equivalent are a no-op.
func (m *Manager) Autoremove(ctx context.Context) error {
	args, ok := autoremoveArgs[m.Binary]
	if !ok {
		slog.Info("autoremove not supported, skipping", "binary", m.Binary)
		return nil
	}
	return m.invoke(ctx, args)
}

var updateArgs = map[string][]string{
	"apt-get": {"update"},
	"dnf":     {"makecache"},
	"yum":     {"makecache"},
	"zypper":  {"refresh"},
	"pacman":  {"-Sy", "--noconfirm"},
}

var upgradeArgs = map[string][]string{
	"apt-get": {"upgrade", "-y"},
	"dnf":     {"upgrade", "-y"},
	"yum":     {"update", "-y"},
	"zypper":  {"update", "-y"},
	"pacman":  {"-Su", "--noconfirm"},
}

var autoremoveArgs = map[string][]string{
	"apt-get": {"autoremove", "-y"},
	"dnf":     {"autoremove", "-y"},
	"yum":     {"autoremove", "-y"},
}

func (m *Manager) invoke(ctx context.Context, args []string) error {
	slog.Info("running package manager", "binary", m.Binary, "args", args)
	if err := m.run(ctx, args...); err != nil {
		return errors.WrapWithContext(errors.ErrCodeMutation, "package manager failed", err,
			map[string]any{"binary": m.Binary, "args": args})
	}
	return nil
}

func (m *Manager) execRun(ctx context.Context, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.PackageTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.Binary, args...)
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %v failed: %w: %s", m.Binary, args, err, string(out))
	}
	return nil
}
