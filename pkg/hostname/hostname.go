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

package hostname

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/NVIDIA/host-init/pkg/defaults"
	"github.com/NVIDIA/host-init/pkg/errors"
)

// Configurator applies a validated hostname to the live kernel and the
// persisted hostname file.
type Configurator struct {
	// Path is the persisted hostname file, /etc/hostname by default.
	Path string

	// InContainer downgrades live-apply failures to warnings, since
	// container runtimes commonly deny sethostname.
	InContainer bool

	// run executes the hostname service command; replaced in tests.
	run func(ctx context.Context, name string, args ...string) error

	// setKernel applies the hostname to the running kernel directly;
	// replaced in tests.
	setKernel func(name string) error
}

// NewConfigurator creates a Configurator for the default hostname file.
func NewConfigurator(inContainer bool) *Configurator {
	return &Configurator{
		Path:        defaults.HostnameFile,
		InContainer: inContainer,
		run:         execRun,
		setKernel:   func(name string) error { return unix.Sethostname([]byte(name)) },
	}
}

// Apply persists name to the hostname file and applies it to the running
// kernel. The persisted file is the source of truth: a persist failure is
// fatal, while a live-apply failure inside a container is returned as a
// warning. Re-applying the same name is idempotent.
func (c *Configurator) Apply(ctx context.Context, name string) (warnings []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := c.persist(name); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMutation, "failed to persist hostname", err)
	}
	slog.Info("hostname persisted", "path", c.Path, "hostname", name)

	if err := c.applyLive(ctx, name); err != nil {
		if c.InContainer {
			return []string{fmt.Sprintf("live hostname apply failed in container, persisted only: %v", err)}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeMutation, "failed to apply live hostname", err)
	}
	slog.Info("hostname applied", "hostname", name)
	return nil, nil
}

// persist writes "<name>\n" to the hostname file via a same-directory
// temp file and rename, so readers never observe a partial write.
func (c *Configurator) persist(name string) error {
	dir := filepath.Dir(c.Path)
	tmp, err := os.CreateTemp(dir, ".hostname-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %q: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(name + "\n"); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(defaults.SystemFileMode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.Path)
}

// applyLive prefers the hostname service and falls back to the
// sethostname syscall when the service is unavailable.
func (c *Configurator) applyLive(ctx context.Context, name string) error {
	if _, err := exec.LookPath("hostnamectl"); err == nil {
		if err := c.run(ctx, "hostnamectl", "set-hostname", name); err == nil {
			return nil
		} else {
			slog.Warn("hostnamectl failed, falling back to sethostname", "error", err)
		}
	}
	return c.setKernel(name)
}

func execRun(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.CommandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", name, err, string(out))
	}
	return nil
}
