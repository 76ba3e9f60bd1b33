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

package credential

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/NVIDIA/host-init/pkg/defaults"
	"github.com/NVIDIA/host-init/pkg/errors"
)

// rootUser is the account whose password is rotated.
const rootUser = "root"

// Rotator replaces the root password through the system's atomic
// password-change primitive (chpasswd). The secret travels over stdin
// only: never argv, never the environment, never a log line.
type Rotator struct {
	// ShadowPath is the credential store probed after rotation.
	ShadowPath string

	// run feeds input to the change primitive; replaced in tests.
	run func(ctx context.Context, stdin io.Reader) error
}

// NewRotator creates a Rotator using the system chpasswd binary.
func NewRotator() *Rotator {
	return &Rotator{
		ShadowPath: defaults.ShadowFile,
		run:        runChpasswd,
	}
}

// Rotate changes the root password to secret. The composed chpasswd input
// and the caller's secret buffer are both zeroed before Rotate returns,
// on success and on failure alike. Returned errors never contain the
// secret.
func (r *Rotator) Rotate(ctx context.Context, secret []byte) error {
	defer wipe(secret)

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(secret) == 0 {
		return errors.New(errors.ErrCodeValidation, "refusing to set an empty root password")
	}

	// chpasswd reads "user:password" lines from stdin.
	line := make([]byte, 0, len(rootUser)+1+len(secret)+1)
	line = append(line, rootUser...)
	line = append(line, ':')
	line = append(line, secret...)
	line = append(line, '\n')
	defer wipe(line)

	if err := r.run(ctx, bytes.NewReader(line)); err != nil {
		return errors.Wrap(errors.ErrCodeMutation, "root password change failed", err)
	}

	if err := r.verifyShadowEntry(); err != nil {
		return errors.Wrap(errors.ErrCodeMutation, "credential store verification failed", err)
	}

	slog.Info("root password rotated")
	return nil
}

// verifyShadowEntry confirms the credential store holds a root entry. The
// entry content is never read beyond the account field and never logged.
func (r *Rotator) verifyShadowEntry() error {
	data, err := os.ReadFile(r.ShadowPath)
	if err != nil {
		return fmt.Errorf("cannot read credential store: %w", err)
	}
	defer wipe(data)

	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, rootUser+":") {
			return nil
		}
	}
	return fmt.Errorf("no %s entry in credential store", rootUser)
}

func runChpasswd(ctx context.Context, stdin io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.CommandTimeout)
	defer cancel()

	path, err := exec.LookPath("chpasswd")
	if err != nil {
		return fmt.Errorf("chpasswd not found in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, path)
	cmd.Stdin = stdin

	// Stderr may name the failing account but never echoes the password.
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("chpasswd failed: %w: %s", err, string(out))
	}
	return nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
