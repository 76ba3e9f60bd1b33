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

package limits

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/NVIDIA/host-init/pkg/defaults"
	"github.com/NVIDIA/host-init/pkg/errors"
)

// stanzaMarker guards the idempotence check: the stanza is appended only
// when this marker is absent from the limits file.
const stanzaMarker = "# hostinit nofile limits"

// Tuner raises the open-file ceiling for all users (persisted) and for
// the current process (immediate).
type Tuner struct {
	// Path is the resource-limits file the stanza is appended to.
	Path string

	// NoFile is the soft and hard open-file ceiling.
	NoFile uint64

	// setrlimit raises the current-process limit; replaced in tests.
	setrlimit func(soft, hard uint64) error
	getrlimit func() (soft, hard uint64, err error)
}

// NewTuner creates a Tuner for the default limits file.
func NewTuner(noFile uint64) *Tuner {
	return &Tuner{
		Path:   defaults.LimitsFile,
		NoFile: noFile,
		setrlimit: func(soft, hard uint64) error {
			return unix.Setrlimit(unix.RLIMIT_NOFILE, &unix.Rlimit{Cur: soft, Max: hard})
		},
		getrlimit: func() (uint64, uint64, error) {
			var rl unix.Rlimit
			if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
				return 0, 0, err
			}
			return rl.Cur, rl.Max, nil
		},
	}
}

// Stanza returns the limits-file block for the configured ceiling.
func (t *Tuner) Stanza() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", stanzaMarker)
	for _, who := range []string{"*", "root"} {
		fmt.Fprintf(&b, "%s soft nofile %d\n", who, t.NoFile)
		fmt.Fprintf(&b, "%s hard nofile %d\n", who, t.NoFile)
	}
	return b.String()
}

// Apply appends the nofile stanza to the limits file unless it is already
// present, then raises RLIMIT_NOFILE for the current process so the
// remainder of the run benefits immediately. An unprivileged process that
// cannot raise its hard limit clamps to the existing hard ceiling and
// reports a warning.
func (t *Tuner) Apply(ctx context.Context) (warnings []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	appended, err := t.persist()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMutation, "failed to update limits file", err)
	}
	if appended {
		slog.Info("nofile stanza appended", "path", t.Path, "nofile", t.NoFile)
	} else {
		slog.Info("nofile stanza already present", "path", t.Path)
	}

	if w := t.raiseCurrent(); w != "" {
		warnings = append(warnings, w)
	}
	return warnings, nil
}

// persist appends the stanza when missing; reports whether it wrote.
func (t *Tuner) persist() (bool, error) {
	data, err := os.ReadFile(t.Path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	if strings.Contains(string(data), stanzaMarker) {
		return false, nil
	}

	f, err := os.OpenFile(t.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaults.SystemFileMode)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if _, err := f.WriteString(t.Stanza()); err != nil {
		return false, err
	}
	return true, f.Sync()
}

// raiseCurrent lifts the process limit, clamping to the hard ceiling
// when the full raise is denied. Returns a warning message or "".
func (t *Tuner) raiseCurrent() string {
	if err := t.setrlimit(t.NoFile, t.NoFile); err == nil {
		slog.Info("process nofile limit raised", "nofile", t.NoFile)
		return ""
	}

	_, hard, err := t.getrlimit()
	if err == nil && hard < t.NoFile {
		if err := t.setrlimit(hard, hard); err == nil {
			return fmt.Sprintf("process nofile limit clamped to hard ceiling %d (wanted %d)", hard, t.NoFile)
		}
	}
	return fmt.Sprintf("could not raise process nofile limit to %d", t.NoFile)
}
