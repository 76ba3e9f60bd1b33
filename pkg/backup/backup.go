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

package backup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/NVIDIA/host-init/pkg/defaults"
	"github.com/NVIDIA/host-init/pkg/errors"
)

// snapshotTimeFormat names snapshot directories by creation time.
const snapshotTimeFormat = "20060102-150405"

// Source is one tracked file with the permissions its snapshot copy must
// carry.
type Source struct {
	// Path is the live file location.
	Path string

	// Mode is the mode of the snapshot copy. The credential file uses
	// 0000 so the copy is never more accessible than the original.
	Mode os.FileMode
}

// DefaultSources returns the tracked file set: hosts table, hostname
// file, credential store (no-access copy), kernel-tunable drop-in, and
// resource-limits file.
func DefaultSources() []Source {
	return []Source{
		{Path: defaults.HostsFile, Mode: defaults.SystemFileMode},
		{Path: defaults.HostnameFile, Mode: defaults.SystemFileMode},
		{Path: defaults.ShadowFile, Mode: defaults.SecretFileMode},
		{Path: defaults.SysctlFile, Mode: defaults.SystemFileMode},
		{Path: defaults.LimitsFile, Mode: defaults.SystemFileMode},
	}
}

// Manager creates pre-mutation snapshots of tracked system files.
type Manager struct {
	// Root is the backup root directory, created owner-only on first use.
	Root string

	// Sources are the tracked files. Missing sources are skipped.
	Sources []Source

	now func() time.Time
}

// NewManager creates a Manager over the given backup root with the
// default tracked file set.
func NewManager(root string) *Manager {
	return &Manager{
		Root:    root,
		Sources: DefaultSources(),
		now:     time.Now,
	}
}

// CreateSnapshot creates a fresh timestamped snapshot directory under the
// backup root and copies every tracked source file that exists into it.
// The operation is atomic at the directory level: on any copy failure the
// snapshot directory is removed entirely and callers must treat the
// result as "no backup". The returned path is the created snapshot
// directory.
func (m *Manager) CreateSnapshot(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.now == nil {
		m.now = time.Now
	}

	if err := os.MkdirAll(m.Root, defaults.BackupDirMode); err != nil {
		return "", errors.Wrap(errors.ErrCodeMutation, "failed to create backup root", err)
	}
	// MkdirAll is a no-op on an existing root; enforce owner-only either way.
	if err := os.Chmod(m.Root, defaults.BackupDirMode); err != nil {
		return "", errors.Wrap(errors.ErrCodeMutation, "failed to restrict backup root permissions", err)
	}

	dir, err := m.createSnapshotDir()
	if err != nil {
		return "", err
	}

	for _, src := range m.Sources {
		if _, err := os.Stat(src.Path); os.IsNotExist(err) {
			slog.Info("backup source missing, skipping", "path", src.Path)
			continue
		}

		dst := filepath.Join(dir, filepath.Base(src.Path)+".bak")
		if err := copyFile(src.Path, dst, src.Mode); err != nil {
			// No partial snapshot may survive as if valid.
			if rmErr := os.RemoveAll(dir); rmErr != nil {
				slog.Error("failed to remove partial snapshot", "dir", dir, "error", rmErr)
			}
			return "", errors.WrapWithContext(errors.ErrCodeMutation,
				"snapshot failed", err, map[string]any{"source": src.Path})
		}
		slog.Debug("backed up", "source", src.Path, "copy", dst)
	}

	slog.Info("snapshot created", "dir", dir)
	return dir, nil
}

// createSnapshotDir creates an exclusively-owned timestamped directory,
// suffixing the name if two runs collide within the same second.
func (m *Manager) createSnapshotDir() (string, error) {
	base := filepath.Join(m.Root, m.now().Format(snapshotTimeFormat))
	dir := base
	for i := 1; ; i++ {
		err := os.Mkdir(dir, defaults.BackupDirMode)
		if err == nil {
			return dir, nil
		}
		if !os.IsExist(err) {
			return "", errors.Wrap(errors.ErrCodeMutation, "failed to create snapshot directory", err)
		}
		if i > 10 {
			return "", errors.Newf(errors.ErrCodeMutation, "snapshot directory %q already exists", base)
		}
		dir = fmt.Sprintf("%s-%d", base, i)
	}
}

// copyFile copies src to dst. The destination is created exclusively with
// the target mode before any content is written, so a restrictive copy is
// never observable with wider permissions.
func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %q: %w", src, err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return fmt.Errorf("failed to sync %q: %w", dst, err)
	}
	return out.Close()
}
