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

package hosts

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NVIDIA/host-init/pkg/defaults"
	"github.com/NVIDIA/host-init/pkg/errors"
	"github.com/NVIDIA/host-init/pkg/file"
)

// localhostLine is the basic loopback entry every hosts table must carry.
const localhostLine = "127.0.0.1\tlocalhost"

// Editor rewrites the loopback-alias mapping in the system hosts table
// while preserving all unrelated entries byte-for-byte.
type Editor struct {
	// Path is the hosts table, /etc/hosts by default.
	Path string

	// Alias is the loopback address mapped to the machine hostname,
	// 127.0.1.1 by default.
	Alias string

	now func() time.Time
}

// NewEditor creates an Editor for the default hosts table.
func NewEditor(alias string) *Editor {
	if alias == "" {
		alias = defaults.LoopbackAlias
	}
	return &Editor{
		Path:  defaults.HostsFile,
		Alias: alias,
		now:   time.Now,
	}
}

// Update removes every existing loopback-alias entry and appends exactly
// one mapping the alias address to name. Unrelated lines (other
// addresses, comments, blanks) keep their content and order. A basic
// localhost entry is appended if absent. A secondary timestamped backup
// of the table is written next to it before mutation. Running twice with
// the same name yields the same table.
func (e *Editor) Update(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.now == nil {
		e.now = time.Now
	}

	lines, err := file.NewParser().RawLines(e.Path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMutation, "failed to read hosts table", err)
	}

	if err := e.backup(); err != nil {
		return errors.Wrap(errors.ErrCodeMutation, "failed to back up hosts table", err)
	}

	kept := make([]string, 0, len(lines)+2)
	hasLocalhost := false
	for _, line := range lines {
		if e.isAliasLine(line) {
			continue
		}
		if isLocalhostLine(line) {
			hasLocalhost = true
		}
		kept = append(kept, line)
	}

	if !hasLocalhost {
		slog.Warn("hosts table missing localhost entry, appending")
		kept = append(kept, localhostLine)
	}
	kept = append(kept, e.Alias+"\t"+name)

	if err := e.write(kept); err != nil {
		return errors.Wrap(errors.ErrCodeMutation, "failed to write hosts table", err)
	}
	slog.Info("hosts table updated", "alias", e.Alias, "hostname", name)
	return nil
}

// ValidateSyntax performs a best-effort structural check of the hosts
// table. Non-blank, non-comment lines should resemble "address,
// whitespace, one or more names". Violations are returned as warnings,
// never errors, since hosts-table conventions vary.
func (e *Editor) ValidateSyntax() ([]string, error) {
	lines, err := file.NewParser().RawLines(e.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMutation, "failed to read hosts table", err)
	}

	var warnings []string
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			warnings = append(warnings, fmt.Sprintf("line %d: missing hostname after address: %q", i+1, line))
			continue
		}
		if net.ParseIP(fields[0]) == nil {
			warnings = append(warnings, fmt.Sprintf("line %d: %q does not look like an address", i+1, fields[0]))
		}
	}
	return warnings, nil
}

// TestResolution checks that name resolves locally. Failures are reported
// to the caller as warnings; resolver behavior right after a hosts-table
// change varies with the local caching setup.
func (e *Editor) TestResolution(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.ResolutionTimeout)
	defer cancel()

	addrs, err := net.DefaultResolver.LookupHost(ctx, name)
	if err != nil {
		return fmt.Errorf("hostname %q does not resolve: %w", name, err)
	}
	slog.Info("hostname resolves", "hostname", name, "addresses", strings.Join(addrs, ","))
	return nil
}

// isAliasLine reports whether line maps the loopback-alias address,
// i.e. begins with the alias followed by whitespace.
func (e *Editor) isAliasLine(line string) bool {
	rest, ok := strings.CutPrefix(line, e.Alias)
	if !ok || rest == "" {
		return false
	}
	return rest[0] == ' ' || rest[0] == '\t'
}

func isLocalhostLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "127.0.0.1" {
		return false
	}
	for _, f := range fields[1:] {
		if f == "localhost" {
			return true
		}
	}
	return false
}

// backup copies the current table to <path>.bak.<timestamp>. This is in
// addition to the run snapshot; the hosts table gets belt-and-suspenders
// treatment.
func (e *Editor) backup() error {
	data, err := os.ReadFile(e.Path)
	if err != nil {
		return err
	}
	dst := fmt.Sprintf("%s.bak.%s", e.Path, e.now().Format("20060102-150405"))
	return os.WriteFile(dst, data, defaults.SystemFileMode)
}

// write replaces the table atomically via a same-directory temp file.
func (e *Editor) write(lines []string) error {
	dir := filepath.Dir(e.Path)
	tmp, err := os.CreateTemp(dir, ".hosts-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	content := strings.Join(lines, "\n") + "\n"
	if _, err := tmp.WriteString(content); err != nil {
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
	return os.Rename(tmp.Name(), e.Path)
}
