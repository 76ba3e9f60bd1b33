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

package audit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/journal"

	"github.com/NVIDIA/host-init/pkg/defaults"
)

// Level classifies an audit record.
type Level string

const (
	// LevelInfo records normal progress events.
	LevelInfo Level = "INFO"
	// LevelWarn records degraded or skipped operations that did not stop
	// the run.
	LevelWarn Level = "WARN"
	// LevelError records fatal conditions.
	LevelError Level = "ERROR"
)

// timestampFormat is the record timestamp layout. Seconds resolution is
// sufficient for a single-threaded pipeline.
const timestampFormat = "2006-01-02 15:04:05"

// Logger appends timestamped, leveled records to a durable log file.
// Records are write-once per line and never rewritten. Each record is
// mirrored to slog for console diagnostics and, when the journald socket
// is available, to the systemd journal.
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	runID   string
	journal bool
	now     func() time.Time
}

// New opens (or creates) the audit log at path with owner-only read/write
// permissions and returns a Logger tagged with the run ID.
func New(path, runID string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for %q: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaults.AuditLogMode)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log %q: %w", path, err)
	}

	// An existing log may predate the permission contract.
	if err := f.Chmod(defaults.AuditLogMode); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to restrict audit log permissions: %w", err)
	}

	return &Logger{
		file:    f,
		runID:   runID,
		journal: journal.Enabled(),
		now:     time.Now,
	}, nil
}

// Info appends an INFO record.
func (l *Logger) Info(msg string) {
	l.append(LevelInfo, msg)
}

// Warn appends a WARN record.
func (l *Logger) Warn(msg string) {
	l.append(LevelWarn, msg)
}

// Error appends an ERROR record.
func (l *Logger) Error(msg string) {
	l.append(LevelError, msg)
}

// Close releases the underlying file handle.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Path returns the audit log file path.
func (l *Logger) Path() string {
	return l.file.Name()
}

func (l *Logger) append(level Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		line := fmt.Sprintf("[%s] [%s] %s\n", l.now().Format(timestampFormat), level, msg)
		if _, err := l.file.WriteString(line); err != nil {
			// The audit trail is best-effort once open; surface the
			// write failure on the diagnostic channel instead of
			// aborting the run mid-step.
			slog.Error("audit log write failed", "error", err)
		}
	}

	switch level {
	case LevelWarn:
		slog.Warn(msg, "run", l.runID)
	case LevelError:
		slog.Error(msg, "run", l.runID)
	default:
		slog.Info(msg, "run", l.runID)
	}

	if l.journal {
		_ = journal.Send(msg, journalPriority(level), map[string]string{
			"HOSTINIT_RUN_ID": l.runID,
		})
	}
}

func journalPriority(level Level) journal.Priority {
	switch level {
	case LevelWarn:
		return journal.PriWarning
	case LevelError:
		return journal.PriErr
	default:
		return journal.PriInfo
	}
}
