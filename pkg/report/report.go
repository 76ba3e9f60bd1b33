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

package report

import (
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/NVIDIA/host-init/pkg/defaults"
)

// Data is the completion summary assembled by the orchestrator at the
// end of a successful run. It is derived state: nothing in the mutation
// pipeline depends on it.
type Data struct {
	RunID        string
	Hostname     string
	Distribution string
	Kernel       string
	Applied      []string
	Skipped      []string
	BackupDir    string
	LogPath      string
	GeneratedAt  time.Time
}

var reportTemplate = template.Must(template.New("report").Parse(
	`Host Initialization Report
==========================

Run:          {{.RunID}}
Generated:    {{.GeneratedAt.Format "2006-01-02 15:04:05"}}
Hostname:     {{.Hostname}}
Distribution: {{.Distribution}}
Kernel:       {{.Kernel}}

Applied changes:
{{- range .Applied}}
  - {{.}}
{{- end}}
{{- if .Skipped}}

Skipped:
{{- range .Skipped}}
  - {{.}}
{{- end}}
{{- end}}

Backup snapshot: {{.BackupDir}}
Audit log:       {{.LogPath}}

Verify with:
  hostnamectl
  getent hosts {{.Hostname}}
  sysctl net.ipv4.tcp_congestion_control
  ulimit -n
`))

// Render produces the report text. Pure; suitable for golden comparison.
func Render(d Data) (string, error) {
	var b strings.Builder
	if err := reportTemplate.Execute(&b, d); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return b.String(), nil
}

// Write renders the report and writes it to path, once, world-readable.
func Write(path string, d Data) error {
	content, err := Render(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), defaults.SystemFileMode)
}
