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
	"fmt"
	"strings"
	"text/template"
)

// ProfileVersion identifies the tunable set below. Bump when the set
// changes so re-runs rewrite the drop-in.
const ProfileVersion = "1"

// Param is one kernel tunable of the hardening profile.
type Param struct {
	Key   string
	Value string
}

// Profile returns the fixed hardening and throughput tunable set, in the
// order it is written and applied. The content is a static contract, not
// computed at runtime.
func Profile() []Param {
	return []Param{
		// Network hardening.
		{"net.ipv4.ip_forward", "0"},
		{"net.ipv4.conf.all.rp_filter", "1"},
		{"net.ipv4.conf.default.rp_filter", "1"},
		{"net.ipv4.conf.all.accept_redirects", "0"},
		{"net.ipv4.conf.default.accept_redirects", "0"},
		{"net.ipv4.conf.all.secure_redirects", "0"},
		{"net.ipv4.conf.all.send_redirects", "0"},
		{"net.ipv4.conf.default.send_redirects", "0"},
		{"net.ipv4.conf.all.accept_source_route", "0"},
		{"net.ipv4.conf.default.accept_source_route", "0"},
		{"net.ipv4.tcp_syncookies", "1"},
		{"net.ipv4.tcp_max_syn_backlog", "4096"},

		// Kernel hardening.
		{"fs.suid_dumpable", "0"},
		{"kernel.sysrq", "0"},

		// Throughput.
		{"net.core.rmem_max", "16777216"},
		{"net.core.wmem_max", "16777216"},
		{"net.core.somaxconn", "4096"},
		{"net.ipv4.tcp_keepalive_time", "300"},
		{"net.ipv4.tcp_keepalive_intvl", "30"},
		{"net.ipv4.tcp_keepalive_probes", "5"},
		{"net.core.default_qdisc", "fq"},
		{"net.ipv4.tcp_congestion_control", "bbr"},
	}
}

// profileTemplate renders the drop-in file. The header names the profile
// version so operators can tell which tool revision wrote it.
var profileTemplate = template.Must(template.New("sysctl").Parse(
	`# Kernel tunable profile v{{.Version}}, managed by {{.Tool}}.
# Do not edit; re-running {{.Tool}} rewrites this file.

{{range .Params}}{{.Key}} = {{.Value}}
{{end}}`))

// RenderProfile renders the drop-in file content for the given tool name.
// Pure; suitable for golden comparison.
func RenderProfile(tool string) (string, error) {
	var b strings.Builder
	err := profileTemplate.Execute(&b, struct {
		Version string
		Tool    string
		Params  []Param
	}{
		Version: ProfileVersion,
		Tool:    tool,
		Params:  Profile(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render sysctl profile: %w", err)
	}
	return b.String(), nil
}
