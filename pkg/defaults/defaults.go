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

package defaults

import "time"

// Mutated system files. These paths are fixed contracts: the backup
// manager snapshots them and the mutation steps rewrite them in place.
const (
	// HostnameFile is the persisted hostname file.
	HostnameFile = "/etc/hostname"

	// HostsFile is the system hosts table.
	HostsFile = "/etc/hosts"

	// ShadowFile is the credential store probed after rotation.
	ShadowFile = "/etc/shadow"

	// SysctlFile is the kernel-tunable drop-in written by the applier.
	SysctlFile = "/etc/sysctl.d/99-hostinit.conf"

	// LimitsFile is the resource-limits file the nofile stanza is appended to.
	LimitsFile = "/etc/security/limits.conf"
)

// Tool-owned output locations.
const (
	// BackupRoot is the directory that holds per-run snapshot directories.
	BackupRoot = "/var/backups/hostinit"

	// AuditLogFile is the append-only audit log.
	AuditLogFile = "/var/log/hostinit.log"

	// ReportFile is the completion report written once on success.
	ReportFile = "/var/log/hostinit-report.txt"

	// ConfigFile is the optional policy configuration file.
	ConfigFile = "/etc/hostinit.yaml"
)

// Policy defaults, overridable via the configuration file.
const (
	// LoopbackAlias is the loopback address mapped to the machine hostname.
	LoopbackAlias = "127.0.1.1"

	// MinPasswordLength is the minimum accepted root password length.
	MinPasswordLength = 12

	// MaxPromptAttempts bounds the interactive retry loops for both the
	// hostname prompt and the password entry+confirmation pair.
	MaxPromptAttempts = 3

	// NoFileLimit is the soft and hard open-file ceiling applied to all
	// users and to the current process.
	NoFileLimit = 65535
)

// Timeouts for external collaborator commands. Interactive prompts carry
// no timeout and block on operator input.
const (
	// CommandTimeout bounds short system commands (hostnamectl, sysctl,
	// chpasswd).
	CommandTimeout = 30 * time.Second

	// PackageTimeout bounds package manager update/upgrade invocations.
	PackageTimeout = 30 * time.Minute

	// ResolutionTimeout bounds the post-update hostname resolution probe.
	ResolutionTimeout = 5 * time.Second
)

// File permissions written by the tool.
const (
	// BackupDirMode keeps snapshot directories owner-only.
	BackupDirMode = 0o700

	// AuditLogMode keeps the audit log owner read/write.
	AuditLogMode = 0o600

	// SystemFileMode is the conventional mode for world-readable system
	// configuration files (hostname, hosts, sysctl drop-in).
	SystemFileMode = 0o644

	// SecretFileMode removes all access bits; used for the shadow copy.
	SecretFileMode = 0o000
)
