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

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/host-init/pkg/defaults"
)

// Config holds the run policy. Every field has a default from
// pkg/defaults; the YAML file only overrides what it names.
type Config struct {
	// BackupRoot is the directory for per-run snapshot directories.
	BackupRoot string `yaml:"backup_root"`

	// LogPath is the audit log location.
	LogPath string `yaml:"log_path"`

	// ReportPath is the completion report location.
	ReportPath string `yaml:"report_path"`

	// LoopbackAlias is the loopback address mapped to the hostname in the
	// hosts table.
	LoopbackAlias string `yaml:"loopback_alias"`

	// MinPasswordLength is the minimum accepted root password length.
	MinPasswordLength int `yaml:"min_password_length"`

	// MaxPromptAttempts bounds the interactive retry loops.
	MaxPromptAttempts int `yaml:"max_prompt_attempts"`

	// NoFileLimit is the open-file ceiling applied system-wide.
	NoFileLimit uint64 `yaml:"nofile_limit"`
}

// Default returns a Config populated from pkg/defaults.
func Default() *Config {
	return &Config{
		BackupRoot:        defaults.BackupRoot,
		LogPath:           defaults.AuditLogFile,
		ReportPath:        defaults.ReportFile,
		LoopbackAlias:     defaults.LoopbackAlias,
		MinPasswordLength: defaults.MinPasswordLength,
		MaxPromptAttempts: defaults.MaxPromptAttempts,
		NoFileLimit:       defaults.NoFileLimit,
	}
}

// Load returns the default policy overlaid with the YAML file at path.
// An empty path falls back to the well-known config location; a missing
// file at either location is not an error. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = defaults.ConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxPromptAttempts < 1 {
		return fmt.Errorf("max_prompt_attempts must be at least 1, got %d", c.MaxPromptAttempts)
	}
	if c.MinPasswordLength < 8 {
		return fmt.Errorf("min_password_length must be at least 8, got %d", c.MinPasswordLength)
	}
	if c.NoFileLimit < 1024 {
		return fmt.Errorf("nofile_limit must be at least 1024, got %d", c.NoFileLimit)
	}
	for name, p := range map[string]string{
		"backup_root": c.BackupRoot,
		"log_path":    c.LogPath,
		"report_path": c.ReportPath,
	} {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("%s must be an absolute path, got %q", name, p)
		}
	}
	return nil
}
