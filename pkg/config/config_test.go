package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hostinit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	// No explicit path and no well-known file readable in a test
	// environment still yields a usable policy.
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.MinPasswordLength)
	assert.Equal(t, 3, cfg.MaxPromptAttempts)
	assert.Equal(t, "127.0.1.1", cfg.LoopbackAlias)
	assert.Equal(t, uint64(65535), cfg.NoFileLimit)
}

func TestLoadOverlay(t *testing.T) {
	path := writeConfig(t, "min_password_length: 16\nbackup_root: /srv/backups\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.MinPasswordLength)
	assert.Equal(t, "/srv/backups", cfg.BackupRoot)

	// Untouched fields keep defaults.
	assert.Equal(t, 3, cfg.MaxPromptAttempts)
	assert.Equal(t, "/var/log/hostinit.log", cfg.LogPath)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "min_pasword_length: 16\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"attempts below one", "max_prompt_attempts: 0\n"},
		{"password length too small", "min_password_length: 4\n"},
		{"nofile too small", "nofile_limit: 16\n"},
		{"relative backup root", "backup_root: backups\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
