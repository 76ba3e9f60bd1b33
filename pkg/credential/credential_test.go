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
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/host-init/pkg/errors"
)

func newTestRotator(t *testing.T, shadowContent string, runErr error) (*Rotator, *bytes.Buffer) {
	t.Helper()

	shadow := filepath.Join(t.TempDir(), "shadow")
	require.NoError(t, os.WriteFile(shadow, []byte(shadowContent), 0o600))

	var captured bytes.Buffer
	r := &Rotator{
		ShadowPath: shadow,
		run: func(ctx context.Context, stdin io.Reader) error {
			if runErr != nil {
				return runErr
			}
			_, err := io.Copy(&captured, stdin)
			return err
		},
	}
	return r, &captured
}

func TestRotateFeedsUserColonSecret(t *testing.T) {
	r, captured := newTestRotator(t, "root:$6$salt$hash:19000::::::\n", nil)

	secret := []byte("Secure@Pass123")
	require.NoError(t, r.Rotate(context.Background(), secret))
	assert.Equal(t, "root:Secure@Pass123\n", captured.String())
}

func TestRotateWipesSecret(t *testing.T) {
	r, _ := newTestRotator(t, "root:x:19000::::::\n", nil)

	secret := []byte("Secure@Pass123")
	require.NoError(t, r.Rotate(context.Background(), secret))
	assert.Equal(t, bytes.Repeat([]byte{0}, len(secret)), secret, "secret must be zeroed after use")
}

func TestRotateWipesSecretOnFailure(t *testing.T) {
	r, _ := newTestRotator(t, "root:x:19000::::::\n", stderrors.New("exit status 1"))

	secret := []byte("Secure@Pass123")
	err := r.Rotate(context.Background(), secret)
	require.Error(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0}, len(secret)), secret)
}

func TestRotateFailureDoesNotRevealSecret(t *testing.T) {
	r, _ := newTestRotator(t, "root:x:19000::::::\n", stderrors.New("exit status 1"))

	err := r.Rotate(context.Background(), []byte("Secure@Pass123"))
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "Secure@Pass123")
	assert.Equal(t, errors.ErrCodeMutation, errors.CodeOf(err))
}

func TestRotateRejectsEmptySecret(t *testing.T) {
	r, _ := newTestRotator(t, "root:x:19000::::::\n", nil)

	err := r.Rotate(context.Background(), []byte{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
}

func TestRotateVerifiesShadowEntry(t *testing.T) {
	tests := []struct {
		name    string
		shadow  string
		wantErr bool
	}{
		{"root present", "root:$6$hash:19000::::::\ndaemon:*:19000::::::\n", false},
		{"root absent", "daemon:*:19000::::::\n", true},
		{"empty store", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRotator(t, tt.shadow, nil)
			err := r.Rotate(context.Background(), []byte("Secure@Pass123"))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRotateMissingShadowFileFails(t *testing.T) {
	r, _ := newTestRotator(t, "root:x\n", nil)
	r.ShadowPath = filepath.Join(t.TempDir(), "missing")

	assert.Error(t, r.Rotate(context.Background(), []byte("Secure@Pass123")))
}
