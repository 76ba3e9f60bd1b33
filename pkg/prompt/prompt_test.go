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

package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/host-init/pkg/errors"
	"github.com/NVIDIA/host-init/pkg/validate"
)

func TestLineAcceptsValidInput(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("web-server-01\n"), &out, 3)

	got, err := p.Line("Hostname", validate.Hostname)
	require.NoError(t, err)
	assert.Equal(t, "web-server-01", got)
}

func TestLineRetriesThenAccepts(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("-bad\nstill_bad\ngood-host\n"), &out, 3)

	got, err := p.Line("Hostname", validate.Hostname)
	require.NoError(t, err)
	assert.Equal(t, "good-host", got)
	assert.Contains(t, out.String(), "invalid input")
}

func TestLineExhaustsAttempts(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("-a\n-b\n-c\n-d\n"), &out, 3)

	_, err := p.Line("Hostname", validate.Hostname)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "3 attempts")
}

func TestLineInputClosed(t *testing.T) {
	p := New(strings.NewReader(""), &bytes.Buffer{}, 3)
	_, err := p.Line("Hostname", validate.Hostname)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
}

func TestLineTrimsCarriageReturn(t *testing.T) {
	p := New(strings.NewReader("host-a\r\n"), &bytes.Buffer{}, 1)
	got, err := p.Line("Hostname", validate.Hostname)
	require.NoError(t, err)
	assert.Equal(t, "host-a", got)
}

func secretValidator(t *testing.T) func([]byte) error {
	t.Helper()
	return func(b []byte) error {
		return validate.Password(b, 12)
	}
}

func TestSecretConfirmedMatch(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("Secure@Pass123\nSecure@Pass123\n"), &out, 3)

	got, err := p.Secret("Root password", secretValidator(t))
	require.NoError(t, err)
	assert.Equal(t, []byte("Secure@Pass123"), got)
	assert.Contains(t, out.String(), "(confirm)")
}

func TestSecretMismatchThenMatch(t *testing.T) {
	var out bytes.Buffer
	input := "Secure@Pass123\nDifferent@123456\nSecure@Pass123\nSecure@Pass123\n"
	p := New(strings.NewReader(input), &out, 3)

	got, err := p.Secret("Root password", secretValidator(t))
	require.NoError(t, err)
	assert.Equal(t, []byte("Secure@Pass123"), got)
	assert.Contains(t, out.String(), "do not match")
}

func TestSecretWeakThenExhausted(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("weak\nweak\nweak\n"), &out, 3)

	_, err := p.Secret("Root password", secretValidator(t))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
}

func TestSecretWeakEntryNeverEchoed(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("tooweakpassword\ntooweakpassword\ntooweakpassword\n"), &out, 3)

	_, err := p.Secret("Root password", secretValidator(t))
	require.Error(t, err)
	assert.NotContains(t, out.String(), "tooweakpassword")
}

func TestWipe(t *testing.T) {
	secret := []byte("Secure@Pass123")
	Wipe(secret)
	assert.Equal(t, bytes.Repeat([]byte{0}, len(secret)), secret)
}

func TestBytesEqual(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"same", "same", true},
		{"", "", true},
		{"a", "b", false},
		{"short", "shorter", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s vs %s", tt.a, tt.b), func(t *testing.T) {
			assert.Equal(t, tt.expected, bytesEqual([]byte(tt.a), []byte(tt.b)))
		})
	}
}
