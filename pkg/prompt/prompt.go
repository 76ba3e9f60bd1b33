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
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/NVIDIA/host-init/pkg/errors"
)

// Prompter runs bounded prompt-validate-retry loops on an operator
// terminal. Prompts block indefinitely on input; only the attempt count
// is bounded.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	maxAttempts int

	// readSecret reads one secret line. Defaults to a no-echo terminal
	// read when stdin is a terminal, plain line read otherwise.
	readSecret func() ([]byte, error)
}

// New creates a Prompter reading from in and writing prompts to out.
// A nil in/out defaults to stdin/stderr.
func New(in io.Reader, out io.Writer, maxAttempts int) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	p := &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		maxAttempts: maxAttempts,
	}
	p.readSecret = p.defaultReadSecret
	return p
}

// Line prompts with label until validate accepts the trimmed input or the
// attempt bound is exhausted. Exhaustion returns a VALIDATION-coded
// error; the caller aborts before any mutation.
func (p *Prompter) Line(label string, validate func(string) error) (string, error) {
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		fmt.Fprintf(p.out, "%s: ", label)

		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			return "", errors.Wrap(errors.ErrCodeValidation, "input closed during prompt", err)
		}
		value := trimLine(line)

		if err := validate(value); err != nil {
			fmt.Fprintf(p.out, "invalid input: %v (%d of %d attempts)\n", err, attempt, p.maxAttempts)
			continue
		}
		return value, nil
	}
	return "", errors.Newf(errors.ErrCodeValidation, "no valid input after %d attempts", p.maxAttempts)
}

// Secret prompts for a secret and a confirmation until both match and
// validate accepts, or the attempt bound is exhausted. One entry plus
// confirmation counts as a single attempt. Rejected or mismatched buffers
// are wiped before the next attempt.
func (p *Prompter) Secret(label string, validate func([]byte) error) ([]byte, error) {
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		fmt.Fprintf(p.out, "%s: ", label)
		secret, err := p.readSecret()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeValidation, "failed to read secret", err)
		}

		if err := validate(secret); err != nil {
			Wipe(secret)
			fmt.Fprintf(p.out, "invalid input: %v (%d of %d attempts)\n", err, attempt, p.maxAttempts)
			continue
		}

		fmt.Fprintf(p.out, "%s (confirm): ", label)
		confirm, err := p.readSecret()
		if err != nil {
			Wipe(secret)
			return nil, errors.Wrap(errors.ErrCodeValidation, "failed to read confirmation", err)
		}

		if !bytesEqual(secret, confirm) {
			Wipe(secret)
			Wipe(confirm)
			fmt.Fprintf(p.out, "entries do not match (%d of %d attempts)\n", attempt, p.maxAttempts)
			continue
		}

		Wipe(confirm)
		return secret, nil
	}
	return nil, errors.Newf(errors.ErrCodeValidation, "no valid input after %d attempts", p.maxAttempts)
}

// Wipe zeroes a secret buffer in place.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// defaultReadSecret reads without echo when stdin is a terminal and falls
// back to a plain line read for pipes and tests.
func (p *Prompter) defaultReadSecret() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(p.out)
		return secret, err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return nil, err
	}
	return []byte(trimLine(line)), nil
}

func trimLine(line string) string {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}

// bytesEqual compares without allocating string copies of the secrets.
func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
