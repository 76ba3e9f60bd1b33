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

package validate

import (
	"fmt"
	"unicode"
)

// Password reports whether secret satisfies the strength policy: at least
// minLength characters with at least one uppercase letter, one lowercase
// letter, one digit, and one punctuation or symbol character. The
// returned error names the missing requirement and never includes the
// candidate itself.
func Password(secret []byte, minLength int) error {
	if len(secret) < minLength {
		return fmt.Errorf("password must be at least %d characters", minLength)
	}

	var upper, lower, digit, punct bool
	for _, r := range string(secret) {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			punct = true
		}
	}

	switch {
	case !upper:
		return fmt.Errorf("password must contain an uppercase letter")
	case !lower:
		return fmt.Errorf("password must contain a lowercase letter")
	case !digit:
		return fmt.Errorf("password must contain a digit")
	case !punct:
		return fmt.Errorf("password must contain a punctuation character")
	}
	return nil
}

// IsStrongPassword is the boolean form of Password.
func IsStrongPassword(secret []byte, minLength int) bool {
	return Password(secret, minLength) == nil
}
