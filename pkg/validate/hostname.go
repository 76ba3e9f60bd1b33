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
	"regexp"
)

// MaxHostnameLength is the maximum accepted hostname label length.
const MaxHostnameLength = 63

// hostnamePattern accepts alphanumeric start and end with interior
// hyphens, per RFC 952 as relaxed by RFC 1123.
var hostnamePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)

// Hostname reports whether candidate is an acceptable machine hostname.
// The returned error names the violated rule for operator feedback; nil
// means accepted.
func Hostname(candidate string) error {
	if candidate == "" {
		return fmt.Errorf("hostname cannot be empty")
	}
	if len(candidate) > MaxHostnameLength {
		return fmt.Errorf("hostname exceeds %d characters", MaxHostnameLength)
	}
	if candidate[0] == '-' || candidate[len(candidate)-1] == '-' {
		return fmt.Errorf("hostname cannot start or end with a hyphen")
	}
	if !hostnamePattern.MatchString(candidate) {
		return fmt.Errorf("hostname may only contain letters, digits and interior hyphens")
	}
	return nil
}

// IsValidHostname is the boolean form of Hostname.
func IsValidHostname(candidate string) bool {
	return Hostname(candidate) == nil
}
