// Copyright © 2025 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package confutil

import (
	"cmp"
	"time"

	"github.com/docker/go-units"
)

// Helpers for resolving optional (pointer) config fields against defaults.
// The log package depends on this package, so nothing here can log.

func IntMin(iVal *int, min int, def int) int {
	if iVal == nil {
		return def
	}
	return max(*iVal, min)
}

func Bool(bVal *bool, def bool) bool {
	if bVal == nil {
		return def
	}
	return *bVal
}

func StringNotEmpty(sVal *string, def string) string {
	if sVal == nil || *sVal == "" {
		return def
	}
	return *sVal
}

// parseMin parses the string, falling back to parsing the default when it is unset
// or invalid. The default is trusted, and is not subject to the minimum.
func parseMin[T cmp.Ordered](sVal *string, min T, def string, parse func(string) (T, error)) T {
	if sVal != nil {
		if v, err := parse(*sVal); err == nil {
			return max(v, min)
		}
	}
	v, _ := parse(def)
	return v
}

func DurationMin(sVal *string, min time.Duration, def string) time.Duration {
	return parseMin(sVal, min, def, time.ParseDuration)
}

// ByteSize parses sizes such as "100Mb" in binary (1024) units
func ByteSize(sVal *string, min int64, def string) int64 {
	return parseMin(sVal, min, def, units.RAMInBytes)
}

func P[T any](v T) *T {
	return &v
}
