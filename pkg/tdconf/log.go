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

package tdconf

import "github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/confutil"

// LogConfig controls the CLI logger. The engine itself only logs at debug and trace.
type LogConfig struct {
	Level  *string `json:"level"`
	Format *string `json:"format"` // simple, detailed or json
	Output *string `json:"output"` // stderr, stdout or file
	// auto colors when stderr/stdout is a terminal, always or never override detection
	Color      *string     `json:"color"`
	TimeFormat *string     `json:"timeFormat"`
	UTC        *bool       `json:"utc"`
	File       LogFileRoll `json:"file"`
}

// LogFileRoll is used when output is "file". Rolling happens on size or age, whichever is first.
type LogFileRoll struct {
	Path     *string `json:"path"`
	MaxSize  *string `json:"maxSize"` // e.g. 10Mb
	MaxAge   *string `json:"maxAge"`  // e.g. 72h
	Backups  *int    `json:"backups"`
	Compress *bool   `json:"compress"`
}

var LogDefaults = &LogConfig{
	Level:      confutil.P("info"),
	Format:     confutil.P("simple"),
	Output:     confutil.P("stderr"),
	Color:      confutil.P("auto"),
	TimeFormat: confutil.P("2006-01-02T15:04:05.000Z07:00"),
	UTC:        confutil.P(false),
	File: LogFileRoll{
		Path:     confutil.P("eip712-typeddata.log"),
		MaxSize:  confutil.P("10Mb"),
		MaxAge:   confutil.P("72h"),
		Backups:  confutil.P(3),
		Compress: confutil.P(false),
	},
}
