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

package log

import (
	"context"
	"io"
	"math"
	"os"
	"strings"
	"sync/atomic"

	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/confutil"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/tdconf"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const maxFieldLength = 64

var (
	rootLogger = logrus.NewEntry(logrus.StandardLogger())

	// L accesses the current logger from the context
	L = loggerFromContext

	initialized atomic.Bool
)

type ctxLogKey struct{}

// InitConfig applies the log configuration to the process wide logrus logger
func InitConfig(conf *tdconf.LogConfig) {
	initialized.Store(true)
	SetLevel(confutil.StringNotEmpty(conf.Level, *tdconf.LogDefaults.Level))
	logrus.SetOutput(outputWriter(conf))
	logrus.SetReportCaller(false)
	logrus.SetFormatter(formatter(conf))
}

func outputWriter(conf *tdconf.LogConfig) io.Writer {
	switch confutil.StringNotEmpty(conf.Output, *tdconf.LogDefaults.Output) {
	case "file":
		defs := &tdconf.LogDefaults.File
		maxSize := confutil.ByteSize(conf.File.MaxSize, 0, *defs.MaxSize)
		maxAge := confutil.DurationMin(conf.File.MaxAge, 0, *defs.MaxAge)
		return &lumberjack.Logger{
			Filename:   confutil.StringNotEmpty(conf.File.Path, *defs.Path),
			MaxSize:    int(math.Ceil(float64(maxSize) / (1024 * 1024))), // megabytes, rounded up
			MaxAge:     int(math.Ceil(maxAge.Hours() / 24)),              // days, rounded up
			MaxBackups: confutil.IntMin(conf.File.Backups, 0, *defs.Backups),
			Compress:   confutil.Bool(conf.File.Compress, *defs.Compress),
		}
	case "stdout":
		return os.Stdout
	default:
		return os.Stderr
	}
}

func formatter(conf *tdconf.LogConfig) logrus.Formatter {
	timeFormat := confutil.StringNotEmpty(conf.TimeFormat, *tdconf.LogDefaults.TimeFormat)
	color := confutil.StringNotEmpty(conf.Color, *tdconf.LogDefaults.Color)
	forceColor, disableColor := color == "always", color == "never"

	var f logrus.Formatter
	switch confutil.StringNotEmpty(conf.Format, *tdconf.LogDefaults.Format) {
	case "json":
		f = &logrus.JSONFormatter{
			TimestampFormat: timeFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "@timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		}
	case "detailed":
		logrus.SetReportCaller(true)
		f = &logrus.TextFormatter{
			DisableColors:   disableColor,
			ForceColors:     forceColor,
			TimestampFormat: timeFormat,
			FullTimestamp:   true,
		}
	default:
		f = &prefixed.TextFormatter{
			DisableColors:   disableColor,
			ForceColors:     forceColor,
			TimestampFormat: timeFormat,
			ForceFormatting: true,
			FullTimestamp:   true,
		}
	}
	if confutil.Bool(conf.UTC, *tdconf.LogDefaults.UTC) {
		f = utcFormatter{f}
	}
	return f
}

type utcFormatter struct {
	logrus.Formatter
}

func (u utcFormatter) Format(e *logrus.Entry) ([]byte, error) {
	e.Time = e.Time.UTC()
	return u.Formatter.Format(e)
}

func IsDebugEnabled() bool {
	return logrus.IsLevelEnabled(logrus.DebugLevel)
}

func IsTraceEnabled() bool {
	return logrus.IsLevelEnabled(logrus.TraceLevel)
}

// EnsureInit applies the default configuration if InitConfig has not been called
func EnsureInit() {
	if !initialized.Load() {
		InitConfig(&tdconf.LogConfig{})
	}
}

// WithLogger adds the specified logger to the context
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	EnsureInit()
	return context.WithValue(ctx, ctxLogKey{}, logger)
}

// WithLogField adds a field to the logger in the context. Long values, such as
// full encodeType strings, are truncated.
func WithLogField(ctx context.Context, key, value string) context.Context {
	if len(value) > maxFieldLength {
		value = value[0:maxFieldLength-3] + "..."
	}
	return WithLogger(ctx, loggerFromContext(ctx).WithField(key, value))
}

func loggerFromContext(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(ctxLogKey{}).(*logrus.Entry); ok {
		return logger
	}
	return rootLogger
}

func GetLevel() string {
	level := logrus.GetLevel()
	if level < logrus.ErrorLevel {
		level = logrus.ErrorLevel
	}
	return level.String()
}

// SetLevel accepts error, warn, info, debug or trace. Anything else is info.
func SetLevel(level string) {
	l, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil || l < logrus.ErrorLevel {
		l = logrus.InfoLevel
	}
	logrus.SetLevel(l)
}
