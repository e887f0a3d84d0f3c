/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package log provides the application's slog setup: a compact console handler
// for interactive use, JSON output on request, and an optional rotating log file.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"

	"sketchpad/internal/version"
)

// Options controls logger initialization.
// Values come from the config file and can be overridden by environment variables:
//   - SKP_LOG_LEVEL=debug|info|warn|error
//   - SKP_LOG_FORMAT=console|json
//   - SKP_LOG_FILE=<path> (enables file logging with rotation)
//   - SKP_LOG_SOURCE=true|false
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string
	// Writer receives console output; os.Stderr when nil.
	Writer io.Writer
}

const (
	EnvLevel  = "SKP_LOG_LEVEL"
	EnvFormat = "SKP_LOG_FORMAT"
	EnvSource = "SKP_LOG_SOURCE"
	EnvFile   = "SKP_LOG_FILE"
)

var (
	defaultLoggerMu sync.RWMutex
	defaultLogger   *slog.Logger
	fileWriter      *lj.Logger
)

// L returns the default application logger, initializing from env if needed.
func L() *slog.Logger {
	defaultLoggerMu.RLock()
	l := defaultLogger
	defaultLoggerMu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// Init configures the global logger and installs it as slog.Default.
// Calling Init again replaces the logger and closes a previously opened log file.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource})
	} else {
		console = &prettyTextHandler{opts: prettyOpts{Level: lvl, AddSource: opts.AddSource}, w: w}
	}

	var fw *lj.Logger
	h := console
	if f := strings.TrimSpace(opts.File); f != "" {
		fw = &lj.Logger{Filename: f, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		fh := slog.NewJSONHandler(fw, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource})
		h = multiHandler(console, fh)
	}

	logger := slog.New(h).With(
		slog.String("app", "sketchpad"),
		slog.String("ver", version.String()),
	)

	defaultLoggerMu.Lock()
	old := fileWriter
	defaultLogger = logger
	fileWriter = fw
	defaultLoggerMu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	slog.SetDefault(logger)
}

// Close flushes and closes the rotating log file, if any.
func Close() error {
	defaultLoggerMu.Lock()
	fw := fileWriter
	fileWriter = nil
	defaultLoggerMu.Unlock()
	if fw == nil {
		return nil
	}
	return fw.Close()
}

// FromEnv builds Options from environment variables only.
func FromEnv() Options {
	return OverrideFromEnv(Options{Level: "info", Format: "console"})
}

// OverrideFromEnv returns opts with every SKP_LOG_* variable that is set applied on top.
func OverrideFromEnv(opts Options) Options {
	if v := strings.TrimSpace(os.Getenv(EnvLevel)); v != "" {
		opts.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFormat)); v != "" {
		opts.Format = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSource)); v != "" {
		opts.AddSource = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvFile)); v != "" {
		opts.File = v
	}
	return opts
}


func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
