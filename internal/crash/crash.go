/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a report file, an emergency image of the
// current drawing and a non-zero exit.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"sketchpad/internal/export"
	applog "sketchpad/internal/log"
	"sketchpad/internal/telemetry"
	"sketchpad/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Target describes where to write and what to salvage.
type Target struct {
	// Dir receives the report and the emergency image; os.TempDir() when empty.
	Dir string
	// Drawing is saved as PNG next to the report when set.
	Drawing export.Source
}

// Recover captures a panic, logs it with a stack trace, writes a crash report,
// salvages the drawing and exits with code 2.
//
// Usage: defer crash.Recover(target)
func Recover(t Target) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	stamp := time.Now().Format("20060102-150405")
	reportPath, report, err := writeReport(t.Dir, stamp, r, stack)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	if t.Drawing != nil {
		if img, err := salvage(t.Dir, stamp, t.Drawing); err != nil {
			l.Error("emergency image failed", slog.Any("err", err))
		} else {
			l.Info("emergency image written", slog.String("path", img))
			_, _ = fmt.Fprintf(os.Stderr, "Your drawing was saved to: %s\n", img)
		}
	}
	if report != nil {
		telemetry.UploadCrash(report)
	}

	_, _ = fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	_, _ = fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

func crashDir(dir string) string {
	if dir == "" {
		return os.TempDir()
	}
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

func writeReport(dir, stamp string, panicVal any, stack []byte) (string, []byte, error) {
	path := filepath.Join(crashDir(dir), fmt.Sprintf("sketchpad-crash-%s.log", stamp))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Sketchpad Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, buf.Bytes(), err
	}
	return path, buf.Bytes(), nil
}

// salvage exports the drawing; a second panic while rendering is swallowed.
func salvage(dir, stamp string, src export.Source) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panicked: %v", r)
		}
	}()
	res, err := export.Save(filepath.Join(crashDir(dir), fmt.Sprintf("sketchpad-recovered-%s.png", stamp)), src, export.Options{})
	if err != nil {
		return "", err
	}
	return res.Path, nil
}
