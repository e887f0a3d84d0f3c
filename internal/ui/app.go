/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sketchpad/internal/canvas"
	"sketchpad/internal/config"
	"sketchpad/internal/crash"
	"sketchpad/internal/export"
	applog "sketchpad/internal/log"
	"sketchpad/internal/storage"
	"sketchpad/internal/telemetry"
)

// App owns one drawing session: the canvas model, the export journal and
// the session telemetry. The window layer in app_fyne.go is a thin shell
// around it. Create with NewApp, release with Close.
type App struct {
	cfg     config.AppConfig
	canvas  *canvas.Canvas
	journal *storage.Journal
	log     *slog.Logger
	started time.Time
	closed  bool
}

// NewApp builds the canvas from cfg and opens the export journal. Invalid pen or
// canvas settings fall back to defaults; a journal that cannot be opened is skipped.
func NewApp(cfg config.AppConfig) (*App, error) {
	l := applog.WithComponent("ui")
	opts, err := cfg.CanvasOptions()
	if err != nil {
		l.Warn("config values ignored", slog.Any("err", err))
	}
	cv, err := canvas.New(opts)
	if err != nil {
		return nil, fmt.Errorf("create canvas: %w", err)
	}
	a := &App{cfg: cfg, canvas: cv, log: l, started: time.Now()}
	if p := cfg.JournalPath(); p != "" {
		if j, err := storage.OpenJournal(p); err != nil {
			l.Warn("export journal unavailable", slog.String("path", p), slog.Any("err", err))
		} else {
			a.journal = j
		}
	}
	telemetry.Event(telemetry.EventAppStart, map[string]any{
		"canvas_w": opts.Size.W, "canvas_h": opts.Size.H,
	})
	l.Info("session started", slog.Int("width", opts.Size.W), slog.Int("height", opts.Size.H))
	return a, nil
}

// Canvas is the drawing model the window feeds with input.
func (a *App) Canvas() *canvas.Canvas { return a.canvas }

// Journal is the export journal, or nil when disabled.
func (a *App) Journal() *storage.Journal { return a.journal }

// DefaultExportName is the file name proposed by the save dialog.
func (a *App) DefaultExportName() string { return "drawing.png" }

// ExportDir is the configured start directory of the save dialog, or "".
func (a *App) ExportDir() string {
	d := strings.TrimSpace(a.cfg.Export.Dir)
	if d == "" {
		return ""
	}
	if fi, err := os.Stat(d); err != nil || !fi.IsDir() {
		return ""
	}
	return d
}

// Export writes the drawing to path and records it. An empty path (cancelled
// dialog) returns export.ErrExportCancelled and does nothing else.
func (a *App) Export(path string) (export.Result, error) {
	res, err := export.Save(path, a.canvas, export.Options{JPEGQuality: a.cfg.Export.JPEGQuality})
	if err != nil {
		return res, err
	}
	if a.journal != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, jerr := a.journal.Record(ctx, storage.Entry{
			Path: res.Path, Format: string(res.Format), Width: res.Width, Height: res.Height,
			Bytes: res.Bytes, Strokes: res.Strokes,
		}); jerr != nil {
			a.log.Warn("journal record failed", slog.Any("err", jerr))
		}
	}
	telemetry.Event(telemetry.EventExport, map[string]any{
		"format": string(res.Format), "strokes": res.Strokes, "bytes": res.Bytes,
	})
	return res, nil
}

// ExportMessage is the status line for an export outcome, or "" when nothing should be shown.
func ExportMessage(res export.Result, err error) string {
	switch {
	case errors.Is(err, export.ErrExportCancelled):
		return ""
	case err != nil:
		return "Export failed: " + err.Error()
	default:
		return fmt.Sprintf("Saved %s (%dx%d, %s)", filepath.Base(res.Path), res.Width, res.Height, strings.ToUpper(string(res.Format)))
	}
}

// StatusText summarizes the canvas for the status bar.
func (a *App) StatusText() string {
	c := a.canvas
	s := fmt.Sprintf("Strokes: %d   Zoom: %.0f%%   Pen: %s %gpx %s %s",
		c.StrokeCount(), c.Zoom()*100, c.Style().Color.Hex(), c.Style().Width,
		c.Style().Line.Label(), c.Style().Cap.Label())
	if n := c.UndoName(); n != "" {
		s += "   Undo: " + n
	}
	return s
}

// CrashTarget tells crash.Recover where to put reports and what to salvage.
func (a *App) CrashTarget() crash.Target {
	dir := a.ExportDir()
	if dir == "" {
		if d, err := config.ConfigDir(); err == nil {
			dir = filepath.Join(d, "crash")
		}
	}
	return crash.Target{Dir: dir, Drawing: a.canvas}
}

// Close ends the session. It is safe to call more than once.
func (a *App) Close() error {
	if a == nil || a.closed {
		return nil
	}
	a.closed = true
	telemetry.Event(telemetry.EventAppExit, map[string]any{
		"session_s": int(time.Since(a.started).Seconds()), "strokes": a.canvas.StrokeCount(),
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	telemetry.Flush(ctx)
	a.log.Info("session closed")
	return a.journal.Close()
}
