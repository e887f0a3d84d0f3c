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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sketchpad/internal/canvas"
	"sketchpad/internal/config"
	"sketchpad/internal/drawing"
	"sketchpad/internal/export"
)

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", "")
	cfg := config.Defaults()
	cfg.Canvas.Width, cfg.Canvas.Height = 120, 80
	cfg.Export.Journal = filepath.Join(dir, "journal.sqlite")
	cfg.Export.Dir = dir
	a, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a, dir
}

func TestNewAppAppliesConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Export.Journal = "off"
	cfg.Pen.Color = "#ff0000"
	cfg.Pen.Width = 3
	cfg.Pen.LineStyle = "dash"
	a, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer func() { _ = a.Close() }()
	st := a.Canvas().Style()
	if st.Color != (drawing.Color{R: 255, A: 255}) || st.Width != 3 || st.Line != drawing.LineDash {
		t.Fatalf("pen from config not applied: %+v", st)
	}
	if a.Journal() != nil {
		t.Fatalf("journal should be disabled")
	}
}

func TestExportRecordsJournal(t *testing.T) {
	a, dir := newTestApp(t)
	c := a.Canvas()
	c.Press(drawing.Pt(10, 10), canvas.ButtonPrimary)
	c.Move(drawing.Pt(50, 40), true)
	c.Release()

	res, err := a.Export(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.Width != 120 || res.Height != 80 || res.Strokes != 1 || res.Format != export.PNG {
		t.Fatalf("result = %+v", res)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.png")); err != nil {
		t.Fatalf("exported file missing: %v", err)
	}
	entries, err := a.Journal().Recent(context.Background(), 5)
	if err != nil || len(entries) != 1 || entries[0].Path != res.Path || entries[0].Strokes != 1 {
		t.Fatalf("journal entries = %+v, %v", entries, err)
	}
	if msg := ExportMessage(res, nil); !strings.Contains(msg, "out.png") || !strings.Contains(msg, "120x80") {
		t.Fatalf("message = %q", msg)
	}
}

func TestExportCancelledIsSilent(t *testing.T) {
	a, _ := newTestApp(t)
	res, err := a.Export("")
	if !errors.Is(err, export.ErrExportCancelled) {
		t.Fatalf("err = %v", err)
	}
	if ExportMessage(res, err) != "" {
		t.Fatalf("cancel should not produce a message")
	}
	entries, _ := a.Journal().Recent(context.Background(), 5)
	if len(entries) != 0 {
		t.Fatalf("cancelled export was journaled")
	}
	if msg := ExportMessage(export.Result{}, errors.New("disk full")); !strings.HasPrefix(msg, "Export failed") {
		t.Fatalf("failure message = %q", msg)
	}
}

func TestStatusText(t *testing.T) {
	a, _ := newTestApp(t)
	c := a.Canvas()
	c.Scroll(1)
	c.SetLineStyle(drawing.LineDot)
	c.Press(drawing.Pt(1, 1), canvas.ButtonPrimary)
	c.Move(drawing.Pt(5, 5), true)
	c.Release()
	s := a.StatusText()
	for _, want := range []string{"Strokes: 1", "Zoom: 110%", "DotLine", "Round", "Undo: Draw stroke"} {
		if !strings.Contains(s, want) {
			t.Fatalf("status %q missing %q", s, want)
		}
	}
}

func TestCrashTargetAndClose(t *testing.T) {
	a, dir := newTestApp(t)
	tg := a.CrashTarget()
	if tg.Dir != dir || tg.Drawing == nil {
		t.Fatalf("crash target = %+v", tg)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
