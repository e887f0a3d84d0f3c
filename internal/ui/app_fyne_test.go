//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// These tests exercise the Fyne drawing widget. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"sketchpad/internal/canvas"
	"sketchpad/internal/drawing"
)

func mouse(x, y float32, b desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: b}
}

func newArea(t *testing.T) (*drawingArea, *canvas.Canvas) {
	t.Helper()
	test.NewTempApp(t)
	cv, err := canvas.New(canvas.Options{Size: drawing.Size{W: 200, H: 100}})
	if err != nil {
		t.Fatalf("canvas: %v", err)
	}
	d := newDrawingArea(cv)
	d.Resize(fyne.NewSize(200, 100))
	return d, cv
}

func TestDrawingArea_Gesture(t *testing.T) {
	d, cv := newArea(t)
	d.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary))
	d.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(40, 30)}})
	d.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(80, 60)}})
	d.MouseUp(mouse(80, 60, desktop.MouseButtonPrimary))
	d.DragEnd()

	strokes := cv.Strokes()
	if len(strokes) != 1 || len(strokes[0].Points) != 3 {
		t.Fatalf("strokes = %+v", strokes)
	}
}

func TestDrawingArea_SecondaryButtonIgnored(t *testing.T) {
	d, cv := newArea(t)
	d.MouseDown(mouse(10, 10, desktop.MouseButtonSecondary))
	d.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(40, 30)}})
	d.MouseUp(mouse(40, 30, desktop.MouseButtonSecondary))
	if cv.StrokeCount() != 0 {
		t.Fatalf("secondary drag drew a stroke")
	}
}

func TestDrawingArea_ScrollZooms(t *testing.T) {
	d, cv := newArea(t)
	d.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 1)})
	if z := cv.Zoom(); z < 1.09 || z > 1.11 {
		t.Fatalf("zoom = %v", z)
	}
}

func TestDrawingArea_PaintSize(t *testing.T) {
	d, _ := newArea(t)
	img := d.paint(400, 200)
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("paint bounds = %v", b)
	}
}
