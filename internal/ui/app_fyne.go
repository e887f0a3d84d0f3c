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

package ui

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fcanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"sketchpad/internal/canvas"
	"sketchpad/internal/config"
	"sketchpad/internal/crash"
	"sketchpad/internal/drawing"
	"sketchpad/internal/export"
	"sketchpad/internal/render"
)

// Run opens the drawing window for cfg and blocks until it is closed.
func Run(cfg config.AppConfig) error {
	a, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return a.Run()
}

// Run shows the window and blocks until it is closed.
func (a *App) Run() error {
	defer crash.Recover(a.CrashTarget())

	fyneApp := app.NewWithID("io.sketchpad.app")
	w := fyneApp.NewWindow("Sketchpad")
	cv := a.canvas

	area := newDrawingArea(cv)
	status := widget.NewLabel(a.StatusText())

	var undoBtn, redoBtn *widget.Button
	refresh := func() {
		area.raster.Refresh()
		status.SetText(a.StatusText())
		setEnabled(undoBtn, cv.CanUndo())
		setEnabled(redoBtn, cv.CanRedo())
	}

	colorBtn := widget.NewButtonWithIcon("Color", theme.ColorPaletteIcon(), func() {
		pickColor(w, "Pen Color", cv.Style().Color, func(c drawing.Color) {
			cv.SetPenColor(c)
			refresh()
		})
	})
	widthBtn := widget.NewButton("Width", func() { a.showWidthDialog(w, refresh) })
	styleBtn := widget.NewButton("Pen Style", func() {
		var labels []string
		for _, ls := range drawing.LineStyles() {
			labels = append(labels, ls.Label())
		}
		choose(w, "Pen Style", "Line", labels, cv.Style().Line.Label(), func(s string) {
			if ls, err := drawing.ParseLineStyle(s); err == nil {
				cv.SetLineStyle(ls)
				refresh()
			}
		})
	})
	undoBtn = widget.NewButtonWithIcon("Undo", theme.ContentUndoIcon(), func() { cv.Undo() })
	redoBtn = widget.NewButtonWithIcon("Redo", theme.ContentRedoIcon(), func() { cv.Redo() })
	clearBtn := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() { cv.Clear() })
	saveBtn := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() { a.showSaveDialog(w, status) })
	capBtn := widget.NewButton("Brush Type", func() {
		var labels []string
		for _, cs := range drawing.CapStyles() {
			labels = append(labels, cs.Label())
		}
		choose(w, "Brush Type", "Cap", labels, cv.Style().Cap.Label(), func(s string) {
			if cs, err := drawing.ParseCapStyle(s); err == nil {
				cv.SetCapStyle(cs)
				refresh()
			}
		})
	})
	bgBtn := widget.NewButton("Background Color", func() {
		pickColor(w, "Background Color", cv.Background(), func(c drawing.Color) { cv.SetBackground(c) })
	})

	cv.OnChange(refresh)
	refresh()

	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { cv.Undo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { cv.Redo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.showSaveDialog(w, status) })

	toolbar := container.NewHBox(colorBtn, widthBtn, styleBtn, undoBtn, redoBtn, clearBtn, saveBtn, capBtn, bgBtn)
	w.SetContent(container.NewBorder(toolbar, status, nil, nil, area))
	size := cv.Size()
	w.Resize(fyne.NewSize(float32(size.W), float32(size.H)+96))

	a.log.Info("window shown")
	w.ShowAndRun()
	return nil
}

func setEnabled(b *widget.Button, on bool) {
	if b == nil {
		return
	}
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

// pickColor shows a color picker; cancelling leaves the current color in place.
func pickColor(w fyne.Window, title string, cur drawing.Color, apply func(drawing.Color)) {
	p := dialog.NewColorPicker(title, "Choose a color", func(c color.Color) {
		col, err := drawing.FromColor(c)
		if err != nil {
			return
		}
		apply(col)
	}, w)
	p.Advanced = true
	p.SetColor(cur)
	p.Show()
}

// choose shows a single select; cancelling leaves the current value in place.
func choose(w fyne.Window, title, label string, options []string, current string, apply func(string)) {
	sel := widget.NewSelect(options, nil)
	sel.SetSelected(current)
	dialog.ShowForm(title, "OK", "Cancel", []*widget.FormItem{widget.NewFormItem(label, sel)}, func(ok bool) {
		if ok && sel.Selected != "" {
			apply(sel.Selected)
		}
	}, w)
}

func (a *App) showWidthDialog(w fyne.Window, refresh func()) {
	cv := a.canvas
	sl := widget.NewSlider(1, 10)
	sl.Step = 1
	sl.Value = min(max(cv.Style().Width, 1), 10)
	val := widget.NewLabel(fmt.Sprintf("%.0f px", sl.Value))
	sl.OnChanged = func(v float64) { val.SetText(fmt.Sprintf("%.0f px", v)) }
	dialog.ShowForm("Pen Width", "OK", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Width", container.NewBorder(nil, nil, nil, val, sl))},
		func(ok bool) {
			if !ok {
				return
			}
			if err := cv.SetPenWidth(sl.Value); err != nil {
				dialog.ShowError(err, w)
				return
			}
			refresh()
		}, w)
}

func (a *App) showSaveDialog(w fyne.Window, status *widget.Label) {
	d := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		path := ""
		if uc != nil {
			path = uc.URI().Path()
			_ = uc.Close()
		}
		res, err := a.Export(path)
		if path != "" && (err != nil || res.Path != path) {
			removeIfEmpty(path)
		}
		msg := ExportMessage(res, err)
		if msg == "" {
			return
		}
		if err != nil {
			dialog.ShowError(err, w)
		}
		status.SetText(msg)
	}, w)
	d.SetFileName(a.DefaultExportName())
	d.SetFilter(fstorage.NewExtensionFileFilter(export.Extensions))
	if dir := a.ExportDir(); dir != "" {
		if l, err := fstorage.ListerForURI(fstorage.NewFileURI(dir)); err == nil {
			d.SetLocation(l)
		}
	}
	d.Show()
}

// removeIfEmpty deletes the placeholder file the save dialog creates.
func removeIfEmpty(path string) {
	if fi, err := os.Stat(path); err == nil && fi.Size() == 0 {
		_ = os.Remove(path)
	}
}

// drawingArea is the on-screen canvas. It turns pointer events into canvas
// gestures and paints the scene through a raster.
type drawingArea struct {
	widget.BaseWidget
	cv          *canvas.Canvas
	raster      *fcanvas.Raster
	primaryHeld bool
}

var (
	_ desktop.Mouseable  = (*drawingArea)(nil)
	_ desktop.Cursorable = (*drawingArea)(nil)
	_ fyne.Draggable     = (*drawingArea)(nil)
	_ fyne.Scrollable    = (*drawingArea)(nil)
)

func newDrawingArea(cv *canvas.Canvas) *drawingArea {
	d := &drawingArea{cv: cv}
	d.raster = fcanvas.NewRaster(d.paint)
	s := cv.Size()
	d.raster.SetMinSize(fyne.NewSize(float32(s.W)/2, float32(s.H)/2))
	d.ExtendBaseWidget(d)
	return d
}

// paint renders at device resolution; w,h are pixels, the widget size is in DIPs.
func (d *drawingArea) paint(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scale := 1.0
	if sz := d.Size(); sz.Width > 0 {
		scale = float64(w) / float64(sz.Width)
	}
	render.Draw(img, d.cv.Scene(scale))
	return img
}

func (d *drawingArea) CreateRenderer() fyne.WidgetRenderer { return widget.NewSimpleRenderer(d.raster) }

func (d *drawingArea) Resize(s fyne.Size) {
	d.BaseWidget.Resize(s)
	d.cv.SetViewport(drawing.Size{W: int(s.Width), H: int(s.Height)})
}

func (d *drawingArea) Cursor() desktop.Cursor { return desktop.CrosshairCursor }

func (d *drawingArea) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		d.primaryHeld = true
	}
	d.cv.Press(toPoint(e.Position), toButton(e.Button))
}

func (d *drawingArea) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		d.primaryHeld = false
	}
	d.cv.Release()
}

func (d *drawingArea) Dragged(e *fyne.DragEvent) { d.cv.Move(toPoint(e.Position), d.primaryHeld) }

// DragEnd also ends the stroke when the button is released outside the widget.
func (d *drawingArea) DragEnd() {
	d.primaryHeld = false
	d.cv.Release()
}

func (d *drawingArea) Scrolled(e *fyne.ScrollEvent) { d.cv.Scroll(float64(e.Scrolled.DY)) }

func toPoint(p fyne.Position) drawing.Point { return drawing.Pt(float64(p.X), float64(p.Y)) }

func toButton(b desktop.MouseButton) canvas.Button {
	switch b {
	case desktop.MouseButtonPrimary:
		return canvas.ButtonPrimary
	case desktop.MouseButtonSecondary:
		return canvas.ButtonSecondary
	default:
		return canvas.ButtonTertiary
	}
}
