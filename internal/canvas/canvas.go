/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package canvas is the drawing surface model: pending pen attributes, zoom,
// background, the press/move/release gesture and the undoable edit history.
// It has no UI dependency; the Fyne widget feeds it pointer events.
// A Canvas is owned by one goroutine (the UI event loop).
package canvas

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"sketchpad/internal/drawing"
	applog "sketchpad/internal/log"
	"sketchpad/internal/render"
	"sketchpad/internal/undo"
)

// Button identifies the pointer button of a press.
type Button int

const (
	ButtonPrimary Button = iota + 1
	ButtonSecondary
	ButtonTertiary
)

// State is the gesture state.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// DefaultSize is the native canvas size in pixels.
var DefaultSize = drawing.Size{W: 1176, H: 642}

const DefaultZoomStep = 1.1

// Options configures a new Canvas. Zero fields take defaults.
type Options struct {
	Size       drawing.Size
	Background drawing.Color
	Style      drawing.Style
	// ZoomStep is the factor applied per wheel notch.
	ZoomStep float64
	// HistoryDepth caps the undo history (0 means unlimited).
	HistoryDepth int
}

func DefaultOptions() Options {
	return Options{Size: DefaultSize, Background: drawing.White, Style: drawing.DefaultStyle(), ZoomStep: DefaultZoomStep}
}

// Canvas holds the committed strokes and everything needed to extend them.
type Canvas struct {
	size     drawing.Size
	viewport drawing.Size
	bg       drawing.Color
	pending  drawing.Style
	zoom     float64
	step     float64

	strokes drawing.List
	hist    *undo.History

	state    State
	snapshot drawing.Style
	current  []drawing.Point

	observers []func()
	log       *slog.Logger
}

// New validates opts and returns an idle canvas with zoom 1 and an empty history.
func New(opts Options) (*Canvas, error) {
	def := DefaultOptions()
	if opts.Size.W <= 0 || opts.Size.H <= 0 {
		opts.Size = def.Size
	}
	if opts.Style == (drawing.Style{}) {
		opts.Style = def.Style
	}
	if opts.Background == (drawing.Color{}) {
		opts.Background = def.Background
	}
	if opts.ZoomStep <= 1 {
		opts.ZoomStep = def.ZoomStep
	}
	if err := opts.Style.Validate(); err != nil {
		return nil, fmt.Errorf("pen style: %w", err)
	}
	return &Canvas{
		size:     opts.Size,
		viewport: opts.Size,
		bg:       opts.Background,
		pending:  opts.Style,
		zoom:     1,
		step:     opts.ZoomStep,
		hist:     undo.NewHistory(undo.Config{MaxDepth: opts.HistoryDepth}),
		log:      applog.WithComponent("canvas"),
	}, nil
}

// OnChange registers fn to run after every visible change.
func (c *Canvas) OnChange(fn func()) {
	if fn != nil {
		c.observers = append(c.observers, fn)
	}
}

func (c *Canvas) changed() {
	for _, fn := range c.observers {
		fn()
	}
}

// Size is the native (export) size.
func (c *Canvas) Size() drawing.Size { return c.size }

// SetViewport sets the on-screen area that accepts presses and moves.
func (c *Canvas) SetViewport(s drawing.Size) {
	if s.W > 0 && s.H > 0 {
		c.viewport = s
	}
}

func (c *Canvas) Viewport() drawing.Size     { return c.viewport }
func (c *Canvas) Background() drawing.Color { return c.bg }
func (c *Canvas) Zoom() float64             { return c.zoom }
func (c *Canvas) State() State              { return c.state }

// Style returns the pending attributes the next stroke will use.
func (c *Canvas) Style() drawing.Style { return c.pending }

// Strokes returns a copy of the committed strokes in paint order.
func (c *Canvas) Strokes() []drawing.Stroke { return c.strokes.All() }

// StrokeCount is the number of committed strokes.
func (c *Canvas) StrokeCount() int { return c.strokes.Len() }

// InProgress returns the uncommitted stroke, drawn with the style captured at press time.
func (c *Canvas) InProgress() (drawing.Stroke, bool) {
	if c.state != Drawing {
		return drawing.Stroke{}, false
	}
	return drawing.Stroke{Points: append([]drawing.Point(nil), c.current...), Style: c.snapshot}, true
}

// Press starts a stroke at the screen point pt. Only the primary button
// inside the viewport starts drawing; the pending style is captured here.
func (c *Canvas) Press(pt drawing.Point, b Button) bool {
	if b != ButtonPrimary || c.state == Drawing || !c.viewport.Contains(pt) {
		return false
	}
	c.state = Drawing
	c.snapshot = c.pending
	c.current = []drawing.Point{c.toCanvas(pt)}
	c.changed()
	return true
}

// Move extends the in-progress stroke. It is ignored when not drawing,
// when the primary button is not held, or when pt is outside the viewport.
func (c *Canvas) Move(pt drawing.Point, primaryHeld bool) bool {
	if c.state != Drawing || !primaryHeld || !c.viewport.Contains(pt) {
		return false
	}
	c.current = append(c.current, c.toCanvas(pt))
	c.changed()
	return true
}

// Release ends the gesture and commits the stroke through the history.
// Releasing while idle does nothing.
func (c *Canvas) Release() bool {
	if c.state != Drawing {
		return false
	}
	s := drawing.NewStroke(c.current, c.snapshot)
	c.state = Idle
	c.current = nil
	if err := c.hist.Execute(&addStroke{list: &c.strokes, stroke: s}); err != nil {
		c.log.Error("commit stroke failed", slog.Any("err", err))
		c.changed()
		return false
	}
	c.log.Debug("stroke committed", slog.String("id", s.ID.String()), slog.Int("points", len(s.Points)),
		slog.String("color", s.Style.Color.Hex()), slog.Float64("width", s.Style.Width))
	c.changed()
	return true
}

func (c *Canvas) toCanvas(pt drawing.Point) drawing.Point { return pt.Scale(1 / c.zoom) }

// Scroll zooms in for dy > 0 and out for dy < 0. The zoom is not clamped.
func (c *Canvas) Scroll(dy float64) bool {
	switch {
	case dy > 0:
		c.zoom *= c.step
	case dy < 0:
		c.zoom /= c.step
	default:
		return false
	}
	c.log.Debug("zoom", slog.Float64("scale", c.zoom))
	c.changed()
	return true
}

// Undo reverts the most recent edit. It reports false when there is nothing to undo.
func (c *Canvas) Undo() bool { return c.historyStep(c.hist.Undo, "undo") }

// Redo re-applies the most recently undone edit.
func (c *Canvas) Redo() bool { return c.historyStep(c.hist.Redo, "redo") }

func (c *Canvas) historyStep(op func() error, name string) bool {
	if err := op(); err != nil {
		if !errors.Is(err, undo.ErrEmptyHistory) {
			c.log.Error(name+" failed", slog.Any("err", err))
		}
		return false
	}
	c.log.Debug(name, slog.Int("pos", c.hist.Position()), slog.Int("strokes", c.strokes.Len()))
	c.changed()
	return true
}

func (c *Canvas) CanUndo() bool    { return c.hist.CanUndo() }
func (c *Canvas) CanRedo() bool    { return c.hist.CanRedo() }
func (c *Canvas) UndoName() string { return c.hist.UndoName() }
func (c *Canvas) RedoName() string { return c.hist.RedoName() }

// Clear removes all committed strokes as one undoable edit.
func (c *Canvas) Clear() bool {
	if c.strokes.Len() == 0 {
		return false
	}
	return c.exec(&clearAll{list: &c.strokes})
}

// SetBackground changes the background color as an undoable edit.
func (c *Canvas) SetBackground(col drawing.Color) bool {
	if col == c.bg {
		return false
	}
	return c.exec(&changeBackground{bg: &c.bg, from: c.bg, to: col})
}

func (c *Canvas) exec(cmd undo.Command) bool {
	if err := c.hist.Execute(cmd); err != nil {
		c.log.Error("edit failed", slog.Any("err", err))
		return false
	}
	c.log.Debug("edit", slog.String("cmd", cmd.Name()))
	c.changed()
	return true
}

// SetPenColor sets the color of the next stroke.
func (c *Canvas) SetPenColor(col drawing.Color) { c.pending.Color = col }

// SetPenWidth sets the width of the next stroke.
func (c *Canvas) SetPenWidth(w float64) error {
	if !(w > 0) {
		return fmt.Errorf("%w: %v", drawing.ErrInvalidWidth, w)
	}
	c.pending.Width = w
	return nil
}

func (c *Canvas) SetCapStyle(cs drawing.CapStyle)   { c.pending.Cap = cs }
func (c *Canvas) SetLineStyle(ls drawing.LineStyle) { c.pending.Line = ls }

// Scene describes the current frame. scale is the device scale; the zoom is applied on top.
func (c *Canvas) Scene(scale float64) render.Scene {
	if scale <= 0 {
		scale = 1
	}
	strokes := c.strokes.All()
	if s, ok := c.InProgress(); ok {
		strokes = append(strokes, s)
	}
	return render.Scene{Background: c.bg, Strokes: strokes, Scale: c.zoom * scale}
}

// Snapshot renders the drawing at native size, as an export would.
func (c *Canvas) Snapshot() *image.RGBA { return render.Image(c.size, c.Scene(1)) }
