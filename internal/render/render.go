/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package render rasterizes a sketch scene. The canvas widget and the image
// exporter both paint through Draw so that screen and file match.
package render

import (
	"image"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"sketchpad/internal/drawing"
)

// Scene is everything needed to paint one frame.
type Scene struct {
	Background drawing.Color
	// Strokes in paint order; the in-progress stroke, if any, goes last.
	Strokes []drawing.Stroke
	// Scale multiplies coordinates and pen widths. Zero means 1.
	Scale float64
}

const miterLimit = 4

// Draw fills dst with the background and strokes every drawable stroke on top.
func Draw(dst draw.Image, sc Scene) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(sc.Background.NRGBA()), image.Point{}, draw.Src)

	scale := sc.Scale
	if scale <= 0 {
		scale = 1
	}
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	d := rasterx.NewDasher(b.Dx(), b.Dy(), scanner)
	for _, s := range sc.Strokes {
		strokeOne(d, s, scale, b.Min)
	}
}

// Image allocates an RGBA image of the given size and draws sc into it.
func Image(size drawing.Size, sc Scene) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(size.W, 1), max(size.H, 1)))
	Draw(img, sc)
	return img
}

func strokeOne(d *rasterx.Dasher, s drawing.Stroke, scale float64, origin image.Point) {
	if !s.Drawable() || !(s.Style.Width > 0) {
		return
	}
	w := s.Style.Width * scale
	d.SetStroke(fixed.Int26_6(w*64), fixed.Int26_6(miterLimit*64),
		capFunc(s.Style.Cap), nil, rasterx.RoundGap, rasterx.Round,
		s.Style.Line.Dashes(w), 0)
	d.SetColor(s.Style.Color.NRGBA())

	ox, oy := float64(origin.X), float64(origin.Y)
	p := s.Points[0].Scale(scale)
	d.Start(rasterx.ToFixedP(p.X+ox, p.Y+oy))
	for _, q := range s.Points[1:] {
		p = q.Scale(scale)
		d.Line(rasterx.ToFixedP(p.X+ox, p.Y+oy))
	}
	d.Stop(false)
	d.Draw()
	d.Clear()
}

func capFunc(c drawing.CapStyle) rasterx.CapFunc {
	if c == drawing.CapSquare {
		return rasterx.SquareCap
	}
	return rasterx.RoundCap
}
