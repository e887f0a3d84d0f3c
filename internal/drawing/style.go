/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package drawing

import (
	"fmt"
	"strings"
)

// CapStyle is the shape painted at stroke ends.
type CapStyle uint8

const (
	CapRound CapStyle = iota
	CapSquare
)

var capNames = [...]string{CapRound: "round", CapSquare: "square"}
var capLabels = [...]string{CapRound: "Round", CapSquare: "Square"}

func (c CapStyle) String() string {
	if int(c) < len(capNames) {
		return capNames[c]
	}
	return fmt.Sprintf("cap(%d)", c)
}

// Label is the name shown in the brush type chooser.
func (c CapStyle) Label() string {
	if int(c) < len(capLabels) {
		return capLabels[c]
	}
	return c.String()
}

// CapStyles lists every cap in chooser order.
func CapStyles() []CapStyle { return []CapStyle{CapRound, CapSquare} }

// ParseCapStyle accepts either the config name or the UI label.
func ParseCapStyle(s string) (CapStyle, error) {
	for _, c := range CapStyles() {
		if strings.EqualFold(s, c.String()) || s == c.Label() {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: cap %q", ErrUnknownStyle, s)
}

// LineStyle is the dash pattern of a stroke.
type LineStyle uint8

const (
	LineSolid LineStyle = iota
	LineDash
	LineDot
	LineDashDot
	LineDashDotDot
)

var lineNames = [...]string{
	LineSolid: "solid", LineDash: "dash", LineDot: "dot",
	LineDashDot: "dash-dot", LineDashDotDot: "dash-dot-dot",
}

var lineLabels = [...]string{
	LineSolid: "SolidLine", LineDash: "DashLine", LineDot: "DotLine",
	LineDashDot: "DashDotLine", LineDashDotDot: "DashDotDotLine",
}

// Dash patterns in multiples of the pen width, alternating on/off.
var linePatterns = [...][]float64{
	LineSolid:      nil,
	LineDash:       {4, 2},
	LineDot:        {1, 2},
	LineDashDot:    {4, 2, 1, 2},
	LineDashDotDot: {4, 2, 1, 2, 1, 2},
}

func (l LineStyle) String() string {
	if int(l) < len(lineNames) {
		return lineNames[l]
	}
	return fmt.Sprintf("line(%d)", l)
}

func (l LineStyle) Label() string {
	if int(l) < len(lineLabels) {
		return lineLabels[l]
	}
	return l.String()
}

// LineStyles lists every line style in chooser order.
func LineStyles() []LineStyle {
	return []LineStyle{LineSolid, LineDash, LineDot, LineDashDot, LineDashDotDot}
}

func ParseLineStyle(s string) (LineStyle, error) {
	for _, l := range LineStyles() {
		if strings.EqualFold(s, l.String()) || s == l.Label() {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: line style %q", ErrUnknownStyle, s)
}

// Dashes returns the pattern scaled to the given pen width, or nil for a solid line.
func (l LineStyle) Dashes(width float64) []float64 {
	if int(l) >= len(linePatterns) || linePatterns[l] == nil {
		return nil
	}
	p := linePatterns[l]
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = v * width
	}
	return out
}

// Style is the pen state captured by a stroke.
type Style struct {
	Color Color
	Width float64
	Cap   CapStyle
	Line  LineStyle
}

// DefaultStyle is a black 1px solid round pen.
func DefaultStyle() Style { return Style{Color: Black, Width: 1, Cap: CapRound, Line: LineSolid} }

// Validate reports ErrInvalidWidth for non-positive widths and ErrUnknownStyle for out-of-range enums.
func (s Style) Validate() error {
	if !(s.Width > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidWidth, s.Width)
	}
	if int(s.Cap) >= len(capNames) {
		return fmt.Errorf("%w: %s", ErrUnknownStyle, s.Cap)
	}
	if int(s.Line) >= len(lineNames) {
		return fmt.Errorf("%w: %s", ErrUnknownStyle, s.Line)
	}
	return nil
}
