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

// Point is a canvas-local position in unzoomed units.
type Point struct{ X, Y float64 }

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Size is a width/height pair in pixels.
type Size struct{ W, H int }

// Contains reports whether p lies in [0,W]x[0,H], edges included.
func (s Size) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= float64(s.W) && p.Y <= float64(s.H)
}

// Rect is an axis-aligned bounding box.
type Rect struct{ Min, Max Point }

func (r Rect) Empty() bool { return r.Max.X < r.Min.X || r.Max.Y < r.Min.Y }

// Union returns the smallest rect containing both; an empty operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		Min: Point{min(r.Min.X, o.Min.X), min(r.Min.Y, o.Min.Y)},
		Max: Point{max(r.Max.X, o.Max.X), max(r.Max.Y, o.Max.Y)},
	}
}
