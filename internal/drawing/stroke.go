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

import "github.com/google/uuid"

// Stroke is a committed freehand path together with the pen it was drawn with.
type Stroke struct {
	ID     uuid.UUID
	Points []Point
	Style  Style
}

// NewStroke assigns a fresh ID and takes its own copy of pts.
func NewStroke(pts []Point, st Style) Stroke {
	return Stroke{ID: uuid.New(), Points: append([]Point(nil), pts...), Style: st}
}

// Clone returns a deep copy; callers may not mutate a stroke held by a List.
func (s Stroke) Clone() Stroke {
	s.Points = append([]Point(nil), s.Points...)
	return s
}

// Drawable reports whether the stroke has a visible segment.
func (s Stroke) Drawable() bool { return len(s.Points) >= 2 }

// Bounds returns the bounding box of the points, ignoring the pen width.
func (s Stroke) Bounds() Rect {
	if len(s.Points) == 0 {
		return Rect{Min: Point{1, 1}}
	}
	r := Rect{Min: s.Points[0], Max: s.Points[0]}
	for _, p := range s.Points[1:] {
		r.Min.X, r.Min.Y = min(r.Min.X, p.X), min(r.Min.Y, p.Y)
		r.Max.X, r.Max.Y = max(r.Max.X, p.X), max(r.Max.Y, p.Y)
	}
	return r
}
